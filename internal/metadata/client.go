package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ansh-jadav/Movie-Review-system/internal/domain"
)

// ErrNotFound is returned when the catalog has no movie for the identifier.
var ErrNotFound = errors.New("metadata: not found")

// Client is the read-side contract for movie metadata. Implementations talk
// to the credential-injecting relay, never to the upstreams directly.
type Client interface {
	Search(ctx context.Context, query string) ([]domain.MovieSummary, error)
	SearchByType(ctx context.Context, query, mediaType string) ([]domain.MovieSummary, error)
	FetchDetail(ctx context.Context, imdbID string) (domain.MovieDetail, error)
	CrossReference(ctx context.Context, imdbID string) (*domain.ExternalRef, error)
	ListVideos(ctx context.Context, externalID int) ([]domain.Video, error)
}

// HTTPClient implements Client over HTTP against the relay endpoints.
type HTTPClient struct {
	baseURL   *url.URL
	client    *http.Client
	retryOnce bool
	logger    *log.Logger
}

// NewHTTPClient constructs an HTTP-backed metadata client rooted at the relay
// base URL. When retryOnce is set, a failed round trip is repeated one time
// before the error is returned.
func NewHTTPClient(baseURL string, timeout time.Duration, retryOnce bool, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse metadata base url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		retryOnce: retryOnce,
		logger:    logger,
	}, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + path
	endpoint.RawQuery = query.Encode()

	attempts := 1
	if c.retryOnce {
		attempts = 2
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// searchEnvelope tolerates the upstream's loose schema: on a miss, Search is
// the string "False" rather than a list, so it decodes lazily.
type searchEnvelope struct {
	Response string          `json:"Response"`
	Search   json.RawMessage `json:"Search"`
}

// Search queries the catalog by free-text title. A miss or a malformed result
// list degrades to an empty slice; only transport-level failures are errors.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	return c.search(ctx, query, "")
}

// SearchByType is Search restricted to one media type, e.g. "movie".
func (c *HTTPClient) SearchByType(ctx context.Context, query, mediaType string) ([]domain.MovieSummary, error) {
	return c.search(ctx, query, mediaType)
}

func (c *HTTPClient) search(ctx context.Context, query, mediaType string) ([]domain.MovieSummary, error) {
	q := url.Values{}
	q.Set("s", query)
	if mediaType != "" {
		q.Set("type", mediaType)
	}

	resp, err := c.get(ctx, "/omdb", q)
	if err != nil {
		return nil, fmt.Errorf("metadata search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata search: relay returned %d", resp.StatusCode)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("metadata search: decode: %w", err)
	}

	// A non-"True" response is a miss whatever the Search field carries.
	if envelope.Response != "True" {
		return []domain.MovieSummary{}, nil
	}
	return DecodeSearchResults(envelope.Search), nil
}

// DecodeSearchResults interprets the raw Search field. Anything that is not a
// JSON list of summaries yields an empty slice.
func DecodeSearchResults(raw json.RawMessage) []domain.MovieSummary {
	if len(raw) == 0 {
		return []domain.MovieSummary{}
	}
	var results []domain.MovieSummary
	if err := json.Unmarshal(raw, &results); err != nil {
		return []domain.MovieSummary{}
	}
	if results == nil {
		return []domain.MovieSummary{}
	}
	return results
}

// FetchDetail loads the full record for one movie identifier.
func (c *HTTPClient) FetchDetail(ctx context.Context, imdbID string) (domain.MovieDetail, error) {
	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("plot", "full")

	resp, err := c.get(ctx, "/omdb", q)
	if err != nil {
		return domain.MovieDetail{}, fmt.Errorf("metadata detail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.MovieDetail{}, fmt.Errorf("metadata detail: relay returned %d", resp.StatusCode)
	}

	var detail domain.MovieDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return domain.MovieDetail{}, fmt.Errorf("metadata detail: decode: %w", err)
	}
	if detail.Response == "False" {
		return domain.MovieDetail{}, ErrNotFound
	}
	return detail, nil
}

type findEnvelope struct {
	MovieResults []domain.ExternalRef `json:"movie_results"`
}

// CrossReference resolves an IMDb identifier to the extended catalog's own
// numeric identifier. A movie unknown to that catalog yields nil, not an
// error: videos are an enrichment, not a requirement.
func (c *HTTPClient) CrossReference(ctx context.Context, imdbID string) (*domain.ExternalRef, error) {
	q := url.Values{}
	q.Set("path", "find/"+imdbID)
	q.Set("external_source", "imdb_id")

	resp, err := c.get(ctx, "/tmdb", q)
	if err != nil {
		return nil, fmt.Errorf("metadata cross-reference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("metadata: cross-reference for %s returned %d", imdbID, resp.StatusCode)
		return nil, nil
	}

	var envelope findEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, nil
	}
	if len(envelope.MovieResults) == 0 {
		return nil, nil
	}
	ref := envelope.MovieResults[0]
	return &ref, nil
}

type videosEnvelope struct {
	Results []domain.Video `json:"results"`
}

// ListVideos fetches the raw video records for an extended-catalog
// identifier. Failures degrade to an empty list.
func (c *HTTPClient) ListVideos(ctx context.Context, externalID int) ([]domain.Video, error) {
	q := url.Values{}
	q.Set("path", "movie/"+strconv.Itoa(externalID)+"/videos")

	resp, err := c.get(ctx, "/tmdb", q)
	if err != nil {
		return nil, fmt.Errorf("metadata videos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("metadata: videos for %d returned %d", externalID, resp.StatusCode)
		return []domain.Video{}, nil
	}

	var envelope videosEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return []domain.Video{}, nil
	}
	if envelope.Results == nil {
		return []domain.Video{}, nil
	}
	return envelope.Results, nil
}
