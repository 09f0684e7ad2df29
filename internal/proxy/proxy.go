package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// metadataParams is the allow-list of query parameters forwarded to the
// metadata upstream. Anything else a caller sends is dropped.
var metadataParams = []string{"s", "i", "plot", "type"}

// Relay hides upstream API credentials from browsers. Each endpoint accepts a
// request without a key, injects the configured credential server-side, and
// streams the upstream JSON body back verbatim.
type Relay struct {
	metadataBase *url.URL
	metadataKey  string
	extendedBase *url.URL
	extendedKey  string
	client       *http.Client
	logger       *log.Logger
}

// Options configures a Relay.
type Options struct {
	MetadataBaseURL string
	MetadataKey     string
	ExtendedBaseURL string
	ExtendedKey     string
	Timeout         time.Duration
	Logger          *log.Logger
}

// New constructs a Relay. Both upstream base URLs must parse.
func New(opts Options) (*Relay, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	metadataBase, err := url.Parse(strings.TrimRight(opts.MetadataBaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse metadata base url: %w", err)
	}
	extendedBase, err := url.Parse(strings.TrimRight(opts.ExtendedBaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse extended base url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Relay{
		metadataBase: metadataBase,
		metadataKey:  opts.MetadataKey,
		extendedBase: extendedBase,
		extendedKey:  opts.ExtendedKey,
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
		logger: logger,
	}, nil
}

// Metadata forwards a request to the metadata upstream. Only the allow-listed
// parameters survive; the credential is appended server-side.
func (p *Relay) Metadata(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	for _, name := range metadataParams {
		if v := r.URL.Query().Get(name); v != "" {
			q.Set(name, v)
		}
	}
	q.Set("apikey", p.metadataKey)

	endpoint := *p.metadataBase
	endpoint.RawQuery = q.Encode()
	p.forward(w, r, endpoint.String(), "metadata")
}

// Extended forwards a request to the extended upstream. The caller names the
// upstream resource with the path query parameter; its absence is a client
// error.
func (p *Relay) Extended(w http.ResponseWriter, r *http.Request) {
	incoming := r.URL.Query()
	resource := incoming.Get("path")
	if resource == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: path")
		return
	}

	q := url.Values{}
	for name, values := range incoming {
		if name == "path" || name == "api_key" {
			continue
		}
		for _, v := range values {
			q.Add(name, v)
		}
	}
	q.Set("api_key", p.extendedKey)

	endpoint := *p.extendedBase
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/" + strings.TrimLeft(resource, "/")
	endpoint.RawQuery = q.Encode()
	p.forward(w, r, endpoint.String(), "extended")
}

// forward performs the upstream GET and streams the body back. Upstream
// failures map to a fixed envelope: error details can carry the request URL
// and with it the credential, so they go to neither the client nor the log.
func (p *Relay) forward(w http.ResponseWriter, r *http.Request, endpoint, upstream string) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		p.logger.Printf("proxy: build %s request failed", upstream)
		writeError(w, http.StatusInternalServerError, "upstream request failed")
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Printf("proxy: %s upstream unreachable", upstream)
		writeError(w, http.StatusInternalServerError, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Printf("proxy: read %s upstream body failed", upstream)
		writeError(w, http.StatusInternalServerError, "upstream request failed")
		return
	}

	if resp.StatusCode != http.StatusOK || !json.Valid(body) {
		p.logger.Printf("proxy: %s upstream returned status %d", upstream, resp.StatusCode)
		writeError(w, http.StatusInternalServerError, "upstream request failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
