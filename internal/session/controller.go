package session

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"

	"github.com/Ansh-jadav/Movie-Review-system/internal/domain"
	"github.com/Ansh-jadav/Movie-Review-system/internal/metadata"
)

var (
	// ErrNoMovieOpen is returned for review operations without an open detail view.
	ErrNoMovieOpen = errors.New("session: no movie open")
	// ErrEmptyReview is returned when a submitted review has no text.
	ErrEmptyReview = errors.New("session: review text is empty")
	// ErrNoThumb is returned when a review is submitted without a verdict.
	ErrNoThumb = errors.New("session: no thumb selected")
	// ErrInvalidThumb is returned for verdict values outside up or down.
	ErrInvalidThumb = errors.New("session: invalid thumb value")
)

// suggestionGenres seeds the landing page with something to click before the
// first search.
var suggestionGenres = []string{
	"Action", "Comedy", "Drama", "Sci-Fi", "Horror", "Thriller", "Romance", "Adventure",
}

const maxSuggestions = 5

// ReviewStore is the persistence contract the controller needs.
type ReviewStore interface {
	Get(ctx context.Context, movieID string) ([]domain.Review, error)
	Add(ctx context.Context, movieID string, review domain.Review) ([]domain.Review, error)
	Delete(ctx context.Context, movieID, reviewID string) ([]domain.Review, bool, error)
	ClearAll(ctx context.Context) (int64, error)
}

// DetailView is everything the detail region renders for one open movie.
type DetailView struct {
	Detail      domain.MovieDetail
	Reviews     []domain.Review
	Sentiment   int
	VideoGroups map[string][]domain.Video
}

// Controller holds the per-process interaction state: which movie is open,
// the pending thumb verdict, and the in-flight detail load. One Controller
// serves the whole process; this is a single-tenant app.
type Controller struct {
	meta    metadata.Client
	reviews ReviewStore
	logger  *log.Logger
	search  *Debouncer

	mu         sync.Mutex
	current    *DetailView
	thumb      domain.Thumb
	cancelOpen context.CancelFunc
}

// New constructs a Controller.
func New(meta metadata.Client, reviews ReviewStore, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		meta:    meta,
		reviews: reviews,
		logger:  logger,
		search:  NewDebouncer(DefaultSearchDelay),
	}
}

// Close releases controller resources: the debouncer and any in-flight open.
func (c *Controller) Close() {
	c.search.Close()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelOpen != nil {
		c.cancelOpen()
		c.cancelOpen = nil
	}
}

// Search queries the catalog by free-text title.
func (c *Controller) Search(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	return c.meta.Search(ctx, query)
}

// QueueSearch is the typed-input path: queries shorter than three characters
// are dropped, longer ones are debounced so only the final keystroke in a
// burst reaches the catalog. emit receives the outcome asynchronously.
func (c *Controller) QueueSearch(ctx context.Context, query string, emit func([]domain.MovieSummary, error)) {
	if len(strings.TrimSpace(query)) < MinAutoSearchLen {
		return
	}
	c.search.Trigger(func() {
		emit(c.Search(ctx, query))
	})
}

// FlushSearch is the explicit-submit path: any debounced search still
// pending is cancelled so it cannot land after this one, and the query runs
// immediately with no length gate.
func (c *Controller) FlushSearch(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	var (
		results []domain.MovieSummary
		err     error
	)
	c.search.Flush(func() {
		results, err = c.Search(ctx, query)
	})
	return results, err
}

// RandomSuggestions returns up to five picks from a randomly chosen genre.
func (c *Controller) RandomSuggestions(ctx context.Context) ([]domain.MovieSummary, error) {
	genre := suggestionGenres[rand.Intn(len(suggestionGenres))]
	results, err := c.meta.SearchByType(ctx, genre, "movie")
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})
	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}
	return results, nil
}

// OpenDetail loads the full detail view for a movie: metadata, videos, and
// stored reviews. Opening a movie cancels any detail load still in flight, so
// a stale response can never overwrite a newer selection.
func (c *Controller) OpenDetail(ctx context.Context, imdbID string) (*DetailView, error) {
	c.mu.Lock()
	if c.cancelOpen != nil {
		c.cancelOpen()
	}
	openCtx, cancel := context.WithCancel(ctx)
	c.cancelOpen = cancel
	c.mu.Unlock()

	detail, err := c.meta.FetchDetail(openCtx, imdbID)
	if err != nil {
		return nil, err
	}

	reviews, err := c.reviews.Get(openCtx, imdbID)
	if err != nil {
		return nil, err
	}

	// Videos are an enrichment. A movie absent from the extended catalog,
	// or a failed video fetch, still opens with an empty video region.
	groups := map[string][]domain.Video{}
	ref, refErr := c.meta.CrossReference(openCtx, imdbID)
	if refErr != nil {
		if openCtx.Err() != nil {
			return nil, openCtx.Err()
		}
		c.logger.Printf("session: cross-reference for %s failed: %v", imdbID, refErr)
	} else if ref != nil {
		videos, vidErr := c.meta.ListVideos(openCtx, ref.ID)
		if vidErr != nil {
			if openCtx.Err() != nil {
				return nil, openCtx.Err()
			}
			c.logger.Printf("session: videos for %s failed: %v", imdbID, vidErr)
		} else {
			groups = domain.GroupVideos(videos)
		}
	}

	view := &DetailView{
		Detail:      detail,
		Reviews:     reviews,
		Sentiment:   domain.SentimentPercent(reviews),
		VideoGroups: groups,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if openCtx.Err() != nil {
		return nil, openCtx.Err()
	}
	c.current = view
	return view, nil
}

// Current returns the open detail view, or nil.
func (c *Controller) Current() *DetailView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Thumb returns the pending verdict for the open movie.
func (c *Controller) Thumb() domain.Thumb {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.thumb
}

// SetThumb records the verdict for the next review on the open movie.
func (c *Controller) SetThumb(movieID string, value domain.Thumb) error {
	if !value.Valid() {
		return ErrInvalidThumb
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.Detail.IMDbID != movieID {
		return ErrNoMovieOpen
	}
	c.thumb = value
	return nil
}

// SubmitReview validates and stores a review for the open movie. The text
// must be non-empty after trimming and a thumb must be selected. On success
// the pending thumb resets and the cached view is refreshed.
func (c *Controller) SubmitReview(ctx context.Context, movieID, text string) ([]domain.Review, error) {
	c.mu.Lock()
	if c.current == nil || c.current.Detail.IMDbID != movieID {
		c.mu.Unlock()
		return nil, ErrNoMovieOpen
	}
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return nil, ErrEmptyReview
	}
	if !c.thumb.Valid() {
		c.mu.Unlock()
		return nil, ErrNoThumb
	}
	thumb := c.thumb
	c.mu.Unlock()

	review := domain.NewReview(text, thumb)
	reviews, err := c.reviews.Add(ctx, movieID, review)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.thumb = ""
	if c.current != nil && c.current.Detail.IMDbID == movieID {
		c.current.Reviews = reviews
		c.current.Sentiment = domain.SentimentPercent(reviews)
	}
	return reviews, nil
}

// DeleteReview removes one stored review and refreshes the cached view.
func (c *Controller) DeleteReview(ctx context.Context, movieID, reviewID string) ([]domain.Review, bool, error) {
	reviews, removed, err := c.reviews.Delete(ctx, movieID, reviewID)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.Detail.IMDbID == movieID {
		c.current.Reviews = reviews
		c.current.Sentiment = domain.SentimentPercent(reviews)
	}
	return reviews, removed, nil
}

// ClearAll wipes every stored review on this device and reports how many
// movies had collections removed.
func (c *Controller) ClearAll(ctx context.Context) (int64, error) {
	cleared, err := c.reviews.ClearAll(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Reviews = []domain.Review{}
		c.current.Sentiment = 0
	}
	return cleared, nil
}
