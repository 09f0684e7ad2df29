package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/Ansh-jadav/Movie-Review-system/internal/domain"
	"github.com/Ansh-jadav/Movie-Review-system/internal/metadata"
)

type fakeMeta struct {
	mu      sync.Mutex
	details map[string]domain.MovieDetail
	refs    map[string]*domain.ExternalRef
	videos  map[int][]domain.Video
	results []domain.MovieSummary

	searchErr error
	lastQuery string
	lastType  string

	// blockOn holds a channel per movie ID; FetchDetail for that ID waits
	// until the channel closes or the context ends.
	blockOn map[string]chan struct{}
}

var _ metadata.Client = (*fakeMeta)(nil)

func (f *fakeMeta) Search(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	f.lastType = ""
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeMeta) SearchByType(ctx context.Context, query, mediaType string) ([]domain.MovieSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	f.lastType = mediaType
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeMeta) FetchDetail(ctx context.Context, imdbID string) (domain.MovieDetail, error) {
	f.mu.Lock()
	gate := f.blockOn[imdbID]
	detail, ok := f.details[imdbID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.MovieDetail{}, ctx.Err()
		}
	}
	if !ok {
		return domain.MovieDetail{}, metadata.ErrNotFound
	}
	return detail, nil
}

func (f *fakeMeta) CrossReference(ctx context.Context, imdbID string) (*domain.ExternalRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs[imdbID], nil
}

func (f *fakeMeta) ListVideos(ctx context.Context, externalID int) ([]domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.videos[externalID], nil
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]domain.Review
}

var _ ReviewStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]domain.Review{}}
}

func (s *memoryStore) Get(ctx context.Context, movieID string) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Review{}, s.data[movieID]...), nil
}

func (s *memoryStore) Add(ctx context.Context, movieID string, review domain.Review) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[movieID] = append([]domain.Review{review}, s.data[movieID]...)
	return append([]domain.Review{}, s.data[movieID]...), nil
}

func (s *memoryStore) Delete(ctx context.Context, movieID, reviewID string) ([]domain.Review, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]domain.Review, 0, len(s.data[movieID]))
	removed := false
	for _, review := range s.data[movieID] {
		if review.ID == reviewID {
			removed = true
			continue
		}
		kept = append(kept, review)
	}
	s.data[movieID] = kept
	return append([]domain.Review{}, kept...), removed, nil
}

func (s *memoryStore) ClearAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := int64(len(s.data))
	s.data = map[string][]domain.Review{}
	return cleared, nil
}

func newTestController(meta *fakeMeta, store ReviewStore) *Controller {
	return New(meta, store, log.New(io.Discard, "", 0))
}

func batmanMeta() *fakeMeta {
	return &fakeMeta{
		details: map[string]domain.MovieDetail{
			"tt0372784": {
				MovieSummary: domain.MovieSummary{IMDbID: "tt0372784", Title: "Batman Begins", Year: "2005", Type: "movie"},
				Plot:         "After witnessing his parents' death...",
			},
		},
		refs: map[string]*domain.ExternalRef{
			"tt0372784": {ID: 272},
		},
		videos: map[int][]domain.Video{
			272: {
				{Site: "YouTube", Type: "Trailer", Key: "t1"},
				{Site: "YouTube", Type: "Clip", Key: "c1"},
				{Site: "Vimeo", Type: "Trailer", Key: "v1"},
				{Site: "YouTube", Type: "Opening Credits", Key: "x1"},
			},
		},
	}
}

func TestOpenDetail(t *testing.T) {
	meta := batmanMeta()
	controller := newTestController(meta, newMemoryStore())
	defer controller.Close()

	view, err := controller.OpenDetail(context.Background(), "tt0372784")
	if err != nil {
		t.Fatalf("OpenDetail: %v", err)
	}
	if view.Detail.Title != "Batman Begins" {
		t.Fatalf("title = %q", view.Detail.Title)
	}
	if len(view.VideoGroups["Trailer"]) != 1 || len(view.VideoGroups["Clip"]) != 1 {
		t.Fatalf("video groups = %+v, want filtered to embeddable categories", view.VideoGroups)
	}
	if _, ok := view.VideoGroups["Opening Credits"]; ok {
		t.Fatalf("non-allow-listed category survived grouping")
	}
	if len(view.Reviews) != 0 || view.Sentiment != 0 {
		t.Fatalf("fresh movie should have no reviews")
	}
	if controller.Current() != view {
		t.Fatalf("Current() should return the opened view")
	}
}

func TestOpenDetailUnknownMovie(t *testing.T) {
	controller := newTestController(batmanMeta(), newMemoryStore())
	defer controller.Close()

	if _, err := controller.OpenDetail(context.Background(), "tt0000000"); !errors.Is(err, metadata.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestOpenDetailWithoutCrossReference(t *testing.T) {
	meta := batmanMeta()
	meta.refs = map[string]*domain.ExternalRef{}
	controller := newTestController(meta, newMemoryStore())
	defer controller.Close()

	view, err := controller.OpenDetail(context.Background(), "tt0372784")
	if err != nil {
		t.Fatalf("OpenDetail: %v", err)
	}
	if len(view.VideoGroups) != 0 {
		t.Fatalf("video groups = %+v, want empty without cross-reference", view.VideoGroups)
	}
}

func TestOpenDetailSuperseded(t *testing.T) {
	meta := batmanMeta()
	meta.details["tt0111161"] = domain.MovieDetail{
		MovieSummary: domain.MovieSummary{IMDbID: "tt0111161", Title: "The Shawshank Redemption"},
	}
	gate := make(chan struct{})
	meta.blockOn = map[string]chan struct{}{"tt0372784": gate}

	controller := newTestController(meta, newMemoryStore())
	defer controller.Close()

	firstErr := make(chan error, 1)
	go func() {
		_, err := controller.OpenDetail(context.Background(), "tt0372784")
		firstErr <- err
	}()

	// Wait for the first open to be in flight before superseding it.
	time.Sleep(50 * time.Millisecond)

	view, err := controller.OpenDetail(context.Background(), "tt0111161")
	if err != nil {
		t.Fatalf("second OpenDetail: %v", err)
	}
	close(gate)

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("superseded open err = %v, want context.Canceled", err)
	}
	if got := controller.Current(); got != view || got.Detail.IMDbID != "tt0111161" {
		t.Fatalf("Current() = %+v, want the newer selection", got.Detail)
	}
}

func TestSubmitReviewStateMachine(t *testing.T) {
	controller := newTestController(batmanMeta(), newMemoryStore())
	defer controller.Close()
	ctx := context.Background()

	if _, err := controller.SubmitReview(ctx, "tt0372784", "great"); !errors.Is(err, ErrNoMovieOpen) {
		t.Fatalf("err = %v, want ErrNoMovieOpen", err)
	}

	if _, err := controller.OpenDetail(ctx, "tt0372784"); err != nil {
		t.Fatalf("OpenDetail: %v", err)
	}

	if _, err := controller.SubmitReview(ctx, "tt0372784", "   "); !errors.Is(err, ErrEmptyReview) {
		t.Fatalf("err = %v, want ErrEmptyReview", err)
	}
	if _, err := controller.SubmitReview(ctx, "tt0372784", "great"); !errors.Is(err, ErrNoThumb) {
		t.Fatalf("err = %v, want ErrNoThumb", err)
	}

	if err := controller.SetThumb("tt0372784", domain.ThumbUp); err != nil {
		t.Fatalf("SetThumb: %v", err)
	}
	reviews, err := controller.SubmitReview(ctx, "tt0372784", "  great movie  ")
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Text != "great movie" {
		t.Fatalf("reviews = %+v, want one trimmed review", reviews)
	}
	if controller.Thumb() != "" {
		t.Fatalf("thumb should reset after a successful submit")
	}
	if controller.Current().Sentiment != 100 {
		t.Fatalf("sentiment = %d, want 100", controller.Current().Sentiment)
	}

	// The next submit needs a fresh verdict.
	if _, err := controller.SubmitReview(ctx, "tt0372784", "another"); !errors.Is(err, ErrNoThumb) {
		t.Fatalf("err = %v, want ErrNoThumb after reset", err)
	}
}

func TestSetThumbValidation(t *testing.T) {
	controller := newTestController(batmanMeta(), newMemoryStore())
	defer controller.Close()

	if err := controller.SetThumb("tt0372784", "sideways"); !errors.Is(err, ErrInvalidThumb) {
		t.Fatalf("err = %v, want ErrInvalidThumb", err)
	}
	if err := controller.SetThumb("tt0372784", domain.ThumbUp); !errors.Is(err, ErrNoMovieOpen) {
		t.Fatalf("err = %v, want ErrNoMovieOpen", err)
	}
}

func TestDeleteReviewRefreshesView(t *testing.T) {
	controller := newTestController(batmanMeta(), newMemoryStore())
	defer controller.Close()
	ctx := context.Background()

	if _, err := controller.OpenDetail(ctx, "tt0372784"); err != nil {
		t.Fatalf("OpenDetail: %v", err)
	}
	_ = controller.SetThumb("tt0372784", domain.ThumbUp)
	reviews, err := controller.SubmitReview(ctx, "tt0372784", "keep")
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	remaining, removed, err := controller.DeleteReview(ctx, "tt0372784", reviews[0].ID)
	if err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if !removed || len(remaining) != 0 {
		t.Fatalf("removed = %v, remaining = %d", removed, len(remaining))
	}
	if len(controller.Current().Reviews) != 0 {
		t.Fatalf("cached view not refreshed after delete")
	}

	_, removed, err = controller.DeleteReview(ctx, "tt0372784", "no-such-id")
	if err != nil {
		t.Fatalf("DeleteReview unknown: %v", err)
	}
	if removed {
		t.Fatalf("unknown review reported as removed")
	}
}

func TestClearAll(t *testing.T) {
	controller := newTestController(batmanMeta(), newMemoryStore())
	defer controller.Close()
	ctx := context.Background()

	if _, err := controller.OpenDetail(ctx, "tt0372784"); err != nil {
		t.Fatalf("OpenDetail: %v", err)
	}
	_ = controller.SetThumb("tt0372784", domain.ThumbDown)
	if _, err := controller.SubmitReview(ctx, "tt0372784", "meh"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	cleared, err := controller.ClearAll(ctx)
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("cleared = %d, want 1", cleared)
	}
	if len(controller.Current().Reviews) != 0 || controller.Current().Sentiment != 0 {
		t.Fatalf("cached view not reset after clear")
	}
}

func TestRandomSuggestions(t *testing.T) {
	meta := batmanMeta()
	meta.results = []domain.MovieSummary{
		{IMDbID: "tt1"}, {IMDbID: "tt2"}, {IMDbID: "tt3"},
		{IMDbID: "tt4"}, {IMDbID: "tt5"}, {IMDbID: "tt6"}, {IMDbID: "tt7"},
	}
	controller := newTestController(meta, newMemoryStore())
	defer controller.Close()

	picks, err := controller.RandomSuggestions(context.Background())
	if err != nil {
		t.Fatalf("RandomSuggestions: %v", err)
	}
	if len(picks) != 5 {
		t.Fatalf("picks = %d, want 5", len(picks))
	}

	meta.mu.Lock()
	genre, mediaType := meta.lastQuery, meta.lastType
	meta.mu.Unlock()
	if mediaType != "movie" {
		t.Fatalf("media type = %q, want movie", mediaType)
	}
	found := false
	for _, g := range suggestionGenres {
		if g == genre {
			found = true
		}
	}
	if !found {
		t.Fatalf("genre %q not in suggestion list", genre)
	}
}

func TestFlushSearchCancelsPending(t *testing.T) {
	meta := batmanMeta()
	meta.results = []domain.MovieSummary{{IMDbID: "tt0372784", Title: "Batman Begins"}}
	controller := newTestController(meta, newMemoryStore())
	defer controller.Close()

	leaked := make(chan struct{}, 1)
	controller.QueueSearch(context.Background(), "batma", func([]domain.MovieSummary, error) {
		leaked <- struct{}{}
	})

	results, err := controller.FlushSearch(context.Background(), "batman")
	if err != nil {
		t.Fatalf("FlushSearch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	meta.mu.Lock()
	lastQuery := meta.lastQuery
	meta.mu.Unlock()
	if lastQuery != "batman" {
		t.Fatalf("query = %q, want the flushed query", lastQuery)
	}

	select {
	case <-leaked:
		t.Fatalf("pending debounced search fired after flush")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestQueueSearchGateAndDebounce(t *testing.T) {
	meta := batmanMeta()
	meta.results = []domain.MovieSummary{{IMDbID: "tt0372784", Title: "Batman Begins"}}
	controller := newTestController(meta, newMemoryStore())
	defer controller.Close()

	got := make(chan []domain.MovieSummary, 1)
	emit := func(results []domain.MovieSummary, err error) {
		if err != nil {
			t.Errorf("emit err: %v", err)
		}
		got <- results
	}

	// Below the gate: nothing fires.
	controller.QueueSearch(context.Background(), "ba", emit)
	select {
	case <-got:
		t.Fatalf("two-character query must not search")
	case <-time.After(600 * time.Millisecond):
	}

	// A burst coalesces to the final query.
	controller.QueueSearch(context.Background(), "bat", emit)
	controller.QueueSearch(context.Background(), "batm", emit)
	controller.QueueSearch(context.Background(), "batman", emit)

	select {
	case results := <-got:
		if len(results) != 1 {
			t.Fatalf("results = %d, want 1", len(results))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced search never fired")
	}

	meta.mu.Lock()
	lastQuery := meta.lastQuery
	meta.mu.Unlock()
	if lastQuery != "batman" {
		t.Fatalf("query = %q, want only the final burst entry", lastQuery)
	}
	select {
	case <-got:
		t.Fatalf("burst produced more than one search")
	case <-time.After(600 * time.Millisecond):
	}
}
