package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/Ansh-jadav/Movie-Review-system/internal/metadata"
	"github.com/Ansh-jadav/Movie-Review-system/internal/session"
	"github.com/Ansh-jadav/Movie-Review-system/internal/view"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respondNode(w, http.StatusOK, view.Page())
}

// handleResults serves a search. The browser debounces typed input; an
// explicit submit reaches here unconditionally, whatever the query length.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondNode(w, http.StatusOK, view.ResultGrid(nil))
		return
	}

	results, err := s.controller.FlushSearch(r.Context(), query)
	if err != nil {
		s.logger.Printf("search %q failed: %v", query, err)
		s.respondNode(w, http.StatusOK, view.DegradedNotice())
		return
	}
	s.respondNode(w, http.StatusOK, view.ResultGrid(results))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	picks, err := s.controller.RandomSuggestions(r.Context())
	if err != nil {
		s.logger.Printf("suggestions failed: %v", err)
		s.respondNode(w, http.StatusOK, view.DegradedNotice())
		return
	}
	s.respondNode(w, http.StatusOK, view.SuggestionGrid(picks))
}

func (s *Server) handleMovieDetail(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")

	detail, err := s.controller.OpenDetail(r.Context(), imdbID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// A newer selection superseded this one; tell htmx to
			// swap nothing.
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, metadata.ErrNotFound):
			s.respondNode(w, http.StatusOK, notFoundFragment())
		default:
			s.logger.Printf("open detail %s failed: %v", imdbID, err)
			s.respondNode(w, http.StatusOK, view.DegradedNotice())
		}
		return
	}

	s.respondNode(w, http.StatusOK, view.DetailPanel(
		detail.Detail,
		detail.VideoGroups,
		"",
		detail.Reviews,
		detail.Sentiment,
		s.controller.Thumb(),
		"",
	))
}

func (s *Server) handleMovieVideos(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")
	category := r.URL.Query().Get("category")

	detail, err := s.ensureOpen(r.Context(), imdbID)
	if err != nil {
		s.logger.Printf("videos for %s failed: %v", imdbID, err)
		s.respondNode(w, http.StatusOK, view.DegradedNotice())
		return
	}
	s.respondNode(w, http.StatusOK, view.VideoRegion(imdbID, detail.VideoGroups, category))
}

// ensureOpen returns the cached detail view for imdbID, reloading it when the
// open movie does not match, e.g. after a process restart.
func (s *Server) ensureOpen(ctx context.Context, imdbID string) (*session.DetailView, error) {
	if current := s.controller.Current(); current != nil && current.Detail.IMDbID == imdbID {
		return current, nil
	}
	return s.controller.OpenDetail(ctx, imdbID)
}

func notFoundFragment() gomponents.Node {
	return html.P(html.Class("empty-state"), gomponents.Text("Movie not found."))
}
