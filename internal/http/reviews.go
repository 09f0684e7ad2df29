package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ansh-jadav/Movie-Review-system/internal/domain"
	"github.com/Ansh-jadav/Movie-Review-system/internal/session"
	"github.com/Ansh-jadav/Movie-Review-system/internal/view"
)

func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")
	choice := domain.Thumb(r.URL.Query().Get("choice"))

	detail, err := s.ensureOpen(r.Context(), imdbID)
	if err != nil {
		s.logger.Printf("thumb for %s failed: %v", imdbID, err)
		s.respondNode(w, http.StatusOK, view.DegradedNotice())
		return
	}

	if err := s.controller.SetThumb(imdbID, choice); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s.renderReviewSection(w, imdbID, detail, "")
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("text")

	detail, err := s.ensureOpen(r.Context(), imdbID)
	if err != nil {
		s.logger.Printf("submit review for %s failed: %v", imdbID, err)
		s.respondNode(w, http.StatusOK, view.DegradedNotice())
		return
	}

	_, err = s.controller.SubmitReview(r.Context(), imdbID, text)
	switch {
	case errors.Is(err, session.ErrEmptyReview):
		s.renderReviewSection(w, imdbID, detail, "Write something before posting.")
		return
	case errors.Is(err, session.ErrNoThumb):
		s.renderReviewSection(w, imdbID, detail, "Pick a thumb before posting.")
		return
	case err != nil:
		s.logger.Printf("store review for %s failed: %v", imdbID, err)
		s.renderReviewSection(w, imdbID, detail, "Could not save your review. Try again.")
		return
	}

	s.renderReviewSection(w, imdbID, s.controller.Current(), "")
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")
	reviewID := chi.URLParam(r, "reviewID")

	detail, err := s.ensureOpen(r.Context(), imdbID)
	if err != nil {
		s.logger.Printf("delete review for %s failed: %v", imdbID, err)
		s.respondNode(w, http.StatusOK, view.DegradedNotice())
		return
	}

	if _, _, err := s.controller.DeleteReview(r.Context(), imdbID, reviewID); err != nil {
		s.logger.Printf("delete review %s/%s failed: %v", imdbID, reviewID, err)
		s.renderReviewSection(w, imdbID, detail, "Could not delete the review. Try again.")
		return
	}

	s.renderReviewSection(w, imdbID, s.controller.Current(), "")
}

func (s *Server) handleClearReviews(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.controller.ClearAll(r.Context())
	if err != nil {
		s.logger.Printf("clear reviews failed: %v", err)
		current := s.controller.Current()
		if current == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.renderReviewSection(w, current.Detail.IMDbID, current, "Could not clear reviews. Try again.")
		return
	}
	s.logger.Printf("cleared reviews for %d movies", cleared)

	current := s.controller.Current()
	if current == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.renderReviewSection(w, current.Detail.IMDbID, current, "")
}

func (s *Server) renderReviewSection(w http.ResponseWriter, imdbID string, detail *session.DetailView, prompt string) {
	reviews := []domain.Review{}
	sentiment := 0
	if detail != nil {
		reviews = detail.Reviews
		sentiment = detail.Sentiment
	}
	s.respondNode(w, http.StatusOK, view.ReviewSection(imdbID, reviews, sentiment, s.controller.Thumb(), prompt))
}
