package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/web-frontend/fixtures"
)

func (s *Server) fixturesFeed(w http.ResponseWriter, r *http.Request) {
	feed := chi.URLParam(r, "feed")
	if feed != fixtures.FeedLive && feed != fixtures.FeedToday {
		writeFail(w, http.StatusNotFound, "unknown feed")
		return
	}
	raw, err := s.Feed.Get(r.Context(), feed)
	if err != nil {
		s.log.Warn("fixtures feed", zap.String("feed", feed), zap.Error(err))
		writeFail(w, http.StatusBadGateway, "Failed to fetch matches")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) servicesHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fixtures.CheckHealth(r.Context(), s.Health))
}
