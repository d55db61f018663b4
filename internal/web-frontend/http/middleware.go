package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/radieske/sports-bet-web/internal/shared/metrics"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
)

type ctxKey struct{}

// withSession garante um sid por navegador; o cookie só carrega o id, nunca o token
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(s.opts.CookieName); err == nil {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     s.opts.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(s.opts.CookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   s.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sid)))
	})
}

func sidFrom(r *http.Request) string {
	sid, _ := r.Context().Value(ctxKey{}).(string)
	return sid
}

// gate roda a inicialização da sessão e aplica a regra de redirecionamento
// antes de servir qualquer página
func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := s.Tracker.Initialize(r.Context(), sidFrom(r))
		if r.Context().Err() != nil {
			return
		}
		if to, ok := session.Redirect(st, r.URL.Path); ok {
			metrics.Redirects.WithLabelValues(to).Inc()
			http.Redirect(w, r, to, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
