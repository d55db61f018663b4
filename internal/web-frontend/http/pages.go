package httpapi

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/metrics"
	"github.com/radieske/sports-bet-web/internal/web-frontend/notify"
	"github.com/radieske/sports-bet-web/internal/web-frontend/oauth"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
)

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, filepath.Join(s.opts.StaticDir, "index.html"))
}

// notFound: caminhos de página desconhecidos (ou com barra final) passam pelo gate
// antes do 404; API e websocket respondem 404 direto
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if r.Method != http.MethodGet || p == "/api" || strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/ws/") {
		writeFail(w, http.StatusNotFound, "not found")
		return
	}
	s.gate(http.HandlerFunc(s.unknownPage)).ServeHTTP(w, r)
}

func (s *Server) unknownPage(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimRight(r.URL.Path, "/")
	if p == "" {
		p = "/"
	}
	if _, ok := pages[p]; ok {
		s.page(w, r)
		return
	}
	http.NotFound(w, r)
}

// googleStart redireciona para o consentimento do Google com um state novo
func (s *Server) googleStart(w http.ResponseWriter, r *http.Request) {
	sid := sidFrom(r)
	u, err := s.Starter.AuthURL(r.Context(), sid)
	if err != nil {
		msg := oauth.MsgAuthFailed
		if errors.Is(err, oauth.ErrNotConfigured) {
			msg = oauth.MsgNotConfigured
		} else {
			s.log.Error("oauth start", zap.Error(err))
		}
		s.flash(r, notify.Error, msg)
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

// oauthCallback roda a máquina de estados do callback e leva o navegador ao destino final
func (s *Server) oauthCallback(w http.ResponseWriter, r *http.Request) {
	sid := sidFrom(r)
	out, err := s.Callbacks.New(sid, oauth.ParamsFrom(r.URL.Query())).Run(r.Context())
	if err != nil || out.Stale {
		return
	}
	lvl := notify.Error
	if out.Success {
		lvl = notify.Success
	}
	s.flash(r, lvl, out.Message)
	metrics.Redirects.WithLabelValues(out.Redirect).Inc()
	http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
}

func (s *Server) flash(r *http.Request, lvl notify.Level, text string) {
	if err := s.Flash.Push(r.Context(), sidFrom(r), lvl, text); err != nil {
		s.log.Warn("push flash", zap.Error(err))
	}
}

func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.Flash.Pop(r.Context(), sidFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []notify.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "messages": msgs})
}
