package httpapi

import (
	"errors"
	"net/http"

	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
)

// authView é a resposta de login/registro para o navegador; o token fica no servidor
type authView struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	User    *session.User `json:"user,omitempty"`
}

func writeAuth(w http.ResponseWriter, res dto.AuthResponse) {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, authView{Success: res.Success, Message: res.Message, User: res.User})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	writeAuth(w, s.Sessions.Login(r.Context(), sidFrom(r), req.Email, req.Password))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	writeAuth(w, s.Sessions.Register(r.Context(), sidFrom(r), req))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Logout(r.Context(), sidFrom(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully", "redirect": session.LoginPath})
}

// sessionState devolve o estado atual sem ir ao backend
func (s *Server) sessionState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tracker.Snapshot(r.Context(), sidFrom(r)))
}

func (s *Server) sessionRefresh(w http.ResponseWriter, r *http.Request) {
	sid := sidFrom(r)
	if err := s.Sessions.Refresh(r.Context(), sid); err != nil {
		if r.Context().Err() != nil {
			return
		}
		if !errors.Is(err, session.ErrNotAuthenticated) {
			err = session.ErrAuthExpired
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Tracker.Snapshot(r.Context(), sid))
}
