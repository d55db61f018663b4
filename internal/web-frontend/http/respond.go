package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/web-frontend/betslip"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
)

type failure struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, failure{Message: msg})
}

// statusFor traduz os erros de domínio para status HTTP e corpo de falha
func statusFor(err error) (int, failure) {
	switch {
	case errors.Is(err, session.ErrAuthExpired):
		return http.StatusUnauthorized, failure{Message: session.MsgAuthExpired, Redirect: session.LoginPath}
	case errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized, failure{Message: "Not authenticated", Redirect: session.LoginPath}
	case errors.Is(err, session.ErrForbidden):
		return http.StatusForbidden, failure{Message: "Admin access required"}
	case errors.Is(err, betslip.ErrItemNotFound):
		return http.StatusNotFound, failure{Message: betslip.Message(err)}
	case errors.Is(err, betslip.ErrInvalidStake),
		errors.Is(err, betslip.ErrInvalidStakes),
		errors.Is(err, betslip.ErrInvalidSelection),
		errors.Is(err, betslip.ErrEmptyCart):
		return http.StatusBadRequest, failure{Message: betslip.Message(err)}
	}
	return http.StatusInternalServerError, failure{Message: "Internal server error"}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
