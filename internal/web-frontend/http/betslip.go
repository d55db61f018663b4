package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/sports-bet-web/internal/web-frontend/betslip"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
)

func (s *Server) writeSlip(w http.ResponseWriter, r *http.Request, c *betslip.Cart, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

func (s *Server) getSlip(w http.ResponseWriter, r *http.Request) {
	c, err := s.BetSlip.Get(r.Context(), sidFrom(r))
	s.writeSlip(w, r, c, err)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var sel betslip.Selection
	if err := decode(r, &sel); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, err := s.BetSlip.Add(r.Context(), sidFrom(r), sel)
	s.writeSlip(w, r, c, err)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	c, err := s.BetSlip.Remove(r.Context(), sidFrom(r), chi.URLParam(r, "id"))
	s.writeSlip(w, r, c, err)
}

func (s *Server) setStake(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Stake string `json:"stake"`
	}
	if err := decode(r, &body); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, err := s.BetSlip.SetStake(r.Context(), sidFrom(r), chi.URLParam(r, "id"), body.Stake)
	s.writeSlip(w, r, c, err)
}

func (s *Server) clearSlip(w http.ResponseWriter, r *http.Request) {
	c, err := s.BetSlip.ClearAll(r.Context(), sidFrom(r))
	s.writeSlip(w, r, c, err)
}

func (s *Server) closeSlip(w http.ResponseWriter, r *http.Request) {
	c, err := s.BetSlip.Close(r.Context(), sidFrom(r))
	s.writeSlip(w, r, c, err)
}

func (s *Server) submitOne(w http.ResponseWriter, r *http.Request) {
	res, err := s.BetSlip.SubmitOne(r.Context(), sidFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		status, body := statusFor(err)
		if errors.Is(err, session.ErrNotAuthenticated) {
			body.Message = betslip.Message(err)
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type batchView struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	betslip.BatchReport
}

// submitAll devolve o relatório mesmo quando a sessão expira no meio do lote
func (s *Server) submitAll(w http.ResponseWriter, r *http.Request) {
	report, err := s.BetSlip.SubmitAll(r.Context(), sidFrom(r))
	if err != nil {
		status, body := statusFor(err)
		if status == http.StatusInternalServerError {
			s.fail(w, r, err)
			return
		}
		if errors.Is(err, session.ErrNotAuthenticated) {
			body.Message = betslip.Message(err)
		}
		writeJSON(w, status, batchView{Message: body.Message, Redirect: body.Redirect, BatchReport: report})
		return
	}
	writeJSON(w, http.StatusOK, batchView{Success: report.Failed == 0, BatchReport: report})
}
