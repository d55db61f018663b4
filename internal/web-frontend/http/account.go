package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

// respond escreve o envelope do backend; só erros de sessão viram status != 200
func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// afterBalanceChange revalida a sessão para o saldo exibido acompanhar a operação
func (s *Server) afterBalanceChange(r *http.Request, env dto.Envelope) {
	if !env.Success {
		return
	}
	if err := s.Sessions.Refresh(r.Context(), sidFrom(r)); err != nil {
		s.log.Warn("session refresh after balance change", zap.Error(err))
	}
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	res, err := s.Sessions.GetBalance(r.Context(), sidFrom(r))
	s.respond(w, r, res, err)
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.MoneyRequest
	if err := decode(r, &req); err != nil || req.Amount <= 0 {
		writeFail(w, http.StatusBadRequest, "Please enter a valid amount")
		return
	}
	env, err := s.Sessions.Deposit(r.Context(), sidFrom(r), req.Amount, req.PaymentMethod)
	if err == nil {
		s.afterBalanceChange(r, env)
	}
	s.respond(w, r, env, err)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.MoneyRequest
	if err := decode(r, &req); err != nil || req.Amount <= 0 {
		writeFail(w, http.StatusBadRequest, "Please enter a valid amount")
		return
	}
	env, err := s.Sessions.Withdraw(r.Context(), sidFrom(r), req.Amount, req.PaymentMethod)
	if err == nil {
		s.afterBalanceChange(r, env)
	}
	s.respond(w, r, env, err)
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	env, err := s.Sessions.GetTransactions(r.Context(), sidFrom(r), queryInt(r, "page", 1), queryInt(r, "limit", 20))
	s.respond(w, r, env, err)
}

func (s *Server) myBets(w http.ResponseWriter, r *http.Request) {
	res, err := s.Sessions.GetUserBets(r.Context(), sidFrom(r), queryInt(r, "page", 1), queryInt(r, "limit", 10), r.URL.Query().Get("status"))
	s.respond(w, r, res, err)
}

func (s *Server) betStats(w http.ResponseWriter, r *http.Request) {
	res, err := s.Sessions.GetBettingStats(r.Context(), sidFrom(r))
	s.respond(w, r, res, err)
}

func (s *Server) addFunds(w http.ResponseWriter, r *http.Request) {
	var req dto.AddFundsRequest
	if err := decode(r, &req); err != nil || req.UserID == "" || req.Amount <= 0 {
		writeFail(w, http.StatusBadRequest, "User and a positive amount are required")
		return
	}
	env, err := s.Sessions.AddFundsToUser(r.Context(), sidFrom(r), req.UserID, req.Amount, req.Description)
	if err == nil {
		s.afterBalanceChange(r, env)
	}
	s.respond(w, r, env, err)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	env, err := s.Sessions.GetAllUsers(r.Context(), sidFrom(r), queryInt(r, "page", 1), queryInt(r, "limit", 20), r.URL.Query().Get("search"))
	s.respond(w, r, env, err)
}

// createAdmin provisiona o administrador inicial; não exige sessão
func (s *Server) createAdmin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.CreateAdminUser(r.Context()))
}
