package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/web-frontend/backend"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

// callAuthed anexa o token da sessão e aplica a política de falhas:
// 401 apaga a sessão e vira ErrAuthExpired; qualquer outra falha devolve fail.
func callAuthed[T any](ctx context.Context, c *Client, sid, op string, fail T, call func(token string) (T, error)) (T, error) {
	sess, err := c.load(ctx, sid)
	if err != nil {
		return fail, err
	}
	if !sess.Authenticated() {
		return fail, ErrNotAuthenticated
	}

	out, err := call(sess.Token)
	if errors.Is(err, backend.ErrUnauthorized) {
		c.log.Info("backend rejected token", zap.String("op", op), zap.String("sid", sid))
		if cerr := c.clear(context.WithoutCancel(ctx), sid, ReasonExpired); cerr != nil {
			c.log.Error("clear expired session", zap.String("sid", sid), zap.Error(cerr))
		}
		return fail, ErrAuthExpired
	}
	if err != nil {
		c.log.Warn("backend call failed", zap.String("op", op), zap.Error(err))
		return fail, nil
	}
	return out, nil
}

// callAdmin exige, além da sessão, que o usuário seja o administrador
func callAdmin[T any](ctx context.Context, c *Client, sid, op string, fail T, call func(token string) (T, error)) (T, error) {
	sess, err := c.load(ctx, sid)
	if err != nil {
		return fail, err
	}
	if sess.Authenticated() && !c.IsAdmin(sess.User) {
		return fail, ErrForbidden
	}
	return callAuthed(ctx, c, sid, op, fail, call)
}

func (c *Client) PlaceBet(ctx context.Context, sid string, req dto.PlaceBetRequest) (dto.Envelope, error) {
	return callAuthed(ctx, c, sid, "place bet", dto.Failure("Failed to place bet"), func(token string) (dto.Envelope, error) {
		return c.api.PlaceBet(ctx, token, req)
	})
}

// GetBalance lê o saldo do perfil atual
func (c *Client) GetBalance(ctx context.Context, sid string) (dto.BalanceResponse, error) {
	fail := dto.BalanceResponse{Message: "Failed to fetch balance"}
	return callAuthed(ctx, c, sid, "get balance", fail, func(token string) (dto.BalanceResponse, error) {
		res, err := c.api.Profile(ctx, token)
		if err != nil {
			return fail, err
		}
		if !res.Success || res.User == nil {
			return fail, nil
		}
		bal := res.User.Balance
		return dto.BalanceResponse{Success: true, Balance: &bal}, nil
	})
}

func (c *Client) Deposit(ctx context.Context, sid string, amount float64, paymentMethod string) (dto.Envelope, error) {
	if paymentMethod == "" {
		paymentMethod = "credit_card"
	}
	return callAuthed(ctx, c, sid, "deposit", dto.Failure("Failed to process deposit"), func(token string) (dto.Envelope, error) {
		return c.api.Deposit(ctx, token, dto.MoneyRequest{Amount: amount, PaymentMethod: paymentMethod})
	})
}

func (c *Client) Withdraw(ctx context.Context, sid string, amount float64, paymentMethod string) (dto.Envelope, error) {
	if paymentMethod == "" {
		paymentMethod = "bank_transfer"
	}
	return callAuthed(ctx, c, sid, "withdraw", dto.Failure("Failed to process withdrawal"), func(token string) (dto.Envelope, error) {
		return c.api.Withdraw(ctx, token, dto.MoneyRequest{Amount: amount, PaymentMethod: paymentMethod})
	})
}

func (c *Client) GetTransactions(ctx context.Context, sid string, page, limit int) (dto.Envelope, error) {
	return callAuthed(ctx, c, sid, "transactions", dto.Failure("Failed to fetch transactions"), func(token string) (dto.Envelope, error) {
		return c.api.Transactions(ctx, token, page, limit)
	})
}

func (c *Client) GetUserBets(ctx context.Context, sid string, page, limit int, status string) (dto.BetsPage, error) {
	fail := dto.BetsPage{Message: "Failed to fetch bets"}
	return callAuthed(ctx, c, sid, "user bets", fail, func(token string) (dto.BetsPage, error) {
		return c.api.UserBets(ctx, token, page, limit, status)
	})
}

func (c *Client) GetBettingStats(ctx context.Context, sid string) (dto.StatsResponse, error) {
	fail := dto.StatsResponse{Message: "Failed to fetch betting stats"}
	return callAuthed(ctx, c, sid, "betting stats", fail, func(token string) (dto.StatsResponse, error) {
		return c.api.BettingStats(ctx, token)
	})
}

func (c *Client) AddFundsToUser(ctx context.Context, sid, userID string, amount float64, description string) (dto.Envelope, error) {
	req := dto.AddFundsRequest{UserID: userID, Amount: amount, Description: description}
	return callAdmin(ctx, c, sid, "add funds", dto.Failure("Failed to add funds"), func(token string) (dto.Envelope, error) {
		return c.api.AddFunds(ctx, token, req)
	})
}

func (c *Client) GetAllUsers(ctx context.Context, sid string, page, limit int, search string) (dto.Envelope, error) {
	return callAdmin(ctx, c, sid, "list users", dto.Failure("Failed to fetch users"), func(token string) (dto.Envelope, error) {
		return c.api.Users(ctx, token, page, limit, search)
	})
}

// CreateAdminUser provisiona o administrador; não usa sessão
func (c *Client) CreateAdminUser(ctx context.Context) dto.Envelope {
	res, err := c.api.CreateAdmin(ctx)
	if err != nil {
		c.log.Warn("create admin failed", zap.Error(err))
		return dto.Failure("Failed to create admin user")
	}
	return res
}
