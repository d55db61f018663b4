package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
)

// Endpoints são as URLs base dos serviços de backend
type Endpoints struct {
	Auth     string
	Wallet   string
	Bets     string
	Gateway  string
	Fixtures string
}

// Client fala HTTP/JSON com os serviços de backend.
// Não guarda estado de sessão: o token vem do chamador a cada requisição.
type Client struct {
	URLs Endpoints
	HTTP *http.Client
}

func New(ep Endpoints, timeout time.Duration) *Client {
	return &Client{
		URLs: ep,
		HTTP: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := c.do(ctx, "auth login", http.MethodPost, c.URLs.Auth+"/auth/login", "", req, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := c.do(ctx, "auth register", http.MethodPost, c.URLs.Auth+"/auth/register", "", req, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context, token string) (dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	err := c.do(ctx, "auth profile", http.MethodGet, c.URLs.Auth+"/auth/profile", token, nil, &out)
	return out, err
}

// GoogleCallback troca o código de autorização por um token no serviço de autenticação
func (c *Client) GoogleCallback(ctx context.Context, req dto.GoogleCallbackRequest) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := c.do(ctx, "auth google callback", http.MethodPost, c.URLs.Auth+"/auth/google/callback", "", req, &out)
	return out, err
}

func (c *Client) Deposit(ctx context.Context, token string, req dto.MoneyRequest) (dto.Envelope, error) {
	var out dto.Envelope
	err := c.do(ctx, "auth deposit", http.MethodPost, c.URLs.Auth+"/auth/deposit", token, req, &out)
	return out, err
}

func (c *Client) PlaceBet(ctx context.Context, token string, req dto.PlaceBetRequest) (dto.Envelope, error) {
	var out dto.Envelope
	err := c.do(ctx, "auth place bet", http.MethodPost, c.URLs.Auth+"/auth/place-bet", token, req, &out)
	return out, err
}

func (c *Client) Withdraw(ctx context.Context, token string, req dto.MoneyRequest) (dto.Envelope, error) {
	var out dto.Envelope
	err := c.do(ctx, "wallet withdraw", http.MethodPost, c.URLs.Wallet+"/api/wallet/withdraw", token, req, &out)
	return out, err
}

func (c *Client) Transactions(ctx context.Context, token string, page, limit int) (dto.Envelope, error) {
	q := pageQuery(page, limit)
	var out dto.Envelope
	err := c.do(ctx, "wallet transactions", http.MethodGet, c.URLs.Wallet+"/api/wallet/transactions?"+q.Encode(), token, nil, &out)
	return out, err
}

func (c *Client) UserBets(ctx context.Context, token string, page, limit int, status string) (dto.BetsPage, error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	var out dto.BetsPage
	err := c.do(ctx, "bets my", http.MethodGet, c.URLs.Bets+"/api/bets/my?"+q.Encode(), token, nil, &out)
	return out, err
}

func (c *Client) BettingStats(ctx context.Context, token string) (dto.StatsResponse, error) {
	var out dto.StatsResponse
	err := c.do(ctx, "bets stats", http.MethodGet, c.URLs.Bets+"/api/bets/stats/summary", token, nil, &out)
	return out, err
}

func (c *Client) AddFunds(ctx context.Context, token string, req dto.AddFundsRequest) (dto.Envelope, error) {
	var out dto.Envelope
	err := c.do(ctx, "admin add funds", http.MethodPost, c.URLs.Gateway+"/api/wallet/admin/add-funds", token, req, &out)
	return out, err
}

func (c *Client) Users(ctx context.Context, token string, page, limit int, search string) (dto.Envelope, error) {
	q := pageQuery(page, limit)
	if search != "" {
		q.Set("search", search)
	}
	var out dto.Envelope
	err := c.do(ctx, "admin users", http.MethodGet, c.URLs.Gateway+"/api/admin/users?"+q.Encode(), token, nil, &out)
	return out, err
}

// CreateAdmin provisiona o usuário administrador; o gateway não exige token
func (c *Client) CreateAdmin(ctx context.Context) (dto.Envelope, error) {
	var out dto.Envelope
	err := c.do(ctx, "admin create", http.MethodPost, c.URLs.Gateway+"/api/admin/create", "", nil, &out)
	return out, err
}

// GatewayHealth devolve nil só para 2xx em /health
func (c *Client) GatewayHealth(ctx context.Context) error {
	_, err := c.getRaw(ctx, "gateway health", c.URLs.Gateway+"/health")
	return err
}

func (c *Client) ServicesHealth(ctx context.Context) (dto.ServicesHealth, error) {
	var out dto.ServicesHealth
	raw, err := c.getRaw(ctx, "gateway services health", c.URLs.Gateway+"/health/services")
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("gateway services health: decode: %w", err)
	}
	return out, nil
}

// Fixture feeds expostos pelo serviço de partidas
const (
	FeedLive  = "live"
	FeedToday = "today"
)

var feedPaths = map[string]string{
	FeedLive:  "/fixtures/live-now",
	FeedToday: "/fixtures/today",
}

// Fixtures repassa o JSON do feed sem interpretar; odds já vêm calculadas
func (c *Client) Fixtures(ctx context.Context, feed string) (json.RawMessage, error) {
	p, ok := feedPaths[feed]
	if !ok {
		return nil, fmt.Errorf("fixtures: unknown feed %q", feed)
	}
	return c.getRaw(ctx, "fixtures "+feed, c.URLs.Fixtures+p)
}

func pageQuery(page, limit int) url.Values {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// do envia a requisição e decodifica a resposta em out.
// 401 com token vira ErrUnauthorized e 5xx vira StatusError. Respostas 4xx com JSON são
// decodificadas normalmente para que o chamador leia success/message.
func (c *Client) do(ctx context.Context, op, method, u, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized && token != "":
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case res.StatusCode >= 500:
		return &StatusError{Op: op, Code: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if res.StatusCode >= 300 {
			return &StatusError{Op: op, Code: res.StatusCode}
		}
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

func (c *Client) getRaw(ctx context.Context, op, u string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return nil, &StatusError{Op: op, Code: res.StatusCode}
	}
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if len(b) > 0 && !json.Valid(b) {
		return nil, fmt.Errorf("%s: invalid json", op)
	}
	return b, nil
}
