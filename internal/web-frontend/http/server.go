package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/metrics"
	"github.com/radieske/sports-bet-web/internal/web-frontend/betslip"
	"github.com/radieske/sports-bet-web/internal/web-frontend/fixtures"
	"github.com/radieske/sports-bet-web/internal/web-frontend/notify"
	"github.com/radieske/sports-bet-web/internal/web-frontend/oauth"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
)

// Options são os parâmetros do cookie de sessão e das páginas
type Options struct {
	CookieName   string
	CookieTTL    time.Duration
	SecureCookie bool
	StaticDir    string
}

// Deps agrupa os componentes que o servidor expõe
type Deps struct {
	Sessions  *session.Client
	Tracker   *session.Tracker
	Starter   *oauth.Starter
	Callbacks *oauth.Handler
	Flash     *notify.Flash
	BetSlip   *betslip.Service
	Feed      *fixtures.Feed
	Health    fixtures.HealthSource
	Hub       *fixtures.Hub
}

type Server struct {
	log  *zap.Logger
	opts Options
	Deps
}

// pages são as rotas servidas pelo index.html
var pages = map[string]struct{}{
	"/":               {},
	session.LoginPath: {},
	"/bets":           {},
	"/profile":        {},
	"/live-matches":   {},
	"/api-test":       {},
}

func NewServer(log *zap.Logger, opts Options, deps Deps) *Server {
	return &Server{log: log, opts: opts, Deps: deps}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(s.withSession)

	// páginas: todas passam pela regra de redirecionamento
	r.Group(func(r chi.Router) {
		r.Use(s.gate)
		for p := range pages {
			r.Get(p, s.page)
		}
		r.Get(session.CallbackPath, s.oauthCallback)
	})
	// qualquer outro GET fora de /api e /ws também passa pela regra de redirecionamento
	r.NotFound(s.notFound)
	r.Get("/auth/google", s.googleStart)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)
		r.Post("/auth/logout", s.logout)

		r.Get("/session", s.sessionState)
		r.Post("/session/refresh", s.sessionRefresh)
		r.Get("/flash", s.popFlash)

		r.Route("/betslip", func(r chi.Router) {
			r.Get("/", s.getSlip)
			r.Delete("/", s.clearSlip)
			r.Post("/close", s.closeSlip)
			r.Post("/submit", s.submitAll)
			r.Post("/items", s.addItem)
			r.Delete("/items/{id}", s.removeItem)
			r.Put("/items/{id}/stake", s.setStake)
			r.Post("/items/{id}/submit", s.submitOne)
		})

		r.Get("/wallet/balance", s.balance)
		r.Post("/wallet/deposit", s.deposit)
		r.Post("/wallet/withdraw", s.withdraw)
		r.Get("/wallet/transactions", s.transactions)
		r.Get("/bets/my", s.myBets)
		r.Get("/bets/stats", s.betStats)

		r.Post("/admin/add-funds", s.addFunds)
		r.Get("/admin/users", s.listUsers)
		r.Post("/admin/create", s.createAdmin)

		r.Get("/fixtures/{feed}", s.fixturesFeed)
		r.Get("/health/services", s.servicesHealth)
	})
	r.Get("/ws/fixtures", s.Hub.HandleWS)
	return r
}
