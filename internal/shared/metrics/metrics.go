package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins por origem (password, register, google, token) e resultado
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "web_logins_total",
		Help: "tentativas de login por método e resultado",
	}, []string{"method", "result"})

	SessionRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "web_session_refreshes_total",
		Help: "re-validações de perfil por resultado",
	}, []string{"result"})

	// Sessões encerradas por motivo (logout, expired, refresh_failed, stale)
	SessionsCleared = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "web_sessions_cleared_total",
		Help: "sessões removidas por motivo",
	}, []string{"reason"})

	Redirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "web_redirects_total",
		Help: "redirecionamentos do gate de páginas",
	}, []string{"to"})

	OAuthCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "web_oauth_callbacks_total",
		Help: "callbacks OAuth por caminho e resultado",
	}, []string{"path", "result"})

	BetSlipSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "web_betslip_submissions_total",
		Help: "envios de itens do bet slip por modo e resultado",
	}, []string{"mode", "result"})

	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "web_websocket_clients",
		Help: "conexões websocket abertas",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "web_http_requests_total",
		Help: "requisições HTTP",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "web_http_request_duration_seconds",
		Help:    "duração das requisições HTTP",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})
)

// Middleware registra contagem e latência por rota do chi (padrão, não o path cru).
// Requisições sem rota usam o rótulo "unmatched".
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		path := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack mantém o upgrade de websocket funcionando atrás do middleware
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijack")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
