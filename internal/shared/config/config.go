package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	ctopics "github.com/radieske/sports-bet-web/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução do web-frontend
// Inclui conexões, tópicos, URLs dos serviços de backend, OAuth, sessão e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string
	LogLevel    string

	PostgresDSN   string // vazio desativa a auditoria de apostas
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  string // vazio desativa a publicação de eventos

	// Tópicos
	TopicBetSlipSubmitted string
	TopicSessionEvents    string

	// Serviços de backend (colaboradores HTTP/JSON)
	AuthURL     string
	FixturesURL string
	WalletURL   string
	BetsURL     string
	GatewayURL  string

	// Google OAuth
	GoogleClientID   string
	OAuthRedirectURL string

	AdminEmail string

	// Sessão
	SessionCookieName string
	SessionTTL        time.Duration
	MaxStaleness      time.Duration // 0 = usuário em cache nunca expira por falha transitória
	OAuthStateTTL     time.Duration
	UpstreamTimeout   time.Duration

	// Polling de fixtures/health
	PollInterval     time.Duration
	FixturesCacheTTL time.Duration

	StaticDir string

	// Portas do serviço
	HTTPPort    string // Porta pública (páginas + API JSON)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega o .env (se existir) e as variáveis de ambiente com seus defaults
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("ENV", "local"),
		ServiceName: getEnv("SERVICE_NAME", "web-frontend"),
		LogLevel:    getEnv("LOG_LEVEL", ""),

		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),

		TopicBetSlipSubmitted: getEnv("KAFKA_TOPIC_BET_SLIP_SUBMITTED", ctopics.BetSlipSubmitted),
		TopicSessionEvents:    getEnv("KAFKA_TOPIC_SESSION_EVENTS", ctopics.SessionEvents),

		AuthURL:     getEnv("AUTH_URL", "http://localhost:3001"),
		FixturesURL: getEnv("FIXTURES_URL", "http://localhost:3002"),
		WalletURL:   getEnv("WALLET_URL", "http://localhost:3004"),
		BetsURL:     getEnv("BETS_URL", "http://localhost:3005"),
		GatewayURL:  getEnv("GATEWAY_URL", "http://localhost:8000"),

		GoogleClientID:   getEnv("GOOGLE_CLIENT_ID", ""),
		OAuthRedirectURL: getEnv("OAUTH_REDIRECT_URL", "http://localhost:3000/auth/callback"),

		AdminEmail: getEnv("ADMIN_EMAIL", "admin@admin.com"),

		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "sid"),
		SessionTTL:        getDuration("SESSION_TTL", 7*24*time.Hour),
		MaxStaleness:      getDuration("SESSION_MAX_STALENESS", 24*time.Hour),
		OAuthStateTTL:     getDuration("OAUTH_STATE_TTL", 10*time.Minute),
		UpstreamTimeout:   getDuration("UPSTREAM_TIMEOUT", 5*time.Second),

		PollInterval:     getDuration("POLL_INTERVAL", 30*time.Second),
		FixturesCacheTTL: getDuration("FIXTURES_CACHE_TTL", 15*time.Second),

		StaticDir: getEnv("STATIC_DIR", "./web"),

		HTTPPort:    getEnv("HTTP_PORT", "3000"),
		MetricsPort: getEnv("METRICS_PORT", "9100"),
	}
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// getDuration aceita o formato do time.ParseDuration ("30s", "24h")
func getDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
