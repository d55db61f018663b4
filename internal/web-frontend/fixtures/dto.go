package fixtures

import "encoding/json"

// Feeds aceitos em /ws/fixtures?feed=
const (
	FeedLive   = "live"
	FeedToday  = "today"
	FeedHealth = "health"
)

// ClientMsg é o que a página manda pelo websocket
// Type: ping | refresh
type ClientMsg struct {
	Type string `json:"type"`
}

// ServerMsg leva cada resultado do polling para a página
type ServerMsg struct {
	Type     string          `json:"type"` // update | error | pong
	Feed     string          `json:"feed,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
	TsUnixMs int64           `json:"ts_unix_ms"`
}
