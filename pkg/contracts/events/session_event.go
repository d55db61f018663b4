package events

// Tipos de evento do ciclo de vida da sessão
const (
	SessionLogin   = "login"
	SessionLogout  = "logout"
	SessionExpired = "expired"
)

type SessionEvent struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
