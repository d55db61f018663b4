package events

// BetSlipSubmitted registra cada tentativa de envio de um item do bet slip
type BetSlipSubmitted struct {
	SubmissionID string  `json:"submission_id"`
	SessionID    string  `json:"session_id"`
	UserID       string  `json:"user_id"`
	ItemID       string  `json:"item_id"`
	FixtureID    int64   `json:"fixture_id"`
	BetType      string  `json:"bet_type"`
	Selection    string  `json:"selection"`
	Stake        string  `json:"stake"` // decimal em texto, sem arredondamento
	Odds         float64 `json:"odds"`
	Batch        bool    `json:"batch"`
	Success      bool    `json:"success"`
	Message      string  `json:"message,omitempty"`
	TsUnixMs     int64   `json:"ts_unix_ms"`
}
