package topics

const (
	// Bet slip
	BetSlipSubmitted = "bet_slip_submitted"

	// Sessão
	SessionEvents = "session_events"
)
