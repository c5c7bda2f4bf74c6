package domain

import "time"

// Interaction is one durable, append-only record of a successful exchange.
// It is written only when the provider returned a real reply; degraded
// fallback replies never reach the durable log. Distinct from the live
// session context, which also holds failed exchanges.
type Interaction struct {
	ID             int64
	Timestamp      time.Time
	SessionID      string
	Persona        string
	UserMessage    string
	AssistantReply string
	TokensUsed     int
}
