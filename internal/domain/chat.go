package domain

// Turn roles. The role string is folded verbatim into the prompt replayed to
// the provider, so these values are part of the prompt format.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message within a session's live conversation context.
// Immutable once appended; append order is the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generation is the provider-agnostic result of one generation call.
type Generation struct {
	Text   string
	Tokens int
}
