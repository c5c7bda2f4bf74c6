package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tutor-agent/internal/domain"
)

const defaultPersona = "profesor"

// HistoryStore is the live per-session conversation context. Lock serializes
// a full request cycle for one session; Get and Append are safe on their own
// but ordering across requests is only guaranteed under Lock.
type HistoryStore interface {
	Lock(sessionID string) func()
	Get(sessionID string) []domain.Turn
	Append(sessionID string, turns ...domain.Turn) int
}

// Generator produces a reply for an assembled prompt, degrading internally
// on provider failure.
type Generator interface {
	Invoke(ctx context.Context, contents []string) (Outcome, error)
}

// Recorder persists one completed exchange.
type Recorder interface {
	Record(ctx context.Context, in domain.Interaction) error
}

type ChatInput struct {
	SessionID   string
	Message     string
	Persona     string
	Description string
}

type ChatOutput struct {
	Reply      string
	TokensUsed int
	HistoryLen int
}

// ChatService orchestrates one chat exchange: validate, read context,
// assemble the prompt, invoke generation, extend the context, and record the
// exchange when generation really succeeded.
type ChatService struct {
	history  HistoryStore
	generate Generator
	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
}

func NewChatService(history HistoryStore, generate Generator, recorder Recorder, log *slog.Logger) (*ChatService, error) {
	if history == nil {
		return nil, errors.New("usecase: history store must not be nil")
	}
	if generate == nil {
		return nil, errors.New("usecase: generator must not be nil")
	}
	if recorder == nil {
		return nil, errors.New("usecase: recorder must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{
		history:  history,
		generate: generate,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}, nil
}

func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_session_id", nil)
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}
	persona := strings.TrimSpace(in.Persona)
	if persona == "" {
		persona = defaultPersona
	}

	// Hold the session for the whole cycle so appends land in arrival order.
	unlock := s.history.Lock(sessionID)
	defer unlock()

	history := s.history.Get(sessionID)
	contents := BuildPromptContents(persona, in.Description, history, message)

	outcome, err := s.generate.Invoke(ctx, contents)
	if err != nil {
		// Cancelled or timed out: nobody is waiting for a reply, so the
		// session context stays untouched.
		return ChatOutput{}, newError(ErrorInternal, "generation_aborted", err)
	}
	if outcome.Degraded {
		s.log.Warn("generation degraded, returning fallback reply",
			"session_id", sessionID, "err", outcome.Cause)
	}

	// Both turns join the live context even when degraded, so the next
	// exchange sees the apology. The durable log stays success-only.
	historyLen := s.history.Append(sessionID,
		domain.Turn{Role: domain.RoleUser, Content: message},
		domain.Turn{Role: domain.RoleAssistant, Content: outcome.Reply},
	)

	if !outcome.Degraded {
		rec := domain.Interaction{
			Timestamp:      s.now().UTC(),
			SessionID:      sessionID,
			Persona:        persona,
			UserMessage:    message,
			AssistantReply: outcome.Reply,
			TokensUsed:     outcome.Tokens,
		}
		if err := s.recorder.Record(ctx, rec); err != nil {
			// The reply is already computed; persistence failure must not
			// block it.
			s.log.Error("failed to record interaction",
				"session_id", sessionID, "err", err)
		}
	}

	return ChatOutput{
		Reply:      outcome.Reply,
		TokensUsed: outcome.Tokens,
		HistoryLen: historyLen,
	}, nil
}
