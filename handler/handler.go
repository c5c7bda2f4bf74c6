package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"tutor-agent/internal/usecase"
)

// User-facing messages. The raw provider or storage error never reaches the
// client: validation failures get a structured message, everything else a
// generic one.
const (
	msgValidation = "session_id y message son obligatorios"
	msgInternal   = "error interno, inténtalo de nuevo"
)

// ChatUseCase is the orchestration boundary both transports call into.
type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

// chatRequest is the inbound JSON contract shared by the HTTP and Lambda
// transports.
type chatRequest struct {
	SessionID   string `json:"session_id"`
	Message     string `json:"message"`
	Persona     string `json:"persona"`
	Description string `json:"description"`
}

type chatResponse struct {
	Reply      string `json:"reply"`
	TokensUsed int    `json:"tokens_used"`
	HistoryLen int    `json:"history_len"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r chatRequest) toInput() usecase.ChatInput {
	return usecase.ChatInput{
		SessionID:   r.SessionID,
		Message:     r.Message,
		Persona:     r.Persona,
		Description: r.Description,
	}
}

// mapError converts a usecase error into an HTTP status and response body.
func mapError(err error) (int, any) {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
		return http.StatusBadRequest, errorResponse{Error: msgValidation}
	}
	return http.StatusInternalServerError, errorResponse{Error: msgInternal}
}

func jsonBody(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{"error":"encoding failure"}`
	}
	return string(b)
}
