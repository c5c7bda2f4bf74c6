package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// HTTP serves the chat contract over plain HTTP with a CORS allow-list for
// browser frontends.
type HTTP struct {
	uc      ChatUseCase
	origins map[string]struct{}
	timeout time.Duration
}

// NewHTTP creates the HTTP handler. allowedOrigins is the exact-match CORS
// allow-list; timeout bounds each request end to end (0 disables it).
func NewHTTP(uc ChatUseCase, allowedOrigins []string, timeout time.Duration) (*HTTP, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &HTTP{uc: uc, origins: origins, timeout: timeout}, nil
}

// Routes returns the handler's route table.
func (h *HTTP) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/chat", h.cors(http.HandlerFunc(h.handleChat)))
	return mux
}

func (h *HTTP) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := h.origins[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *HTTP) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var cr chatRequest
	if err := json.NewDecoder(r.Body).Decode(&cr); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgValidation})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	out, err := h.uc.Chat(ctx, cr.toInput())
	if err != nil {
		status, body := mapError(err)
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:      out.Reply,
		TokensUsed: out.TokensUsed,
		HistoryLen: out.HistoryLen,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(jsonBody(body)))
}
