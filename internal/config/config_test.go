package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8000", cfg.HTTPAddr)
	require.Equal(t, []string{"http://localhost", "http://localhost:5173", "http://127.0.0.1:5173"}, cfg.AllowedOrigins)
	require.Equal(t, "data/chat_history.db", cfg.SQLitePath)
	require.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	require.Equal(t, 3, cfg.GenerateMaxAttempts)
	require.Equal(t, 2*time.Second, cfg.GenerateRetryDelay)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 200, cfg.SessionMaxTurns)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("GENERATE_MAX_ATTEMPTS", "5")
	t.Setenv("GENERATE_RETRY_DELAY", "500ms")
	t.Setenv("SESSION_MAX_TURNS", "0")
	t.Setenv("RECORDS_TABLE", "records")
	t.Setenv("PARAM_PREFIX", "/tutor-agent")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9999", cfg.HTTPAddr)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	require.Equal(t, 5, cfg.GenerateMaxAttempts)
	require.Equal(t, 500*time.Millisecond, cfg.GenerateRetryDelay)
	require.Zero(t, cfg.SessionMaxTurns)
	require.Equal(t, "records", cfg.RecordsTable)
	require.Equal(t, "/tutor-agent", cfg.ParamPrefix)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("GENERATE_RETRY_DELAY", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}
