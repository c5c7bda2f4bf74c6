package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tutor-agent/internal/domain"
)

func testInteraction() domain.Interaction {
	return domain.Interaction{
		Timestamp:      time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC),
		SessionID:      "s1",
		Persona:        "profesor",
		UserMessage:    "hola",
		AssistantReply: "¡Hola! Se dice hello.",
		TokensUsed:     33,
	}
}

func TestOpenSQLite_CreatesDirAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat_history.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&count))
	require.Zero(t, count)
}

func TestSQLiteRecord_InsertsRow(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "chat_history.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(context.Background(), testInteraction()))

	var (
		id         int64
		sessionID  string
		persona    string
		userMsg    string
		reply      string
		tokensUsed int
	)
	row := store.db.QueryRow(`SELECT id, session_id, persona, user_message, assistant_reply, tokens_used FROM interactions`)
	require.NoError(t, row.Scan(&id, &sessionID, &persona, &userMsg, &reply, &tokensUsed))
	require.Equal(t, int64(1), id)
	require.Equal(t, "s1", sessionID)
	require.Equal(t, "profesor", persona)
	require.Equal(t, "hola", userMsg)
	require.Equal(t, "¡Hola! Se dice hello.", reply)
	require.Equal(t, 33, tokensUsed)
}

func TestSQLiteRecord_IDsAreMonotonic(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "chat_history.db"))
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(context.Background(), testInteraction()))
	}

	rows, err := store.db.Query(`SELECT id FROM interactions ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var prev int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		require.Greater(t, id, prev)
		prev = id
	}
	require.NoError(t, rows.Err())
	require.Equal(t, int64(3), prev)
}

func TestOpenSQLite_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), testInteraction()))
	require.NoError(t, store.Close())

	// Schema creation is idempotent and existing rows survive.
	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM interactions`).Scan(&count))
	require.Equal(t, 1, count)
}
