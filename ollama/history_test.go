package ollama

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "chat-history.db")
	h, err := OpenHistory(ctx, path)
	require.NoError(t, err)
	defer h.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, content := range []string{"one", "two", "three"} {
		id, err := h.Append(ctx, Message{Role: RoleUser, Model: "llama3", Content: content, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	msgs, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Content)
	assert.Equal(t, "three", msgs[1].Content)
	assert.True(t, msgs[1].CreatedAt.Equal(base.Add(2*time.Minute)))

	require.NoError(t, h.Clear(ctx))
	msgs, err = h.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestHistory_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chat-history.db")

	h, err := OpenHistory(ctx, path)
	require.NoError(t, err)
	_, err = h.Append(ctx, Message{Role: RoleAssistant, Content: "persisted"})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h, err = OpenHistory(ctx, path)
	require.NoError(t, err)
	defer h.Close()

	msgs, err := h.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "persisted", msgs[0].Content)
	assert.False(t, msgs[0].CreatedAt.IsZero())
}
