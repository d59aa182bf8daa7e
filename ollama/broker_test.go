package ollama

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/ai-wrapper/common"
)

type echoChatter struct {
	mu    sync.Mutex
	calls int
}

func (e *echoChatter) Chat(_ context.Context, req ChatRequest) ChatResponse {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if req.Message == "fail" {
		return ChatResponse{Error: "boom"}
	}
	return ChatResponse{Response: "echo: " + req.Message}
}

func receive(t *testing.T, b *Broker) Reply {
	t.Helper()
	select {
	case r := <-b.Replies():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no reply")
		return Reply{}
	}
}

func TestBroker_CorrelatesReplies(t *testing.T) {
	b := NewBroker(&echoChatter{}, nil)
	b.Start(context.Background(), 1)
	defer b.Close()

	id, err := b.Submit(ChatRequest{Model: "llama3", Message: "hello"})
	require.NoError(t, err)

	reply := receive(t, b)
	assert.Equal(t, id, reply.ID)
	assert.Equal(t, "llama3", reply.Model)
	assert.Equal(t, "echo: hello", reply.Response)
}

func TestBroker_ErrorReply(t *testing.T) {
	b := NewBroker(&echoChatter{}, nil)
	b.Start(context.Background(), 2)
	defer b.Close()

	id, err := b.Submit(ChatRequest{Message: "fail"})
	require.NoError(t, err)

	reply := receive(t, b)
	assert.Equal(t, id, reply.ID)
	assert.True(t, reply.Failed())
	assert.Equal(t, "boom", reply.Error)
}

func TestBroker_RecordsHistory(t *testing.T) {
	ctx := context.Background()
	h, err := OpenHistory(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer h.Close()

	b := NewBroker(&echoChatter{}, h)
	b.Start(ctx, 1)

	_, err = b.Submit(ChatRequest{Model: "llama3", Message: "hi"})
	require.NoError(t, err)
	receive(t, b)
	_, err = b.Submit(ChatRequest{Model: "llama3", Message: "fail"})
	require.NoError(t, err)
	receive(t, b)
	b.Close()

	msgs, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, []string{RoleUser, RoleAssistant, RoleUser, RoleError},
		[]string{msgs[0].Role, msgs[1].Role, msgs[2].Role, msgs[3].Role})
	assert.Equal(t, "echo: hi", msgs[1].Content)
}

func TestBroker_SubmitAfterClose(t *testing.T) {
	b := NewBroker(&echoChatter{}, nil)
	b.Start(context.Background(), 1)
	b.Close()
	b.Close()

	_, err := b.Submit(ChatRequest{Message: "late"})
	assert.True(t, errors.Is(err, common.ErrBrokerClosed))

	_, open := <-b.Replies()
	assert.False(t, open)
}
