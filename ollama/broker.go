package ollama

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yllada/ai-wrapper/common"
)

// Chatter answers chat requests. *Client implements it.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) ChatResponse
}

// Request is a queued chat request.
type Request struct {
	ID uuid.UUID
	ChatRequest
}

// Reply is the answer to the Request with the same ID.
type Reply struct {
	ID    uuid.UUID
	Model string
	ChatResponse
}

// Broker runs chat requests off the UI thread. Requests go in through
// Submit; replies come out of Replies in completion order.
type Broker struct {
	chat    Chatter
	history *History

	requests chan Request
	replies  chan Reply

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    common.Logger
}

// NewBroker returns a broker over chat. history may be nil.
func NewBroker(chat Chatter, history *History) *Broker {
	return &Broker{
		chat:     chat,
		history:  history,
		requests: make(chan Request, 16),
		replies:  make(chan Reply, 16),
		log:      common.GetLogger().Named("chat"),
	}
}

// Start launches workers goroutines. Each handles one request at a time.
func (b *Broker) Start(ctx context.Context, workers int) {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	for n := max(workers, 1); n > 0; n-- {
		b.wg.Add(1)
		go b.work(ctx)
	}
}

func (b *Broker) work(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-b.requests:
			resp := b.chat.Chat(ctx, req.ChatRequest)
			b.record(ctx, req, resp)
			select {
			case b.replies <- Reply{ID: req.ID, Model: req.Model, ChatResponse: resp}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (b *Broker) record(ctx context.Context, req Request, resp ChatResponse) {
	if b.history == nil {
		return
	}
	entries := []Message{{Role: RoleUser, Model: req.Model, Content: req.Message}}
	if resp.Failed() {
		entries = append(entries, Message{Role: RoleError, Model: req.Model, Content: resp.Error})
	} else {
		entries = append(entries, Message{Role: RoleAssistant, Model: req.Model, Content: resp.Response})
	}
	for _, m := range entries {
		if _, err := b.history.Append(ctx, m); err != nil {
			b.log.Warn("Failed to save chat history: %v", err)
			return
		}
	}
}

// Submit queues req and returns the id its reply will carry.
func (b *Broker) Submit(req ChatRequest) (uuid.UUID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return uuid.Nil, common.ErrBrokerClosed
	}

	id := uuid.New()
	select {
	case b.requests <- Request{ID: id, ChatRequest: req}:
		b.log.Debug("queued %s for %s", id, req.Model)
		return id, nil
	default:
		return uuid.Nil, common.WrapError(common.ErrOllamaRequest, "too many pending requests")
	}
}

// Replies delivers answers. It is closed by Close.
func (b *Broker) Replies() <-chan Reply {
	return b.replies
}

// Close cancels in-flight requests, stops the workers and closes Replies.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	cancel := b.cancel
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.wg.Wait()
	close(b.replies)
}
