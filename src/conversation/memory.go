package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"
)

// History holds the ordered conversation messages for one session.
type History struct {
	Messages []*schema.Message `json:"messages"`
}

// Store persists conversation history per session. Implementations: in-process
// MemoryStore and RedisStore.
type Store interface {
	Load(ctx context.Context, sessionID string) (*History, error)
	Save(ctx context.Context, sessionID string, history *History) error
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error
	Reset(ctx context.Context, sessionID string) error
}

// MemoryStore keeps histories in process memory. Suitable for single-process
// sessions and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	histories map[string]*History
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{histories: make(map[string]*History)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[sessionID]
	if !ok {
		return &History{Messages: []*schema.Message{}}, nil
	}

	copied := &History{Messages: make([]*schema.Message, len(history.Messages))}
	copy(copied.Messages, history.Messages)
	return copied, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, history *History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[sessionID] = history
	return nil
}

func (s *MemoryStore) AddMessage(_ context.Context, sessionID string, message *schema.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.histories[sessionID]
	if !ok {
		history = &History{Messages: []*schema.Message{}}
		s.histories[sessionID] = history
	}
	history.Messages = append(history.Messages, message)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, sessionID)
	return nil
}

// Memory is the session-scoped conversation memory handle shared by the model
// gateway. Append-only within a turn sequence; Reset only on a new session.
type Memory struct {
	store     Store
	sessionID string
	maxTurns  int
}

// NewMemory binds a store to one session with a bounded context window of
// maxTurns messages.
func NewMemory(store Store, sessionID string, maxTurns int) *Memory {
	return &Memory{store: store, sessionID: sessionID, maxTurns: maxTurns}
}

func (m *Memory) SessionID() string {
	return m.sessionID
}

// AppendExchange records one prompt/response pair.
func (m *Memory) AppendExchange(ctx context.Context, input, output string) error {
	if err := m.store.AddMessage(ctx, m.sessionID, schema.UserMessage(input)); err != nil {
		return err
	}
	return m.store.AddMessage(ctx, m.sessionID, schema.AssistantMessage(output, nil))
}

// Recent returns the last maxTurns messages.
func (m *Memory) Recent(ctx context.Context) ([]*schema.Message, error) {
	history, err := m.store.Load(ctx, m.sessionID)
	if err != nil {
		return nil, err
	}
	return trimTail(history.Messages, m.maxTurns), nil
}

// BuildContext renders the bounded recent history as the tagged block the
// prompts consume.
func (m *Memory) BuildContext(ctx context.Context) (string, error) {
	messages, err := m.Recent(ctx)
	if err != nil {
		return "", err
	}

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range messages {
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String(), nil
}

func (m *Memory) Reset(ctx context.Context) error {
	return m.store.Reset(ctx, m.sessionID)
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
