package brainstorm

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/wanchen/pixelforge/backend/internal/gateway"
	"github.com/wanchen/pixelforge/backend/internal/model/chat"
	"github.com/wanchen/pixelforge/backend/internal/storage"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a brainstorm request is already in flight")
)

// contextWindowSize bounds the history replayed to the AI backend; older
// turns are silently dropped.
const contextWindowSize = 10

// connectFailure 网关失败时拼在对话里的提示。
const connectFailure = "无法连接到设计大脑。请检查网络环境或重试。"

// Notifier receives workspace events. May be nil.
type Notifier interface {
	Publish(event string, payload any)
}

// Service owns the ordered brainstorming log. At most one generation
// request is in flight at a time; a second Send is rejected, not queued.
type Service struct {
	store    *storage.Store
	gw       gateway.Gateway
	notifier Notifier

	mu       sync.Mutex
	busy     bool
	messages []chat.Message
}

// NewService loads the persisted log, falling back to the seed greeting.
func NewService(store *storage.Store, gw gateway.Gateway, notifier Notifier) *Service {
	s := &Service{store: store, gw: gw, notifier: notifier}

	var saved []chat.Message
	if store.Load(storage.KeyMessages, &saved) && len(saved) > 0 {
		s.messages = saved
	} else {
		s.messages = chat.Seed()
		store.Save(storage.KeyMessages, s.messages)
	}
	return s
}

// Messages returns a copy of the full log, oldest first.
func (s *Service) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.messages...)
}

// Send appends the user turn, forwards the bounded context window to the
// gateway and appends the reply. Gateway failures stay in the log as a
// marked assistant turn so the session remains usable.
func (s *Service) Send(ctx context.Context, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return chat.Message{}, ErrBusy
	}
	s.busy = true
	userMsg := chat.Message{Role: chat.RoleUser, Content: text}
	s.messages = append(s.messages, userMsg)
	window := contextWindow(s.messages)
	s.persistLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	s.publish("message", userMsg)

	reply := chat.Message{Role: chat.RoleAssistant}
	content, err := s.gw.Converse(ctx, window)
	if err != nil {
		log.Printf("[brainstorm] converse failed: %v", err)
		reply.Content = "❌ " + connectFailure
	} else {
		reply.Content = content
	}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.persistLocked()
	s.mu.Unlock()

	s.publish("message", reply)
	return reply, nil
}

// Reset replaces the log with the one-element reset greeting.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []chat.Message{{Role: chat.RoleAssistant, Content: chat.ResetGreeting}}
	s.persistLocked()
}

// contextWindow keeps the most recent turns in conversation order,
// including the just-appended user message.
func contextWindow(messages []chat.Message) []gateway.Turn {
	start := 0
	if len(messages) > contextWindowSize {
		start = len(messages) - contextWindowSize
	}
	window := make([]gateway.Turn, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		window = append(window, gateway.Turn{Role: msg.Role, Content: msg.Content})
	}
	return window
}

func (s *Service) persistLocked() {
	s.store.Save(storage.KeyMessages, s.messages)
}

func (s *Service) publish(event string, payload any) {
	if s.notifier != nil {
		s.notifier.Publish(event, payload)
	}
}
