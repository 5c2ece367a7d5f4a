package brainstorm_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/wanchen/pixelforge/backend/internal/gateway"
	"github.com/wanchen/pixelforge/backend/internal/model/chat"
	brainstorm "github.com/wanchen/pixelforge/backend/internal/service/brainstorm"
	"github.com/wanchen/pixelforge/backend/internal/storage"
)

type fakeGateway struct {
	mu      sync.Mutex
	windows [][]gateway.Turn
	reply   string
	err     error

	// when set, Converse signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeGateway) Converse(_ context.Context, turns []gateway.Turn) (string, error) {
	f.mu.Lock()
	f.windows = append(f.windows, append([]gateway.Turn(nil), turns...))
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeGateway) SynthesizeImage(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeGateway) SynthesizeConcept(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeGateway) lastWindow() []gateway.Turn {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.windows) == 0 {
		return nil
	}
	return f.windows[len(f.windows)-1]
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	return store
}

func TestNewServiceSeedsGreeting(t *testing.T) {
	svc := brainstorm.NewService(newStore(t), &fakeGateway{}, nil)

	messages := svc.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected single seed message, got %d", len(messages))
	}
	if messages[0].Role != chat.RoleAssistant || messages[0].Content != chat.SeedGreeting {
		t.Fatalf("unexpected seed: %+v", messages[0])
	}
}

func TestSendAppendsUserAndReplyAndPersists(t *testing.T) {
	store := newStore(t)
	svc := brainstorm.NewService(store, &fakeGateway{reply: "hi there"}, nil)

	reply, err := svc.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send err: %v", err)
	}
	if reply.Role != chat.RoleAssistant || reply.Content != "hi there" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	messages := svc.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[1].Role != chat.RoleUser || messages[1].Content != "hello" {
		t.Fatalf("unexpected user turn: %+v", messages[1])
	}

	// A fresh service over the same store reproduces the log.
	reloaded := brainstorm.NewService(store, &fakeGateway{}, nil)
	again := reloaded.Messages()
	if len(again) != 3 {
		t.Fatalf("reload: expected 3 messages, got %d", len(again))
	}
	for i := range messages {
		if again[i] != messages[i] {
			t.Fatalf("reload mismatch at %d: got %+v want %+v", i, again[i], messages[i])
		}
	}
}

func TestSendEmptyIsNoOp(t *testing.T) {
	svc := brainstorm.NewService(newStore(t), &fakeGateway{reply: "x"}, nil)

	if _, err := svc.Send(context.Background(), "   "); err != brainstorm.ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(svc.Messages()) != 1 {
		t.Fatal("log must stay untouched on empty input")
	}
}

func TestSendRejectedWhileBusy(t *testing.T) {
	gw := &fakeGateway{
		reply:   "slow reply",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := brainstorm.NewService(newStore(t), gw, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := svc.Send(context.Background(), "first"); err != nil {
			t.Errorf("first Send err: %v", err)
		}
	}()

	<-gw.entered
	if _, err := svc.Send(context.Background(), "second"); err != brainstorm.ErrBusy {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(gw.release)
	<-done

	// seed + first user turn + reply, nothing from the rejected send.
	if got := len(svc.Messages()); got != 3 {
		t.Fatalf("expected 3 messages, got %d", got)
	}
}

func TestContextWindowBound(t *testing.T) {
	store := newStore(t)

	history := chat.Seed()
	for i := 0; i < 7; i++ {
		history = append(history,
			chat.Message{Role: chat.RoleUser, Content: "q" + strings.Repeat("x", i)},
			chat.Message{Role: chat.RoleAssistant, Content: "a" + strings.Repeat("x", i)},
		)
	}
	store.Save(storage.KeyMessages, history)

	gw := &fakeGateway{reply: "ok"}
	svc := brainstorm.NewService(store, gw, nil)

	if _, err := svc.Send(context.Background(), "newest question"); err != nil {
		t.Fatalf("Send err: %v", err)
	}

	window := gw.lastWindow()
	if len(window) != 10 {
		t.Fatalf("window length: got %d want 10", len(window))
	}
	if last := window[len(window)-1]; last.Role != chat.RoleUser || last.Content != "newest question" {
		t.Fatalf("window must end with the pending user turn, got %+v", last)
	}

	// The window equals the last 10 turns of the log in original order.
	full := append(history, chat.Message{Role: chat.RoleUser, Content: "newest question"})
	tail := full[len(full)-10:]
	for i, turn := range window {
		if turn.Role != tail[i].Role || turn.Content != tail[i].Content {
			t.Fatalf("window[%d] mismatch: got %+v want %+v", i, turn, tail[i])
		}
	}
}

func TestSendFailureSurfacedAsMarkedTurn(t *testing.T) {
	gw := &fakeGateway{err: &gateway.Failure{Op: "converse", Err: context.DeadlineExceeded}}
	svc := brainstorm.NewService(newStore(t), gw, nil)

	reply, err := svc.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("failures must stay in the log, got err %v", err)
	}
	if reply.Role != chat.RoleAssistant || !strings.HasPrefix(reply.Content, "❌ ") {
		t.Fatalf("expected marked assistant turn, got %+v", reply)
	}

	// The latch is released; the session remains usable.
	gw.err = nil
	gw.reply = "recovered"
	if _, err := svc.Send(context.Background(), "again"); err != nil {
		t.Fatalf("Send after failure err: %v", err)
	}
}

func TestResetLeavesSingleGreeting(t *testing.T) {
	store := newStore(t)
	svc := brainstorm.NewService(store, &fakeGateway{reply: "x"}, nil)

	if _, err := svc.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send err: %v", err)
	}
	svc.Reset()

	messages := svc.Messages()
	if len(messages) != 1 || messages[0].Content != chat.ResetGreeting {
		t.Fatalf("unexpected log after reset: %+v", messages)
	}

	var persisted []chat.Message
	if !store.Load(storage.KeyMessages, &persisted) {
		t.Fatal("reset state must be persisted")
	}
	if len(persisted) != 1 || persisted[0].Content != chat.ResetGreeting {
		t.Fatalf("unexpected persisted log: %+v", persisted)
	}
}
