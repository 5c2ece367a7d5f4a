package destiny_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/wanchen/pixelforge/backend/internal/gateway"
	destinyModel "github.com/wanchen/pixelforge/backend/internal/model/destiny"
	destiny "github.com/wanchen/pixelforge/backend/internal/service/destiny"
)

type fakeGateway struct {
	concept string
	err     error

	entered chan struct{}
	release chan struct{}
}

func (f *fakeGateway) Converse(context.Context, []gateway.Turn) (string, error) {
	return "", nil
}

func (f *fakeGateway) SynthesizeImage(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeGateway) SynthesizeConcept(_ context.Context, mbti, tarot string) (string, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	if f.concept != "" {
		return f.concept, nil
	}
	return fmt.Sprintf("concept for %s x %s", mbti, tarot), nil
}

func TestDefaultSpread(t *testing.T) {
	svc := destiny.NewService(&fakeGateway{}, rand.NewSource(1))

	spread := svc.Snapshot()
	if spread.MBTI != destinyModel.DefaultType {
		t.Fatalf("expected default type, got %s", spread.MBTI)
	}
	if spread.Tarot != "" || spread.Concept != "" || spread.Weaving {
		t.Fatalf("expected clean spread, got %+v", spread)
	}
}

func TestDrawPicksFromDeck(t *testing.T) {
	svc := destiny.NewService(&fakeGateway{}, rand.NewSource(42))

	card := svc.Draw()
	found := false
	for _, c := range destinyModel.TarotCards {
		if c == card {
			found = true
		}
	}
	if !found {
		t.Fatalf("drawn card %q not in the deck", card)
	}
}

func TestDrawDeterministicUnderSeed(t *testing.T) {
	a := destiny.NewService(&fakeGateway{}, rand.NewSource(7))
	b := destiny.NewService(&fakeGateway{}, rand.NewSource(7))

	for i := 0; i < 10; i++ {
		if ca, cb := a.Draw(), b.Draw(); ca != cb {
			t.Fatalf("draw %d diverged: %s vs %s", i, ca, cb)
		}
	}
}

func TestDrawClearsConcept(t *testing.T) {
	svc := destiny.NewService(&fakeGateway{concept: "woven tale"}, rand.NewSource(1))

	svc.Draw()
	if _, err := svc.Weave(context.Background()); err != nil {
		t.Fatalf("Weave err: %v", err)
	}
	if svc.Snapshot().Concept != "woven tale" {
		t.Fatal("expected woven concept")
	}

	svc.Draw()
	if spread := svc.Snapshot(); spread.Concept != "" {
		t.Fatalf("redraw must invalidate the concept, got %q", spread.Concept)
	}
}

func TestWeaveWithoutCardRejected(t *testing.T) {
	svc := destiny.NewService(&fakeGateway{}, rand.NewSource(1))

	if _, err := svc.Weave(context.Background()); !errors.Is(err, destiny.ErrNoCard) {
		t.Fatalf("expected ErrNoCard, got %v", err)
	}
	if spread := svc.Snapshot(); spread.Concept != "" || spread.Tarot != "" {
		t.Fatalf("state must stay unchanged, got %+v", spread)
	}
}

func TestWeaveFailureSubstitutesFallback(t *testing.T) {
	gw := &fakeGateway{err: &gateway.Failure{Op: "synthesize_concept", Err: errors.New("backend down")}}
	svc := destiny.NewService(gw, rand.NewSource(1))

	svc.Draw()
	result, err := svc.Weave(context.Background())
	if err != nil {
		t.Fatalf("failures are substituted, got err %v", err)
	}
	if result.Concept != destinyModel.WeaveFallback {
		t.Fatalf("expected fallback line, got %q", result.Concept)
	}
	if svc.Snapshot().Weaving {
		t.Fatal("weaving flag must be cleared")
	}
}

func TestWeaveRejectedWhileWeaving(t *testing.T) {
	gw := &fakeGateway{
		concept: "slow concept",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := destiny.NewService(gw, rand.NewSource(1))
	svc.Draw()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := svc.Weave(context.Background()); err != nil {
			t.Errorf("first Weave err: %v", err)
		}
	}()

	<-gw.entered
	if _, err := svc.Weave(context.Background()); !errors.Is(err, destiny.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(gw.release)
	<-done
}

func TestSelectTypeKeepsSpread(t *testing.T) {
	svc := destiny.NewService(&fakeGateway{concept: "tale"}, rand.NewSource(1))

	card := svc.Draw()
	if _, err := svc.Weave(context.Background()); err != nil {
		t.Fatalf("Weave err: %v", err)
	}

	if err := svc.SelectType("ENFP"); err != nil {
		t.Fatalf("SelectType err: %v", err)
	}
	spread := svc.Snapshot()
	if spread.MBTI != "ENFP" {
		t.Fatalf("expected ENFP, got %s", spread.MBTI)
	}
	if spread.Tarot != card || spread.Concept != "tale" {
		t.Fatalf("selecting a type must not touch card/concept, got %+v", spread)
	}

	if err := svc.SelectType("XXXX"); !errors.Is(err, destiny.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
