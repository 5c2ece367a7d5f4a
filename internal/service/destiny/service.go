package destiny

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"

	"github.com/wanchen/pixelforge/backend/internal/gateway"
	"github.com/wanchen/pixelforge/backend/internal/model/destiny"
)

var (
	ErrUnknownType = errors.New("unknown personality type")
	ErrNoCard      = errors.New("no tarot card drawn")
	ErrBusy        = errors.New("a weaving is already in flight")
)

// Service holds the ephemeral draw/weave state. Nothing here is persisted;
// a restart starts from a clean spread.
type Service struct {
	gw  gateway.Gateway
	rng *rand.Rand

	mu      sync.Mutex
	mbti    string
	tarot   string
	concept string
	weaving bool
}

// NewService builds the weaver around an injected randomness source so card
// draws are reproducible under a seeded source.
func NewService(gw gateway.Gateway, src rand.Source) *Service {
	return &Service{
		gw:   gw,
		rng:  rand.New(src),
		mbti: destiny.DefaultType,
	}
}

// SelectType switches the personality label. Allowed in any state and never
// touches the drawn card or the concept.
func (s *Service) SelectType(label string) error {
	if !destiny.ValidType(label) {
		return ErrUnknownType
	}
	s.mu.Lock()
	s.mbti = label
	s.mu.Unlock()
	return nil
}

// Draw picks a card uniformly with replacement and invalidates any previous
// concept.
func (s *Service) Draw() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tarot = destiny.TarotCards[s.rng.Intn(len(destiny.TarotCards))]
	s.concept = ""
	return s.tarot
}

// Weave asks the backend to combine the selected type with the drawn card.
// A backend failure substitutes the fixed fallback line; the raw error
// never reaches the spread.
func (s *Service) Weave(ctx context.Context) (destiny.Result, error) {
	s.mu.Lock()
	if s.tarot == "" {
		s.mu.Unlock()
		return destiny.Result{}, ErrNoCard
	}
	if s.weaving {
		s.mu.Unlock()
		return destiny.Result{}, ErrBusy
	}
	s.weaving = true
	mbti, tarot := s.mbti, s.tarot
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.weaving = false
		s.mu.Unlock()
	}()

	concept, err := s.gw.SynthesizeConcept(ctx, mbti, tarot)
	if err != nil {
		log.Printf("[destiny] weave failed: %v", err)
		concept = destiny.WeaveFallback
	}

	s.mu.Lock()
	s.concept = concept
	result := destiny.Result{MBTI: s.mbti, Tarot: s.tarot, Concept: s.concept}
	s.mu.Unlock()

	return result, nil
}

// Snapshot returns the current spread.
func (s *Service) Snapshot() destiny.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return destiny.Result{
		MBTI:    s.mbti,
		Tarot:   s.tarot,
		Concept: s.concept,
		Weaving: s.weaving,
	}
}
