package gateway

import (
	"context"
	"fmt"
)

// Turn is one entry of the bounded context window replayed to the AI
// backend, oldest first. The final turn is the pending user message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Gateway is the single boundary to the generative backend. Every operation
// is attempted exactly once per user action; callers decide whether a
// Failure is surfaced or substituted.
type Gateway interface {
	// Converse answers the brainstorming context with a text reply.
	Converse(ctx context.Context, turns []Turn) (string, error)
	// SynthesizeImage turns a prompt into a sprite payload, either a
	// base64 data URI or a remote URL. The pixel-art style decoration is
	// applied behind this boundary.
	SynthesizeImage(ctx context.Context, prompt string) (string, error)
	// SynthesizeConcept weaves a personality label and a tarot card into
	// a character concept.
	SynthesizeConcept(ctx context.Context, mbti, tarot string) (string, error)
}

// Failure tags a backend error with the operation that produced it.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("gateway %s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(op string, err error) *Failure {
	return &Failure{Op: op, Err: err}
}
