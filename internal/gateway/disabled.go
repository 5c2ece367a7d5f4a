package gateway

import (
	"context"
	"errors"
)

// ErrDisabled is returned by every operation when no AI credentials were
// configured; the workspace stays usable, generations just fail softly.
var ErrDisabled = errors.New("ai backend not configured")

// Disabled is the no-credentials Gateway.
type Disabled struct{}

func (Disabled) Converse(context.Context, []Turn) (string, error) {
	return "", fail("converse", ErrDisabled)
}

func (Disabled) SynthesizeImage(context.Context, string) (string, error) {
	return "", fail("synthesize_image", ErrDisabled)
}

func (Disabled) SynthesizeConcept(context.Context, string, string) (string, error) {
	return "", fail("synthesize_concept", ErrDisabled)
}

var _ Gateway = Disabled{}
