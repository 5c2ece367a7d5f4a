package asset

import (
	"encoding/base64"
	"strings"
	"time"
)

// Asset is a generated sprite kept newest-first in the gallery.
type Asset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}

// Filename derives the download name from the generation prompt,
// whitespace collapsed to underscores.
func (a Asset) Filename() string {
	return strings.Join(strings.Fields(a.Name), "_") + ".png"
}

// DecodePayload extracts raw image bytes from a data URI payload.
// Remote URLs return ok=false and are served by redirect instead.
func (a Asset) DecodePayload() ([]byte, bool) {
	const marker = ";base64,"
	if !strings.HasPrefix(a.URL, "data:") {
		return nil, false
	}
	idx := strings.Index(a.URL, marker)
	if idx < 0 {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(a.URL[idx+len(marker):])
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Now is the asset clock, millisecond precision like the stored payloads.
func Now() int64 {
	return time.Now().UnixMilli()
}
