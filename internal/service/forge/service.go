package forge

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wanchen/pixelforge/backend/internal/gateway"
	"github.com/wanchen/pixelforge/backend/internal/model/asset"
	"github.com/wanchen/pixelforge/backend/internal/storage"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrBusy          = errors.New("a sprite generation is already in flight")
	ErrAssetNotFound = errors.New("asset not found")
)

// PageSize is the fixed gallery page size.
const PageSize = 8

// Notifier receives workspace events. May be nil.
type Notifier interface {
	Publish(event string, payload any)
}

// Service owns the sprite gallery, newest first. One generation at a time;
// concurrent requests are rejected, not queued.
type Service struct {
	store    *storage.Store
	gw       gateway.Gateway
	notifier Notifier

	mu     sync.Mutex
	busy   bool
	page   int
	assets []asset.Asset
}

// NewService loads the persisted gallery, defaulting to empty.
func NewService(store *storage.Store, gw gateway.Gateway, notifier Notifier) *Service {
	s := &Service{store: store, gw: gw, notifier: notifier, page: 1}

	var saved []asset.Asset
	if store.Load(storage.KeyAssets, &saved) {
		s.assets = saved
	}
	return s
}

// Generate synthesizes a sprite for the prompt and prepends it to the
// gallery. Gateway failures are returned to the caller; the collection is
// left untouched.
func (s *Service) Generate(ctx context.Context, prompt string) (asset.Asset, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return asset.Asset{}, ErrEmptyPrompt
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return asset.Asset{}, ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	payload, err := s.gw.SynthesizeImage(ctx, prompt)
	if err != nil {
		log.Printf("[forge] generation failed: %v", err)
		return asset.Asset{}, err
	}

	item := asset.Asset{
		ID:          uuid.NewString(),
		Name:        prompt,
		URL:         payload,
		Description: prompt,
		Timestamp:   asset.Now(),
	}

	s.mu.Lock()
	s.assets = append([]asset.Asset{item}, s.assets...)
	// Jump back to the first page so the new sprite is visible.
	s.page = 1
	s.persistLocked()
	s.mu.Unlock()

	s.publish("asset", item)
	return item, nil
}

// Page records and returns the requested page of the newest-first gallery.
// The page number is clamped to the valid range.
func (s *Service) Page(page int) ([]asset.Asset, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalPages := (len(s.assets) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	s.page = page

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(s.assets) {
		start = len(s.assets)
	}
	if end > len(s.assets) {
		end = len(s.assets)
	}

	return append([]asset.Asset(nil), s.assets[start:end]...), page, totalPages
}

// CurrentPage returns the page last requested or forced by a generation.
func (s *Service) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Count returns the gallery size.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

// Find resolves an asset by id for download.
func (s *Service) Find(id string) (asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.assets {
		if item.ID == id {
			return item, nil
		}
	}
	return asset.Asset{}, ErrAssetNotFound
}

// Reset empties the gallery.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = nil
	s.page = 1
	s.persistLocked()
}

func (s *Service) persistLocked() {
	s.store.Save(storage.KeyAssets, s.assets)
}

func (s *Service) publish(event string, payload any) {
	if s.notifier != nil {
		s.notifier.Publish(event, payload)
	}
}
