package workspace

import (
	"errors"
	"log"
	"sync"

	"github.com/wanchen/pixelforge/backend/internal/service/brainstorm"
	"github.com/wanchen/pixelforge/backend/internal/service/forge"
	"github.com/wanchen/pixelforge/backend/internal/storage"
)

// The four workspace views.
const (
	ViewBrainstorm    = "BRAINSTORM"
	ViewSpriteGen     = "SPRITE_GEN"
	ViewDestinyWeaver = "DESTINY_WEAVER"
	ViewSettings      = "SETTINGS"
)

var ErrUnknownView = errors.New("unknown view")

// BackupAck 手动备份按钮的固定回执，持久化本来就是实时的。
const BackupAck = "所有进度已自动保存至本地缓存。"

// Service tracks the active view and performs the destructive workspace
// reset. The view selector is advisory: switching views never cancels an
// in-flight generation, its result still lands in the owning panel.
type Service struct {
	store      *storage.Store
	brainstorm *brainstorm.Service
	forge      *forge.Service

	mu   sync.Mutex
	view string
}

// NewService wires the reset targets.
func NewService(store *storage.Store, bs *brainstorm.Service, fg *forge.Service) *Service {
	return &Service{
		store:      store,
		brainstorm: bs,
		forge:      fg,
		view:       ViewBrainstorm,
	}
}

// ActiveView returns the currently selected view.
func (s *Service) ActiveView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView switches the active view.
func (s *Service) SetView(view string) error {
	switch view {
	case ViewBrainstorm, ViewSpriteGen, ViewDestinyWeaver, ViewSettings:
	default:
		return ErrUnknownView
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	return nil
}

// ResetAll clears both persisted collections and reseeds the owning
// services. Irreversible; the HTTP layer demands explicit confirmation.
func (s *Service) ResetAll() {
	log.Printf("[workspace] factory reset requested")
	s.store.Delete(storage.KeyMessages)
	s.store.Delete(storage.KeyAssets)
	s.brainstorm.Reset()
	s.forge.Reset()
}
