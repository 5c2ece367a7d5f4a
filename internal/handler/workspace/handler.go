package workspace

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	workspaceService "github.com/wanchen/pixelforge/backend/internal/service/workspace"
	"github.com/wanchen/pixelforge/backend/pkg/utils"
)

// Handler 工作区（设置页）的HTTP处理器
type Handler struct {
	svc      *workspaceService.Service
	hub      *workspaceService.Hub
	upgrader websocket.Upgrader
}

// New 创建工作区处理器
func New(svc *workspaceService.Service, hub *workspaceService.Hub) *Handler {
	return &Handler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册工作区路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/workspace/view", h.handleGetView)
	r.Put("/workspace/view", h.handleSetView)
	r.Post("/workspace/reset", h.handleReset)
	r.Post("/workspace/backup", h.handleBackup)
	r.Get("/workspace/events", h.handleEvents)
}

func (h *Handler) handleGetView(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"view": h.svc.ActiveView()})
}

func (h *Handler) handleSetView(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SetView(payload.View); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"view": h.svc.ActiveView()})
}

// handleReset performs the factory reset. The confirm flag is required:
// this destroys both persisted collections with no undo.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !payload.Confirm {
		utils.RespondError(w, http.StatusBadRequest, "confirmation required")
		return
	}

	h.svc.ResetAll()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	// 持久化是实时写入的，这里只返回固定回执。
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": workspaceService.BackupAck})
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[workspace] websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(conn)

	// Drain control frames until the peer goes away.
	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
