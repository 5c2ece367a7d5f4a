package world

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	worldModel "github.com/wanchen/pixelforge/backend/internal/model/world"
	worldService "github.com/wanchen/pixelforge/backend/internal/service/world"
	"github.com/wanchen/pixelforge/backend/pkg/utils"
)

// Handler 世界构建器的HTTP处理器
type Handler struct {
	svc *worldService.Service
}

// New 创建世界构建处理器
func New(svc *worldService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册画布路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/world", h.handleSnapshot)
	r.Post("/world/paint", h.handlePaint)
	r.Post("/world/flood", h.handleFlood)
	r.Post("/world/clear", h.handleClear)
	r.Get("/world/export", h.handleExport)
}

type cellPayload struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Tile string `json:"tile"`
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"size":    worldModel.GridSize,
		"palette": worldModel.Palette,
		"grid":    h.svc.Snapshot(),
	})
}

func (h *Handler) handlePaint(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeCell(w, r)
	if !ok {
		return
	}
	if err := h.svc.Paint(payload.Row, payload.Col, payload.Tile); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "painted"})
}

func (h *Handler) handleFlood(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeCell(w, r)
	if !ok {
		return
	}
	if err := h.svc.Flood(payload.Row, payload.Col, payload.Tile); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "flooded"})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Export()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="world.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func decodeCell(w http.ResponseWriter, r *http.Request) (cellPayload, bool) {
	var payload cellPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return cellPayload{}, false
	}
	return payload, true
}
