package destiny

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	destinyModel "github.com/wanchen/pixelforge/backend/internal/model/destiny"
	destinyService "github.com/wanchen/pixelforge/backend/internal/service/destiny"
	"github.com/wanchen/pixelforge/backend/pkg/utils"
)

// Handler 命运编织器的HTTP处理器
type Handler struct {
	svc *destinyService.Service
}

// New 创建命运编织处理器
func New(svc *destinyService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册抽牌与合成路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/destiny", h.handleSnapshot)
	r.Post("/destiny/type", h.handleSelectType)
	r.Post("/destiny/draw", h.handleDraw)
	r.Post("/destiny/weave", h.handleWeave)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"types":  destinyModel.MBTITypes,
		"spread": h.svc.Snapshot(),
	})
}

func (h *Handler) handleSelectType(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SelectType(payload.Type); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.svc.Snapshot())
}

func (h *Handler) handleDraw(w http.ResponseWriter, r *http.Request) {
	card := h.svc.Draw()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"tarot":  card,
		"spread": h.svc.Snapshot(),
	})
}

func (h *Handler) handleWeave(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Weave(r.Context())
	switch {
	case errors.Is(err, destinyService.ErrNoCard):
		utils.RespondError(w, http.StatusBadRequest, "draw a tarot card first")
		return
	case errors.Is(err, destinyService.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "a weaving is already in flight")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
