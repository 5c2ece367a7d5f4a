package forge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanchen/pixelforge/backend/internal/gateway"
	forgeService "github.com/wanchen/pixelforge/backend/internal/service/forge"
	"github.com/wanchen/pixelforge/backend/pkg/utils"
)

// Handler 素材熔炉的HTTP处理器
type Handler struct {
	svc *forgeService.Service
}

// New 创建熔炉处理器
func New(svc *forgeService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册素材相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/forge/assets", h.handleListAssets)
	r.Post("/forge/assets", h.handleGenerate)
	r.Get("/forge/assets/{assetID}/download", h.handleDownload)
}

func (h *Handler) handleListAssets(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid page number")
			return
		}
		page = parsed
	}

	assets, page, totalPages := h.svc.Page(page)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"assets":     assets,
		"page":       page,
		"totalPages": totalPages,
		"total":      h.svc.Count(),
	})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.Generate(r.Context(), payload.Prompt)
	var failure *gateway.Failure
	switch {
	case errors.Is(err, forgeService.ErrEmptyPrompt):
		utils.RespondError(w, http.StatusBadRequest, "prompt is required")
		return
	case errors.Is(err, forgeService.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "a generation is already in flight")
		return
	case errors.As(err, &failure):
		utils.RespondError(w, http.StatusBadGateway, "sprite generation failed")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Find(chi.URLParam(r, "assetID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "asset not found")
		return
	}

	data, ok := item.DecodePayload()
	if !ok {
		// Remote payloads are fetched by the browser directly.
		http.Redirect(w, r, item.URL, http.StatusTemporaryRedirect)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.Filename()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
