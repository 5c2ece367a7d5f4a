package brainstorm

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	brainstormService "github.com/wanchen/pixelforge/backend/internal/service/brainstorm"
	"github.com/wanchen/pixelforge/backend/pkg/utils"
)

// Handler 头脑风暴面板的HTTP处理器
type Handler struct {
	svc *brainstormService.Service
}

// New 创建头脑风暴处理器
func New(svc *brainstormService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册对话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/brainstorm/messages", h.handleListMessages)
	r.Post("/brainstorm/messages", h.handleSend)
	r.Get("/brainstorm/stream", h.handleStream)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"messages": h.svc.Messages(),
	})
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.Send(r.Context(), payload.Content)
	switch {
	case errors.Is(err, brainstormService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	case errors.Is(err, brainstormService.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "a request is already in flight")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, reply)
}

// handleStream mirrors handleSend over SSE so the panel can show progress
// markers while the reply is pending.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	message := r.URL.Query().Get("message")
	utils.SetupSSEHeaders(w)

	utils.SendSSEChunk(w, flusher, map[string]any{"event": "start"})

	reply, err := h.svc.Send(r.Context(), message)
	if err != nil {
		utils.SendSSEChunk(w, flusher, map[string]any{
			"event": "error",
			"error": err.Error(),
		})
		return
	}

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "message",
		"role":    reply.Role,
		"content": reply.Content,
	})
	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":    "end",
		"finished": true,
	})
}
