package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	brainstormHandler "github.com/wanchen/pixelforge/backend/internal/handler/brainstorm"
	destinyHandler "github.com/wanchen/pixelforge/backend/internal/handler/destiny"
	forgeHandler "github.com/wanchen/pixelforge/backend/internal/handler/forge"
	workspaceHandler "github.com/wanchen/pixelforge/backend/internal/handler/workspace"
	worldHandler "github.com/wanchen/pixelforge/backend/internal/handler/world"
	middlewarePkg "github.com/wanchen/pixelforge/backend/internal/middleware"
	brainstormService "github.com/wanchen/pixelforge/backend/internal/service/brainstorm"
	destinyService "github.com/wanchen/pixelforge/backend/internal/service/destiny"
	forgeService "github.com/wanchen/pixelforge/backend/internal/service/forge"
	workspaceService "github.com/wanchen/pixelforge/backend/internal/service/workspace"
	worldService "github.com/wanchen/pixelforge/backend/internal/service/world"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	bs *brainstormService.Service,
	fg *forgeService.Service,
	dt *destinyService.Service,
	wd *worldService.Service,
	ws *workspaceService.Service,
	hub *workspaceService.Hub,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		brainstormHandler.New(bs).RegisterRoutes(api)
		forgeHandler.New(fg).RegisterRoutes(api)
		destinyHandler.New(dt).RegisterRoutes(api)
		worldHandler.New(wd).RegisterRoutes(api)
		workspaceHandler.New(ws, hub).RegisterRoutes(api)
	})

	return r
}
