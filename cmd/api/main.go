package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wanchen/pixelforge/backend/internal/config"
	"github.com/wanchen/pixelforge/backend/internal/gateway"
	"github.com/wanchen/pixelforge/backend/internal/handler"
	"github.com/wanchen/pixelforge/backend/internal/service/brainstorm"
	"github.com/wanchen/pixelforge/backend/internal/service/destiny"
	"github.com/wanchen/pixelforge/backend/internal/service/forge"
	"github.com/wanchen/pixelforge/backend/internal/service/workspace"
	"github.com/wanchen/pixelforge/backend/internal/service/world"
	"github.com/wanchen/pixelforge/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("failed to open local storage: %v", err)
	}
	log.Printf("local storage ready at %s", cfg.Storage.Path)

	// Initialize the generation gateway
	var gw gateway.Gateway = gateway.Disabled{}
	if cfg.AI.Enabled() {
		arkGateway, err := gateway.NewArkGateway(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI gateway: %v", err)
			log.Println("continuing without AI functionality - 请检查 Ark 模型相关环境变量")
		} else {
			gw = arkGateway
			log.Println("AI gateway initialized successfully")
		}
	} else {
		log.Println("Ark 凭证未配置，跳过 AI 功能初始化")
	}

	hub := workspace.NewHub()

	brainstormSvc := brainstorm.NewService(store, gw, hub)
	forgeSvc := forge.NewService(store, gw, hub)
	destinySvc := destiny.NewService(gw, rand.NewSource(time.Now().UnixNano()))
	worldSvc := world.NewService()
	workspaceSvc := workspace.NewService(store, brainstormSvc, forgeSvc)

	router := handler.NewRouter(brainstormSvc, forgeSvc, destinySvc, worldSvc, workspaceSvc, hub)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("PixelForge backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
