package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"chatrelay/internal/config"
	"chatrelay/internal/http/http_server"
	"chatrelay/internal/presence"
	"chatrelay/internal/profanity"
	"chatrelay/internal/services/chat"
	"chatrelay/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Core state: presence registry + profanity filter
	registry := presence.NewRegistry()
	filter := profanity.NewFilter(cfg.ProfanityExtraWords...)

	// 4. WebSockets hub (the room transport)
	hub := ws.NewHub()

	// 5. Chat service: join / message / location / disconnect orchestration
	chatService := chat.NewChatService(registry, hub, filter.IsProfane)

	// 6. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, chatService, cfg.WsRateLimit, cfg.WsRateBurst)

	// 7. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, cfg.PublicDir, wsSrv, registry)

	go func() {
		<-ctx.Done()
		if err := httpServer.Dispose(); err != nil {
			Log.Error("http_shutdown", zap.Error(err))
		}
	}()

	Log.Info("Server is up", zap.Uint16("port", cfg.HttpServerPort))
	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
