package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gurram46/Artha-Agent-sub004/internal/adk/tools"
	"github.com/gurram46/Artha-Agent-sub004/internal/agents"
	"github.com/gurram46/Artha-Agent-sub004/internal/chat"
	"github.com/gurram46/Artha-Agent-sub004/internal/config"
	"github.com/gurram46/Artha-Agent-sub004/internal/logger"
	"github.com/gurram46/Artha-Agent-sub004/internal/models"
	"github.com/gurram46/Artha-Agent-sub004/internal/server"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/market"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/news"
	"github.com/gurram46/Artha-Agent-sub004/internal/services/portfolio"
	"github.com/gurram46/Artha-Agent-sub004/internal/storage"
	in_memory "github.com/gurram46/Artha-Agent-sub004/internal/storage/in-memory"
	key_value "github.com/gurram46/Artha-Agent-sub004/internal/storage/key-value"
)

var log = logger.New("main")

func main() {
	if err := run(); err != nil {
		log.Error("fatal: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetGlobalLevel(logger.ParseLevel(cfg.Server.LogLevel))

	marketSvc := market.NewService(cfg.Market.RequestTimeout, cfg.Market.CacheTTL)

	newsSvc, err := news.NewService()
	if err != nil {
		return err
	}

	portfolioSvc, err := portfolio.NewService()
	if err != nil {
		return err
	}

	// 会话存储：配置了 Redis 用 KV，否则用内存
	var sessionStore storage.SessionStorage
	if cfg.Redis.Endpoint != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Endpoint,
		})
		sessionStore = key_value.NewSessionStorage(rdb)
		log.Info("using redis session storage at %s", cfg.Redis.Endpoint)
	} else {
		sessionStore = in_memory.NewSessionStorage()
		log.Info("using in-memory session storage")
	}

	chatSvc := chat.NewService(portfolioSvc, marketSvc, sessionStore)

	// 分析师：模型 + 内置工具
	aiConfig := &models.AIConfig{
		Provider:  models.AIProvider(cfg.AI.Provider),
		APIKey:    cfg.AI.APIKey,
		ModelName: cfg.AI.ModelName,
		BaseURL:   cfg.AI.BaseURL,
	}
	if aiConfig.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, analysis endpoints will return 503")
	}

	toolRegistry, err := tools.NewRegistry(marketSvc, newsSvc)
	if err != nil {
		return err
	}
	analystSvc := agents.NewService(aiConfig, toolRegistry, marketSvc)

	srv := server.New(cfg, chatSvc, marketSvc, newsSvc, portfolioSvc, analystSvc)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening on :%s", cfg.Server.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	log.Info("bye")
	return nil
}
