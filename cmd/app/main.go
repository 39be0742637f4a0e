package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farkle_server/internal/config"
	"farkle_server/internal/db"
	"farkle_server/internal/game"
	httpServer "farkle_server/internal/http"
	"farkle_server/internal/http/middleware"
	"farkle_server/internal/logger"
	"farkle_server/internal/repository"
	"farkle_server/internal/service"
	"farkle_server/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	// Инициализация структурированного логгера
	jsonLogs := os.Getenv("LOG_FORMAT") == "json"
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, jsonLogs)
	log := logger.Get()

	cfg := config.Load()
	service.InitJWT()

	// История матчей опциональна: без DATABASE_URL сервер играет без нее
	var history *service.HistoryService
	if cfg.DatabaseURL != "" {
		dbPool := db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
		history = service.NewHistoryService(repository.NewMatchHistoryRepository(dbPool))
	} else {
		log.Warn("DATABASE_URL не задан - история матчей не пишется")
	}

	// Таблица очков общая для всех матчей, читается без синхронизации
	rules := game.DefaultRules()
	if cfg.WinScore > 0 {
		rules.WinScore = cfg.WinScore
	}

	hub := ws.NewHub(rules, history)
	hub.StartCleanup()

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, 0)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, hub, history, Version)

	// Статика тонкого клиента, если выложена рядом
	if _, err := os.Stat("./web"); err == nil {
		r.Static("/app", "./web")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
