package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sales-engine/config"
	"sales-engine/internal/engine"
	"sales-engine/internal/logger"
	"sales-engine/internal/stores"
	"sales-engine/internal/transport/httpapi"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	dial := &stores.Dial{
		OperationalCfg: cfg.OperationalStore(),
		ProductCfg:     cfg.ProductStore(),
		Log:            log,
	}
	if cfg.CarePlanEnabled {
		careCfg := cfg.CarePlanStore()
		dial.CarePlanCfg = &careCfg
	}

	eng := engine.New(dial, log)
	handler := httpapi.NewHandler(eng, log)
	router := httpapi.SetupRouter(handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting tool dispatcher", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down tool dispatcher...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	log.Info("Tool dispatcher stopped gracefully")
}
