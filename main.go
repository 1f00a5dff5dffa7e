package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/config"
	"github.com/gosocial-app/backend/models"
	"github.com/gosocial-app/backend/routes"
	"github.com/gosocial-app/backend/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	db, err := config.InitDatabase(cfg, &models.User{}, &models.Post{}, &models.Comment{}, &models.Like{})
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenExpireMinutes)*time.Minute)

	r := routes.SetupRouter(cfg, db, tokens, utils.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.Sugar.Infof("Starting server on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Sugar.Fatalf("server stopped with error: %v", err)
		}
	}()

	<-ctx.Done()
	utils.Sugar.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Sugar.Errorf("server shutdown error: %v", err)
	}
	utils.Sugar.Info("server stopped")
}
