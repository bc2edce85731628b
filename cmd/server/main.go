package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/taskforge/taskforge/internal/config"
	"github.com/taskforge/taskforge/internal/db"
	"github.com/taskforge/taskforge/internal/events"
	"github.com/taskforge/taskforge/internal/httpserver"
	"github.com/taskforge/taskforge/internal/logging"
	loggingmw "github.com/taskforge/taskforge/internal/middleware/logging"
	"github.com/taskforge/taskforge/internal/repo"
	"github.com/taskforge/taskforge/internal/search"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	database, err := db.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	prod := events.NewProducer(cfg.KafkaBrokers)

	esClient, err := search.NewClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	rp := &repo.GormRepo{DB: database}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:     database,
		Issuer: issuer,
		Auth: &httpserver.AuthHTTP{
			Svc:      &service.AuthService{Repo: rp, Issuer: issuer},
			Producer: prod,
		},
		Tasks: &httpserver.TaskHTTP{
			Svc:      &service.TaskService{Repo: rp, TitleMax: cfg.TaskTitleMax},
			Producer: prod,
			ES:       esClient,
		},
		Users: &httpserver.UserHTTP{
			Svc: &service.UserService{Repo: rp},
		},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
