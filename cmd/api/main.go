package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tidytask/tidytask-backend/config"
	"github.com/tidytask/tidytask-backend/internal/auth"
	"github.com/tidytask/tidytask-backend/internal/bootstrap"
	"github.com/tidytask/tidytask-backend/internal/jobs"
	taskrepo "github.com/tidytask/tidytask-backend/internal/tasks/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	scheduler := jobs.NewScheduler(taskrepo.NewTaskRepository(pool))
	if err := scheduler.Start(); err != nil {
		log.Fatalf("start scheduler: %v", err)
	}
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "tidytask-backend",
		Version:        cfg.App.Version,
		FrontendOrigin: cfg.App.FrontendOrigin,
		DB:             pool,
		Redis:          rdb,
		OAuth: auth.NewGithubProvider(
			cfg.OAuth.GithubClientID,
			cfg.OAuth.GithubClientSecret,
			cfg.OAuth.RedirectURL,
		),
		Issuer: auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
