package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "questionlists/docs"
	"questionlists/internal/config"
	"questionlists/internal/domain/list"
	"questionlists/internal/domain/user"
	"questionlists/internal/domain/vote"
	api "questionlists/internal/http"
	"questionlists/internal/metrics"
	"questionlists/internal/platform/database"
	jwtpkg "questionlists/internal/platform/jwt"
	"questionlists/internal/repository/postgres"
	"questionlists/internal/worker"
)

// @title           Question Lists API
// @version         1.0
// @description     Binary-choice question lists: author, publish, answer, share, compare
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	metrics.Register()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		slog.Error("db connect error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepo(db)
	listRepo := postgres.NewListRepo(db)
	voteRepo := postgres.NewVoteRepo(db)

	userSvc := user.NewService(userRepo)
	listSvc := list.NewService(listRepo)
	voteSvc := vote.NewService(voteRepo, listRepo, userRepo)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, "")

	voteCh := make(chan worker.VoteEvent, 100)
	statsWorker := worker.NewStatsWorker(voteCh, voteRepo)

	router := api.NewRouter(userSvc, listSvc, voteSvc, jwtMgr, voteCh, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go statsWorker.Run(ctx)

	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
