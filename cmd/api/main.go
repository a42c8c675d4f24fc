package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/nestegg-dev/nestegg/internal/auth"
	"github.com/nestegg-dev/nestegg/internal/categorizer"
	categorizerStore "github.com/nestegg-dev/nestegg/internal/categorizer/store"
	"github.com/nestegg-dev/nestegg/internal/config"
	"github.com/nestegg-dev/nestegg/internal/database"
	"github.com/nestegg-dev/nestegg/internal/export"
	"github.com/nestegg-dev/nestegg/internal/goal"
	goalStore "github.com/nestegg-dev/nestegg/internal/goal/store"
	nesteggHttp "github.com/nestegg-dev/nestegg/internal/http"
	authHandler "github.com/nestegg-dev/nestegg/internal/http/auth"
	categoriesHandler "github.com/nestegg-dev/nestegg/internal/http/categories"
	exportHandler "github.com/nestegg-dev/nestegg/internal/http/export"
	goalHandler "github.com/nestegg-dev/nestegg/internal/http/goal"
	importHandler "github.com/nestegg-dev/nestegg/internal/http/importcsv"
	insightsHandler "github.com/nestegg-dev/nestegg/internal/http/insights"
	txHandler "github.com/nestegg-dev/nestegg/internal/http/transaction"
	userHandler "github.com/nestegg-dev/nestegg/internal/http/user"
	"github.com/nestegg-dev/nestegg/internal/importer"
	"github.com/nestegg-dev/nestegg/internal/insights"
	"github.com/nestegg-dev/nestegg/internal/planner"
	"github.com/nestegg-dev/nestegg/internal/transaction"
	txStore "github.com/nestegg-dev/nestegg/internal/transaction/store"
	"github.com/nestegg-dev/nestegg/internal/user"
	userStore "github.com/nestegg-dev/nestegg/internal/user/store"
)

func main() {
	// .env is a local-development convenience; the environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		userService        = user.NewService(userStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		categorizerService = categorizer.NewService(categorizerStore.New(db))
		importService      = importer.NewService()
		insightsService    = insights.NewService(transactionService)
		exportService      = export.NewService(transactionService)
		goalService        = goal.NewService(
			goalStore.New(db),
			transactionService,
			userService,
			planner.New(planner.DefaultTuning()),
			cfg.Planner.Lookback,
		)
	)

	var (
		authH        = authHandler.NewHandler(userService, tokens)
		usersH       = userHandler.NewHandler(userService)
		transactionH = txHandler.NewHandler(transactionService)
		goalH        = goalHandler.NewHandler(goalService)
		insightsH    = insightsHandler.NewHandler(insightsService)
		importH      = importHandler.NewHandler(importService, transactionService, categorizerService)
		exportH      = exportHandler.NewHandler(exportService)
		categoriesH  = categoriesHandler.NewHandler(categorizerService)
	)

	router := nesteggHttp.New(
		tokens,
		cfg.Server.AllowedOrigins,
		authH,
		usersH,
		transactionH,
		goalH,
		insightsH,
		importH,
		exportH,
		categoriesH,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
