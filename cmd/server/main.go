package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/joho/godotenv"

	"github.com/hongminglow/lendsqr-admin/internal/config"
	"github.com/hongminglow/lendsqr-admin/internal/server"
	"github.com/hongminglow/lendsqr-admin/internal/storage"
	"github.com/hongminglow/lendsqr-admin/internal/storage/memory"
	postgres "github.com/hongminglow/lendsqr-admin/internal/storage/postgres"
)

var (
	version     = "dev"
	commit      = ""
	treeState   = ""
	date        = ""
	builtBy     = ""
	showVersion = flag.Bool("version", false, "Print build information and exit")
)

func main() {
	flag.Parse()

	info := buildVersion(version, commit, date, builtBy, treeState)
	if *showVersion {
		fmt.Println(info.String())
		return
	}

	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()
	store, closeStore, err := openHandoffStore(ctx, cfg)
	if err != nil {
		logger.Error("init handoff store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	srv, err := server.New(cfg, store, logger, info)
	if err != nil {
		logger.Error("init server", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("lendsqr admin listening", "addr", srv.Addr(), "version", info.GitVersion)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Warn("graceful shutdown error", "error", err)
	}
}

// openHandoffStore uses Postgres when DATABASE_URL is set and keeps hand-off
// records in memory otherwise.
func openHandoffStore(ctx context.Context, cfg config.Config) (storage.HandoffStore, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL not set; keeping hand-off records in memory")
		return memory.NewHandoffStore(cfg.JWTTTL), func() {}, nil
	}
	store, err := postgres.NewHandoffStore(ctx, cfg.DatabaseURL, cfg.JWTTTL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found; relying on existing environment")
	}
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("lendsqr-admin", "Lendsqr admin dashboard", "https://lendsqr.com"),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
