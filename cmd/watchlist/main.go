package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/delivery/cli"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/extractapi"
	"github.com/pricelens/backend/internal/infrastructure/page"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	flags, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "watchlist: %v\n", err)
		return cli.ExitCode(err)
	}

	cfg, err := config.LoadFile(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watchlist: %v\n", err)
		return 1
	}

	if cfg.Server.Environment != "development" {
		log.SetOutput(io.Discard)
	}

	store, err := cli.OpenStore(flags, cfg.Watchlist.StorageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watchlist: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchlist := usecase.NewWatchlist(store, productSource(cfg), usecase.WatchlistConfig{
		AllowedHost:  cfg.Upstream.AllowedHost,
		StorageKey:   cfg.Watchlist.StorageKey,
		RefreshDelay: cfg.Watchlist.RefreshDelay,
	})
	if err := watchlist.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "watchlist: %v\n", err)
		return 1
	}

	app := cli.NewApp(watchlist, os.Stdout)
	if err := app.Run(ctx, flags.Args); err != nil {
		fmt.Fprintf(os.Stderr, "watchlist: %s\n", app.Describe(err))
		return cli.ExitCode(err)
	}
	return 0
}

// productSource talks to a running extraction service when one is configured
// and extracts in-process otherwise.
func productSource(cfg *config.Config) domain.ProductSource {
	if cfg.Watchlist.ServiceURL != "" {
		log.Printf("[Watchlist] using extraction service at %s", cfg.Watchlist.ServiceURL)
		return extractapi.NewClient(cfg.Watchlist.ServiceURL, cfg.Watchlist.ClientTimeout)
	}

	return usecase.NewExtractionService(
		page.NewClient(page.Options{
			UserAgent:      cfg.Upstream.UserAgent,
			AcceptLanguage: cfg.Upstream.AcceptLanguage,
			Timeout:        cfg.Upstream.Timeout,
		}),
		usecase.ExtractionServiceConfig{
			AllowedHost:    cfg.Upstream.AllowedHost,
			PlatformName:   cfg.Upstream.PlatformName,
			CurrencySuffix: cfg.Upstream.CurrencySuffix,
		},
	)
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
