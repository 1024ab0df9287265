// Package cmd implements the CLI application to track a collection of trading
// cards and sealed products.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/config"
	"github.com/etnz/tcgtracker/logger"
	"github.com/etnz/tcgtracker/pricedb"
	"github.com/etnz/tcgtracker/tcgcsv"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "config.yaml", "Path to the configuration file (YAML or JSON)")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", false, "verbose output")

// Commands lists every subcommand with its group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"transactions": {&buyCmd{}, &sellCmd{}, &openCmd{}, &tradeCmd{}, &editCmd{}, &rmCmd{}, &txCmd{}},
		"reports":      {&summaryCmd{}, &holdingCmd{}, &gapsCmd{}, &rebuildCmd{}},
		"prices":       {&fetchCmd{}, &backfillCmd{}, &migratePricesCmd{}},
		"automation":   {&dailyCmd{}, &publishCmd{}, &scheduleCmd{}},
		"help":         {&topicCmd{}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// Context returns ctx carrying the application logger.
func Context(ctx context.Context) context.Context {
	logger.SetVerbose(*Verbose)
	return logger.WithContext(ctx, logger.New())
}

// loadConfig loads and validates the configuration file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", *configFile, err)
	}
	return cfg, nil
}

// openPrices opens the configured price store backend.
func openPrices(cfg *config.Config) (tracker.PriceStore, io.Closer, error) {
	if cfg.Data.Backend == config.BackendSQLite {
		db, err := pricedb.Open(cfg.Path(cfg.Data.SQLitePath))
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	}
	return tracker.NewFileStore(cfg.Path(cfg.Data.Prices)), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newFetcher returns the archive based price fetcher writing to store.
func newFetcher(cfg *config.Config, store tracker.PriceStore) *tcgcsv.Fetcher {
	client := tcgcsv.NewClient(cfg.Fetch.ArchiveURL, cfg.Path(cfg.Fetch.CacheDir), cfg.Location())
	return tcgcsv.NewFetcher(client, store, cfg.Fetch.Parallelism)
}

// options maps the configuration onto tracker options.
func options(cfg *config.Config, store tracker.PriceStore) (tracker.Options, error) {
	method, err := tracker.ParseCostBasisMethod(strings.ToLower(cfg.CostBasis))
	if err != nil {
		return tracker.Options{}, err
	}
	return tracker.Options{
		Start:            cfg.Start(),
		Location:         cfg.Location(),
		Method:           method,
		DefaultCategory:  tracker.ID(cfg.PrimaryCategory),
		TransactionsPath: cfg.Path(cfg.Data.Transactions),
		CatalogPath:      cfg.Path(cfg.Data.Catalog),
		SummaryPath:      cfg.Path(cfg.Data.Summary),
		GapsPath:         cfg.Path(cfg.Data.Gaps),
		Prices:           store,
		Fetcher:          newFetcher(cfg, store),
	}, nil
}

// app is what a command needs to run.
type app struct {
	cfg     *config.Config
	tracker *tracker.Tracker
	closer  io.Closer
}

// openApp loads the configuration and opens the tracker.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, closer, err := openPrices(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := options(cfg, store)
	if err != nil {
		closer.Close()
		return nil, err
	}
	tr, err := tracker.Load(opts)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &app{cfg: cfg, tracker: tr, closer: closer}, nil
}

func (a *app) Close() error { return a.closer.Close() }

// run opens the app, calls f and reports its error.
func run(ctx context.Context, f func(ctx context.Context, a *app) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := f(ctx, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
