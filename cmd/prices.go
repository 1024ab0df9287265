package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/config"
	"github.com/etnz/tcgtracker/pricedb"
	"github.com/google/subcommands"
)

// --- Fetch Command ---

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch today's market prices of the held products" }
func (*fetchCmd) Usage() string {
	return `tcg fetch

  Downloads today's price archive and records the market price of every
  product held today.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		n, err := a.tracker.FetchToday(ctx)
		fmt.Printf("Recorded %d prices for %s\n", n, a.tracker.Today())
		return err
	})
}

// --- Backfill Command ---

type backfillCmd struct{}

func (*backfillCmd) Name() string     { return "backfill" }
func (*backfillCmd) Synopsis() string { return "fetch every missing price of the owned days" }
func (*backfillCmd) Usage() string {
	return `tcg backfill

  Downloads the price archives of every day a product was held without a
  recorded price, then rebuilds the daily summary.
`
}

func (c *backfillCmd) SetFlags(f *flag.FlagSet) {}

func (c *backfillCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		n, err := a.tracker.Backfill(ctx)
		fmt.Printf("Recorded %d prices\n", n)
		if err != nil {
			// partial results are still worth a rebuild
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		s, err := a.tracker.Rebuild(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d prices still missing\n", s.Gaps.Len())
		printLatest(ctx, s)
		return nil
	})
}

// --- Migrate Prices Command ---

type migratePricesCmd struct {
	output string
}

func (*migratePricesCmd) Name() string { return "migrate-prices" }
func (*migratePricesCmd) Synopsis() string {
	return "copy the JSON price files into the SQLite price store"
}
func (*migratePricesCmd) Usage() string {
	return `tcg migrate-prices [-o <db>]

  Copies every product history of the JSON price files into a SQLite database.
  Set data.backend to sqlite afterwards to use it.
`
}

func (c *migratePricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "SQLite database, defaults to data.sqlite_path")
}

func (c *migratePricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := migratePrices(cfg, c.output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func migratePrices(cfg *config.Config, output string) error {
	if output == "" {
		output = cfg.Data.SQLitePath
	}
	db, err := pricedb.Open(cfg.Path(output))
	if err != nil {
		return err
	}
	defer db.Close()
	products, points, err := db.Import(tracker.NewFileStore(cfg.Path(cfg.Data.Prices)))
	fmt.Printf("Imported %d prices of %d products into %s\n", points, products, cfg.Path(output))
	return err
}
