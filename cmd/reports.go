package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/renderer"
	"github.com/google/subcommands"
)

// --- Tx Command ---

type txCmd struct {
	start string
	end   string
	head  int
	tail  int
	json  bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the ledger" }
func (*txCmd) Usage() string {
	return `tcg tx [-s <start_date>] [-e <end_date>] [-head <n>] [-tail <n>] [-json]

  Lists transactions by received date, with options for filtering and limiting the output.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "First received date to list")
	f.StringVar(&c.end, "e", "", "Last received date to list")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
	f.BoolVar(&c.json, "json", false, "Print the transactions as JSON")
}

// filter selects the transactions received in [start, end], then applies
// head and tail.
func (c *txCmd) filter(txs []tracker.Transaction) ([]tracker.Transaction, error) {
	var from, to tracker.Date
	var err error
	if c.start != "" {
		if from, err = tracker.ParseDate(c.start); err != nil {
			return nil, err
		}
	}
	if c.end != "" {
		if to, err = tracker.ParseDate(c.end); err != nil {
			return nil, err
		}
	}
	var selected []tracker.Transaction
	for _, tx := range txs {
		if !from.IsZero() && tx.When().Before(from) {
			continue
		}
		if !to.IsZero() && tx.When().After(to) {
			continue
		}
		selected = append(selected, tx)
	}
	if c.head > 0 && len(selected) > c.head {
		selected = selected[:c.head]
	}
	if c.tail > 0 && len(selected) > c.tail {
		selected = selected[len(selected)-c.tail:]
	}
	return selected, nil
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		txs, err := c.filter(a.tracker.Ledger().Chronological())
		if err != nil {
			return err
		}
		if c.json {
			if txs == nil {
				txs = []tracker.Transaction{}
			}
			data, err := json.MarshalIndent(txs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		printMarkdown(renderer.TransactionsMarkdown(txs, a.tracker.Catalog()))
		return nil
	})
}

// --- Summary Command ---

type summaryCmd struct {
	days         int
	skipWarnings bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the value and cost basis of the collection" }
func (*summaryCmd) Usage() string {
	return `tcg summary [-n <days>] [-no-warnings]

  Computes the daily summary from the start date to today without writing it.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "n", 14, "Number of recent days to list, 0 for all")
	f.BoolVar(&c.skipWarnings, "no-warnings", false, "Do not list the days without a price")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		s, err := a.tracker.Summarize(ctx)
		if err != nil {
			return err
		}
		printMarkdown(renderer.SummaryMarkdown(s, a.tracker.Catalog(), renderer.SummaryOptions{Days: c.days, SkipWarnings: c.skipWarnings}))
		return nil
	})
}

// --- Holding Command ---

type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holdings" }
func (*holdingCmd) Synopsis() string { return "display the products held today" }
func (*holdingCmd) Usage() string {
	return `tcg holdings

  Lists the products held today with their latest price, value and cost basis,
  largest value first.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		s, err := a.tracker.Summarize(ctx)
		if err != nil {
			return err
		}
		printMarkdown(renderer.HoldingsMarkdown(a.tracker.Holdings(s), a.tracker.Catalog()))
		return nil
	})
}

// --- Gaps Command ---

type gapsCmd struct{}

func (*gapsCmd) Name() string     { return "gaps" }
func (*gapsCmd) Synopsis() string { return "list the owned days without a price" }
func (*gapsCmd) Usage() string {
	return `tcg gaps

  Lists, per product, the days it was held and no price was recorded. Those
  days are valued with the previous known price, or zero.
`
}

func (c *gapsCmd) SetFlags(f *flag.FlagSet) {}

func (c *gapsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		s, err := a.tracker.Summarize(ctx)
		if err != nil {
			return err
		}
		printMarkdown(renderer.GapsMarkdown(s.Gaps, a.tracker.Catalog()))
		return nil
	})
}

// --- Rebuild Command ---

type rebuildCmd struct{}

func (*rebuildCmd) Name() string     { return "rebuild" }
func (*rebuildCmd) Synopsis() string { return "recompute and save the daily summary" }
func (*rebuildCmd) Usage() string {
	return `tcg rebuild

  Replays the whole ledger, values every day and saves the daily summary and
  the price gaps report. Nothing is written when the ledger is inconsistent.
`
}

func (c *rebuildCmd) SetFlags(f *flag.FlagSet) {}

func (c *rebuildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		s, err := a.tracker.Rebuild(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d days to %s\n", len(s.Rows), a.cfg.Path(a.cfg.Data.Summary))
		printLatest(ctx, s)
		return nil
	})
}
