package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/logger"
	"github.com/google/subcommands"
)

// headerFlags are the flags common to every transaction.
type headerFlags struct {
	received  string
	purchased string
	place     string
	method    string
	notes     string
}

func (h *headerFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&h.received, "d", "", "Date the items were received (YYYY-MM-DD), defaults to today")
	f.StringVar(&h.purchased, "purchased", "", "Date of the purchase (YYYY-MM-DD), informational")
	f.StringVar(&h.place, "place", "", "Where the transaction happened")
	f.StringVar(&h.method, "method", "", "Payment or shipping method")
	f.StringVar(&h.notes, "m", "", "An optional note for the transaction")
}

// apply fills the header of tx, today is the default received date.
func (h *headerFlags) apply(tx tracker.Transaction, today tracker.Date) error {
	head := header(tx)
	head.Received = today
	if h.received != "" {
		d, err := tracker.ParseDate(h.received)
		if err != nil {
			return fmt.Errorf("invalid -d: %w", err)
		}
		head.Received = d
	}
	if h.purchased != "" {
		d, err := tracker.ParseDate(h.purchased)
		if err != nil {
			return fmt.Errorf("invalid -purchased: %w", err)
		}
		head.Purchased = d
	}
	head.Place, head.Method, head.Notes = h.place, h.method, h.notes
	return nil
}

func header(tx tracker.Transaction) *tracker.Header {
	switch v := tx.(type) {
	case *tracker.Buy:
		return &v.Header
	case *tracker.Sell:
		return &v.Header
	case *tracker.Open:
		return &v.Header
	case *tracker.Trade:
		return &v.Header
	}
	panic(fmt.Sprintf("unknown transaction %T", tx))
}

// addTransaction adds tx to the ledger and reports the new summary.
func addTransaction(ctx context.Context, h *headerFlags, tx tracker.Transaction) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		if err := h.apply(tx, a.tracker.Today()); err != nil {
			return err
		}
		s, err := a.tracker.Add(ctx, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s transaction %s\n", tx.What(), tx.Identifier())
		printLatest(ctx, s)
		return nil
	})
}

// printLatest prints the last day of the summary.
func printLatest(ctx context.Context, s *tracker.Summary) {
	latest, ok := s.Latest()
	if !ok {
		return
	}
	fmt.Printf("%s: value %s, cost basis %s\n", latest.Date, latest.TotalValue, latest.CostBasis)
	if len(s.Warnings) > 0 {
		log := logger.FromContext(ctx)
		log.Warn().Int("products", len(s.Warnings)).Msg("some held days have no price, see 'tcg gaps'")
	}
}

// --- Buy Command ---

type buyCmd struct {
	headerFlags
	items  itemList
	amount moneyFlag
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of cards or sealed products" }
func (*buyCmd) Usage() string {
	return `tcg buy -i <item> [-i <item>...] [-amount <total>] [-d <date>] [-m <note>]

  Records a purchase. An item is written [CAT/]GROUP/PRODUCT:QTY[@PRICE][=NAME],
  for instance 23237/501264:2@49.99=Elite Trainer Box. The optional -amount is
  the total paid, fees included; it is spread over the items.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.headerFlags.SetFlags(f)
	f.Var(&c.items, "i", "Item bought, repeatable")
	f.Var(&c.amount, "amount", "Total paid, fees included")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.items) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return addTransaction(ctx, &c.headerFlags, tracker.NewBuy(tracker.Date{}, c.items, c.amount.value))
}

// --- Sell Command ---

type sellCmd struct {
	headerFlags
	items  itemList
	amount moneyFlag
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale" }
func (*sellCmd) Usage() string {
	return `tcg sell -i <item> [-i <item>...] [-amount <total>] [-d <date>] [-m <note>]

  Records a sale. The proceeds are -amount, or the sum of the item prices.
  Selling more than held is rejected.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.headerFlags.SetFlags(f)
	f.Var(&c.items, "i", "Item sold, repeatable")
	f.Var(&c.amount, "amount", "Total received")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.items) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return addTransaction(ctx, &c.headerFlags, tracker.NewSell(tracker.Date{}, c.items, c.amount.value))
}

// --- Open Command ---

type openCmd struct {
	headerFlags
	opened   itemList
	contents itemList
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "record sealed products being opened" }
func (*openCmd) Usage() string {
	return `tcg open [-o <item>...] [-i <item>...] [-d <date>] [-m <note>]

  Records opened sealed products (-o) and the pulled contents (-i). The cost
  of the opened products is carried over to the contents, in proportion of
  their declared prices.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	c.headerFlags.SetFlags(f)
	f.Var(&c.opened, "o", "Sealed product opened, repeatable")
	f.Var(&c.contents, "i", "Content pulled, repeatable")
}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.opened) == 0 && len(c.contents) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return addTransaction(ctx, &c.headerFlags, tracker.NewOpen(tracker.Date{}, c.opened, c.contents))
}

// --- Trade Command ---

type tradeCmd struct {
	headerFlags
	out         itemList
	in          itemList
	costBasisIn moneyFlag
}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "record an exchange of items" }
func (*tradeCmd) Usage() string {
	return `tcg trade -out <item>... -in <item>... [-cost-basis-in <amount>] [-d <date>]

  Records items given away (-out) for items received (-in). The cost basis of
  the given items is carried over, unless -cost-basis-in sets it.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	c.headerFlags.SetFlags(f)
	f.Var(&c.out, "out", "Item given, repeatable")
	f.Var(&c.in, "in", "Item received, repeatable")
	f.Var(&c.costBasisIn, "cost-basis-in", "Cost basis of the received items")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.out) == 0 || len(c.in) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	tx := tracker.NewTrade(tracker.Date{}, c.out, c.in)
	if c.costBasisIn.set {
		v := c.costBasisIn.value
		tx.CostBasisIn = &v
	}
	return addTransaction(ctx, &c.headerFlags, tx)
}

// --- Edit Command ---

type editCmd struct {
	id   string
	file string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "replace a transaction" }
func (*editCmd) Usage() string {
	return `tcg edit -id <id> [-f <file>]

  Replaces the transaction <id> by the JSON transaction read from <file> (or
  stdin). The id and the position in the ledger are kept.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the transaction to replace")
	f.StringVar(&c.file, "f", "-", "JSON file of the new transaction, - for stdin")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var data []byte
	var err error
	if c.file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.file)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	tx, err := tracker.DecodeTransaction(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		s, err := a.tracker.Edit(ctx, c.id, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Replaced transaction %s\n", c.id)
		printLatest(ctx, s)
		return nil
	})
}

// --- Remove Command ---

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions" }
func (*rmCmd) Usage() string {
	return `tcg rm <id>...

  Deletes transactions. A deletion that leaves a later sale uncovered is
  rejected.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		var s *tracker.Summary
		for _, id := range f.Args() {
			tx, summary, err := a.tracker.Delete(ctx, id)
			if err != nil {
				return err
			}
			s = summary
			fmt.Printf("Deleted %s transaction %s of %s\n", tx.What(), tx.Identifier(), tx.When())
		}
		printLatest(ctx, s)
		return nil
	})
}
