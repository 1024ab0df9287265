package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/tcgtracker/date"
	"github.com/etnz/tcgtracker/logger"
)

// PriceFetcher retrieves market prices and records them in a PriceStore.
type PriceFetcher interface {
	// Fetch retrieves the price of the listed products on each day and
	// returns the number of prices recorded.
	Fetch(ctx context.Context, wanted map[Date][]ProductKey) (int, error)
}

// Options configures a Tracker.
type Options struct {
	Start           Date           // first day of the summary, defaults to the oldest transaction
	Location        *time.Location // defines "today", defaults to time.Local
	Method          CostBasisMethod
	DefaultCategory ID

	TransactionsPath string
	CatalogPath      string
	SummaryPath      string
	GapsPath         string // optional

	Prices  PriceStore
	Fetcher PriceFetcher // optional, no prices are fetched without it

	Now func() time.Time // defaults to time.Now
}

// Tracker ties the transaction log, the catalog and the price store together.
// It is meant for a single editor: nothing is locked.
type Tracker struct {
	opts    Options
	ledger  *Ledger
	catalog *Catalog
}

// Load opens a tracker: it loads the ledger and the catalog.
func Load(opts Options) (*Tracker, error) {
	if opts.Prices == nil {
		return nil, errors.New("a price store is required")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ledger, err := LoadLedger(opts.TransactionsPath, opts.DefaultCategory)
	if err != nil {
		return nil, err
	}
	catalog, err := LoadCatalog(opts.CatalogPath, opts.DefaultCategory)
	if err != nil {
		return nil, err
	}
	return &Tracker{opts: opts, ledger: ledger, catalog: catalog}, nil
}

// Ledger returns the transaction log.
func (t *Tracker) Ledger() *Ledger { return t.ledger }

// Catalog returns the product catalog.
func (t *Tracker) Catalog() *Catalog { return t.catalog }

// Prices returns the price store.
func (t *Tracker) Prices() PriceStore { return t.opts.Prices }

// Today returns the current day in the configured timezone.
func (t *Tracker) Today() Date { return date.On(t.opts.Now(), t.opts.Location) }

// Range returns the days of the summary: from the start date to today. It is
// empty when the start date is in the future.
func (t *Tracker) Range() Range {
	start := t.opts.Start
	if start.IsZero() {
		start = t.ledger.Oldest()
	}
	if start.IsZero() {
		start = t.Today()
	}
	return Range{From: start, To: t.Today()}
}

// check validates tx on its own.
func (t *Tracker) check(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if today := t.Today(); tx.When().After(today) {
		return &ValidationError{TxID: tx.Identifier(), Field: "date_received", Reason: fmt.Sprintf("%s is after today %s", tx.When(), today)}
	}
	DefaultCategory(tx, t.opts.DefaultCategory)
	return nil
}

// commit replaces the ledger by candidate once the inventory is checked, saves
// it along with new catalog entries, then fetches prices for tx and rebuilds
// the summary. The tracker keeps its ledger and catalog unless both files were
// saved.
func (t *Tracker) commit(ctx context.Context, candidate *Ledger, tx Transaction) (*Summary, error) {
	log := logger.FromContext(ctx)
	if err := CheckInventory(candidate.Transactions(), t.opts.Method); err != nil {
		return nil, err
	}
	catalog := t.catalog
	var added []Product
	if tx != nil {
		catalog = t.catalog.Clone()
		if added = catalog.Ensure(tx); len(added) > 0 {
			if err := SaveCatalog(t.opts.CatalogPath, catalog); err != nil {
				return nil, err
			}
		}
	}
	if err := SaveLedger(t.opts.TransactionsPath, candidate); err != nil {
		return nil, err
	}
	t.ledger, t.catalog = candidate, catalog
	for _, p := range added {
		log.Info().Stringer("product", p.Key()).Str("name", p.Name).Msg("new product in catalog")
	}

	if tx != nil {
		var products []ProductKey
		for _, item := range tx.Lines() {
			products = append(products, item.Key())
		}
		if _, err := t.fetch(ctx, products...); err != nil {
			log.Warn().Err(err).Str("tx", tx.Identifier()).Msg("cannot fetch prices")
		}
	}
	return t.Rebuild(ctx)
}

// Add validates tx, gives it an id and appends it to the ledger.
func (t *Tracker) Add(ctx context.Context, tx Transaction) (*Summary, error) {
	if err := t.check(tx); err != nil {
		return nil, err
	}
	candidate := t.ledger.Clone()
	if err := candidate.Append(tx); err != nil {
		return nil, err
	}
	return t.commit(ctx, candidate, tx)
}

// Edit replaces the transaction id by tx, which keeps the id and the position
// in the ledger.
func (t *Tracker) Edit(ctx context.Context, id string, tx Transaction) (*Summary, error) {
	if _, ok := t.ledger.Get(id); !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	tx.head().ID = id
	if err := t.check(tx); err != nil {
		return nil, err
	}
	candidate := t.ledger.Clone()
	if err := candidate.Replace(id, tx); err != nil {
		return nil, err
	}
	return t.commit(ctx, candidate, tx)
}

// Delete removes the transaction id. It fails if the remaining transactions
// are not consistent without it.
func (t *Tracker) Delete(ctx context.Context, id string) (Transaction, *Summary, error) {
	candidate := t.ledger.Clone()
	tx, err := candidate.Delete(id)
	if err != nil {
		return nil, nil, err
	}
	s, err := t.commit(ctx, candidate, nil)
	if err != nil {
		return nil, nil, err
	}
	return tx, s, nil
}

// Summarize computes the summary without writing anything.
func (t *Tracker) Summarize(ctx context.Context) (*Summary, error) {
	return Rebuild(ctx, t.ledger, t.catalog, t.opts.Prices, t.Range(), t.opts.Method)
}

// Rebuild computes the summary and saves it, with the price gaps report when
// configured. Nothing is written if the computation fails.
func (t *Tracker) Rebuild(ctx context.Context) (*Summary, error) {
	s, err := t.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	if err := SaveSummary(t.opts.SummaryPath, s.Rows); err != nil {
		return nil, err
	}
	if t.opts.GapsPath != "" {
		if err := SavePriceGaps(t.opts.GapsPath, s.Gaps); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Holdings details the collection on the last day of the summary.
func (t *Tracker) Holdings(s *Summary) *HoldingReport {
	state, ok := s.Timeline.Last()
	if !ok {
		return &HoldingReport{Date: t.Today()}
	}
	return NewHoldingReport(state, t.opts.Prices, t.catalog)
}

// fetch retrieves the missing prices of products, all of them when none is
// given.
func (t *Tracker) fetch(ctx context.Context, products ...ProductKey) (int, error) {
	if t.opts.Fetcher == nil {
		return 0, nil
	}
	s, err := t.Summarize(ctx)
	if err != nil {
		return 0, err
	}
	gaps := s.Gaps
	if len(products) > 0 {
		gaps = gaps.Only(products...)
	}
	if gaps.Len() == 0 {
		return 0, nil
	}
	return t.opts.Fetcher.Fetch(ctx, gaps.ByDay())
}

// Backfill fetches every missing price of the owned days.
func (t *Tracker) Backfill(ctx context.Context) (int, error) { return t.fetch(ctx) }

// FetchToday fetches today's price of every product held today.
func (t *Tracker) FetchToday(ctx context.Context) (int, error) {
	if t.opts.Fetcher == nil {
		return 0, errors.New("no price fetcher configured")
	}
	s, err := t.Summarize(ctx)
	if err != nil {
		return 0, err
	}
	state, ok := s.Timeline.Last()
	if !ok || len(state.Quantities) == 0 {
		return 0, nil
	}
	return t.opts.Fetcher.Fetch(ctx, map[Date][]ProductKey{state.Date: state.Products()})
}
