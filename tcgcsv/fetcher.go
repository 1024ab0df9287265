package tcgcsv

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/logger"
	"golang.org/x/sync/errgroup"
)

// Source provides the price archive of a day.
type Source interface {
	Open(ctx context.Context, day tracker.Date) (*Archive, error)
}

// Fetcher retrieves prices from a Source into a PriceStore. Days are fetched
// in parallel, writes to the store are serialized.
type Fetcher struct {
	source      Source
	store       tracker.PriceStore
	parallelism int

	mu sync.Mutex // guards store writes
}

// NewFetcher creates a fetcher running at most parallelism downloads at once.
func NewFetcher(source Source, store tracker.PriceStore, parallelism int) *Fetcher {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Fetcher{source: source, store: store, parallelism: parallelism}
}

// Fetch retrieves the price of the listed products on each day. Days without
// archive are skipped. A day failing does not stop the others, all the
// failures are returned together.
func (f *Fetcher) Fetch(ctx context.Context, wanted map[tracker.Date][]tracker.ProductKey) (int, error) {
	log := logger.FromContext(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.parallelism)

	var (
		mu     sync.Mutex
		total  int
		failed []error
	)
	for _, day := range slices.SortedFunc(maps.Keys(wanted), tracker.Date.Compare) {
		keys := wanted[day]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := f.fetchDay(ctx, day, keys)
			switch {
			case errors.Is(err, ErrNoData):
				log.Info().Stringer("day", day).Msg("no price archive")
				return nil
			case errors.Is(err, context.Canceled):
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			total += n
			if err != nil {
				failed = append(failed, fmt.Errorf("%s: %w", day, err))
				log.Warn().Err(err).Stringer("day", day).Msg("cannot fetch prices")
				return nil
			}
			log.Info().Stringer("day", day).Int("prices", n).Int("products", len(keys)).Msg("prices fetched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, errors.Join(failed...)
}

// fetchDay reads the prices of keys in the archive of day and stores them.
func (f *Fetcher) fetchDay(ctx context.Context, day tracker.Date, keys []tracker.ProductKey) (int, error) {
	archive, err := f.source.Open(ctx, day)
	if err != nil {
		return 0, err
	}
	defer archive.Close()

	type group struct{ category, group tracker.ID }
	byGroup := make(map[group][]tracker.ProductKey)
	for _, k := range keys {
		g := group{k.Category, k.Group}
		byGroup[g] = append(byGroup[g], k)
	}

	var points []tracker.PricePoint
	var errs []error
	for g, products := range byGroup {
		prices, err := archive.Prices(g.category, g.group)
		if err != nil {
			// one unreadable group does not spoil the others.
			errs = append(errs, err)
			continue
		}
		for _, k := range products {
			if p, ok := prices[k.Product]; ok {
				points = append(points, tracker.PricePoint{Product: k, Date: day, Price: p})
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.store.Upsert(points...); err != nil {
		return 0, err
	}
	return len(points), errors.Join(errs...)
}

var _ tracker.PriceFetcher = (*Fetcher)(nil)
var _ Source = (*Client)(nil)
