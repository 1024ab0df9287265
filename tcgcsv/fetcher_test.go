package tcgcsv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	tracker "github.com/etnz/tcgtracker"
	"github.com/etnz/tcgtracker/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	etb   = tracker.ProductKey{Category: "3", Group: "23237", Product: "501264"}
	box   = tracker.ProductKey{Category: "3", Group: "23237", Product: "501257"}
	other = tracker.ProductKey{Category: "3", Group: "24000", Product: "600001"}
)

const groupPrices = `{"success": true, "results": [
	{"productId": 501264, "marketPrice": 52.1},
	{"productId": 501257, "marketPrice": 140}
]}`

// fakeSource serves archives from memory.
type fakeSource struct {
	mu       sync.Mutex
	archives map[date.Date]fstest.MapFS
	opened   []date.Date
}

func (s *fakeSource) Open(ctx context.Context, day date.Date) (*Archive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = append(s.opened, day)
	fsys, ok := s.archives[day]
	if !ok {
		return nil, ErrNoData
	}
	return NewArchive(day, fsys), nil
}

// memStore is a minimal PriceStore.
type memStore struct {
	points []tracker.PricePoint
}

func (s *memStore) History(k tracker.ProductKey) (*tracker.PriceHistory, error) {
	h := new(tracker.PriceHistory)
	for _, p := range s.points {
		if p.Product == k {
			h.Append(p.Date, p.Price)
		}
	}
	return h, nil
}

func (s *memStore) Upsert(points ...tracker.PricePoint) error {
	s.points = append(s.points, points...)
	return nil
}

func (s *memStore) Products() ([]tracker.ProductKey, error) { return nil, nil }

func TestArchive_Prices(t *testing.T) {
	day := date.New(2024, 1, 2)
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"flat", fstest.MapFS{"3/23237/prices": {Data: []byte(groupPrices)}}},
		{"nested in a day folder", fstest.MapFS{"2024-01-02/3/23237/prices": {Data: []byte(groupPrices)}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prices, err := NewArchive(day, tc.fsys).Prices("3", "23237")
			require.NoError(t, err)
			assert.True(t, prices["501264"].Equal(tracker.M(52.1)))
			assert.Len(t, prices, 2)
		})
	}

	prices, err := NewArchive(day, fstest.MapFS{}).Prices("3", "1")
	assert.NoError(t, err, "a missing group is not an error")
	assert.Empty(t, prices)

	failed := fstest.MapFS{"3/1/prices": {Data: []byte(`{"success": false, "errors": ["no prices"]}`)}}
	prices, err = NewArchive(day, failed).Prices("3", "1")
	assert.NoError(t, err, "a group without results has no prices")
	assert.Empty(t, prices)

	broken := fstest.MapFS{"3/1/prices": {Data: []byte(`{"success": tr`)}}
	_, err = NewArchive(day, broken).Prices("3", "1")
	assert.Error(t, err)
}

func TestFetcher_Fetch(t *testing.T) {
	d1, d2, d3 := date.New(2024, 1, 1), date.New(2024, 1, 2), date.New(2024, 1, 3)
	source := &fakeSource{archives: map[date.Date]fstest.MapFS{
		d1: {"3/23237/prices": {Data: []byte(groupPrices)}},
		d2: {
			"2024-01-02/3/23237/prices": {Data: []byte(groupPrices)},
			"2024-01-02/3/24000/prices": {Data: []byte(`{"results": "broken"`)},
		},
		// no archive for d3
	}}
	store := &memStore{}
	f := NewFetcher(source, store, 2)

	n, err := f.Fetch(context.Background(), map[date.Date][]tracker.ProductKey{
		d1: {etb, box},
		d2: {etb, other},
		d3: {etb},
	})

	// the broken group of d2 is reported, everything else is stored.
	require.Error(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, store.points, 3)
	assert.ElementsMatch(t, []date.Date{d1, d2, d3}, source.opened)

	price, on, ok, err := tracker.PriceAsOf(store, etb, d3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d2, on)
	assert.True(t, price.Equal(tracker.M(52.1)))
}

func TestFetcher_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := &fakeSource{}
	_, err := NewFetcher(source, &memStore{}, 1).Fetch(ctx, map[date.Date][]tracker.ProductKey{date.New(2024, 1, 1): {etb}})
	assert.True(t, errors.Is(err, context.Canceled), "err = %v", err)
	assert.Empty(t, source.opened)
}
