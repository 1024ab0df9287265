package tracker

import "slices"

// PricePoint is the market price of a product on a day.
type PricePoint struct {
	Product ProductKey
	Date    Date
	Price   Money
}

// PriceStore gives access to the sparse price history of each product.
//
// The valuation only reads through this interface, the file and the sqlite
// backends both implement it.
type PriceStore interface {
	// History returns the price history of a product. A product never priced
	// has an empty history. A history that cannot be read is reported as a
	// *StoreAccessError.
	History(k ProductKey) (*PriceHistory, error)
	// Upsert records points, overwriting the price of days already known.
	Upsert(points ...PricePoint) error
	// Products lists the products with at least one price.
	Products() ([]ProductKey, error)
}

// PriceOn returns the price of a product on that exact day.
func PriceOn(s PriceStore, k ProductKey, day Date) (Money, bool, error) {
	h, err := s.History(k)
	if err != nil {
		return Money{}, false, err
	}
	p, ok := h.Get(day)
	return p, ok, nil
}

// PriceAsOf returns the price of a product on day, or the most recent one before
// it, with the day the price was recorded on.
func PriceAsOf(s PriceStore, k ProductKey, day Date) (price Money, on Date, ok bool, err error) {
	h, err := s.History(k)
	if err != nil {
		return Money{}, Date{}, false, err
	}
	price, on, ok = h.ValueAsOf(day)
	return price, on, ok, nil
}

// groupPoints splits points per product, keeping their order.
func groupPoints(points []PricePoint) (map[ProductKey][]PricePoint, []ProductKey) {
	byKey := make(map[ProductKey][]PricePoint)
	var keys []ProductKey
	for _, p := range points {
		if _, ok := byKey[p.Product]; !ok {
			keys = append(keys, p.Product)
		}
		byKey[p.Product] = append(byKey[p.Product], p)
	}
	slices.SortFunc(keys, ProductKey.Compare)
	return byKey, keys
}

// priceCache memoizes histories for the duration of one valuation.
type priceCache struct {
	store   PriceStore
	entries map[ProductKey]cachedHistory
}

type cachedHistory struct {
	h   *PriceHistory
	err error
}

func newPriceCache(s PriceStore) *priceCache {
	return &priceCache{store: s, entries: make(map[ProductKey]cachedHistory)}
}

func (c *priceCache) history(k ProductKey) (*PriceHistory, error) {
	if e, ok := c.entries[k]; ok {
		return e.h, e.err
	}
	h, err := c.store.History(k)
	if h == nil {
		h = new(PriceHistory)
	}
	c.entries[k] = cachedHistory{h, err}
	return h, err
}
