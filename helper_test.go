package tracker

import "github.com/etnz/tcgtracker/date"

// products used across tests, all in category 3.
var (
	boosterBox = ProductKey{Category: "3", Group: "23237", Product: "501257"}
	etb        = ProductKey{Category: "3", Group: "23237", Product: "501264"}
	charizard  = ProductKey{Category: "3", Group: "23237", Product: "517045"}
	pikachu    = ProductKey{Category: "3", Group: "23237", Product: "517046"}
)

// USD is a helper for test to create money from const
func USD(v float64) Money { return M(v) }

// day is a shortcut for date.MustParse.
func day(s string) Date { return date.MustParse(s) }

// item returns a line of qty units of k at unit price.
func item(k ProductKey, qty float64, price float64) Item {
	return Item{ProductID: k.Product, GroupID: k.Group, CategoryID: k.Category, Quantity: Q(qty), UnitPrice: M(price)}
}

// memStore is an in-memory PriceStore.
type memStore struct {
	histories map[ProductKey]*PriceHistory
	failing   map[ProductKey]error
}

func newMemStore() *memStore {
	return &memStore{histories: make(map[ProductKey]*PriceHistory), failing: make(map[ProductKey]error)}
}

func (s *memStore) History(k ProductKey) (*PriceHistory, error) {
	if err := s.failing[k]; err != nil {
		return nil, err
	}
	if h, ok := s.histories[k]; ok {
		return h, nil
	}
	return new(PriceHistory), nil
}

func (s *memStore) Upsert(points ...PricePoint) error {
	for _, p := range points {
		h, ok := s.histories[p.Product]
		if !ok {
			h = new(PriceHistory)
			s.histories[p.Product] = h
		}
		h.Append(p.Date, p.Price)
	}
	return nil
}

func (s *memStore) Products() ([]ProductKey, error) {
	var keys []ProductKey
	for k := range s.histories {
		keys = append(keys, k)
	}
	return keys, nil
}

// set records prices from "YYYY-MM-DD" keys.
func (s *memStore) set(k ProductKey, prices map[string]float64) *memStore {
	for d, p := range prices {
		s.Upsert(PricePoint{Product: k, Date: day(d), Price: M(p)})
	}
	return s
}
