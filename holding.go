package tracker

import "slices"

// HoldingReport is the detail of the collection on a given day.
type HoldingReport struct {
	Date       Date
	Holdings   []Holding
	TotalValue Money
	CostBasis  Money // includes the cost of opened products without tracked contents
	Realized   Money
}

// Holding is the position in a single product.
type Holding struct {
	Product   ProductKey
	Name      string
	ImageURL  string
	URL       string
	Quantity  Quantity
	Price     Money // market price used for the valuation
	PriceDate Date  // day the price was fetched for, zero when unknown
	Value     Money
	CostBasis Money
}

// Gain returns the unrealized gain of the position.
func (h Holding) Gain() Money { return h.Value.Sub(h.CostBasis) }

// NewHoldingReport details state, products sorted by value, largest first.
func NewHoldingReport(state InventoryState, store PriceStore, catalog *Catalog) *HoldingReport {
	prices := newPriceCache(store)
	report := &HoldingReport{
		Date:      state.Date,
		CostBasis: state.CostBasis,
		Realized:  state.Realized,
	}
	for _, k := range state.Products() {
		h := Holding{
			Product:   k,
			Name:      k.String(),
			Quantity:  state.Quantities[k],
			CostBasis: state.Costs[k],
		}
		if catalog != nil {
			if p, ok := catalog.Lookup(k.Group, k.Product); ok {
				h.Name, h.ImageURL, h.URL = p.Name, p.ImageURL, p.URL
			}
		}
		if ph, err := prices.history(k); err == nil {
			if price, on, ok := ph.ValueAsOf(state.Date); ok {
				h.Price, h.PriceDate = price, on
				h.Value = price.Mul(h.Quantity)
			}
		}
		report.TotalValue = report.TotalValue.Add(h.Value)
		report.Holdings = append(report.Holdings, h)
	}
	slices.SortStableFunc(report.Holdings, func(a, b Holding) int {
		return b.Value.Decimal().Cmp(a.Value.Decimal())
	})
	return report
}
