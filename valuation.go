package tracker

import "slices"

// DailySummaryRow is the valuation of the collection on one day.
type DailySummaryRow struct {
	Date       Date
	TotalValue Money
	CostBasis  Money
}

// Gain returns the unrealized gain of the day.
func (r DailySummaryRow) Gain() Money { return r.TotalValue.Sub(r.CostBasis) }

// Value prices every day of the timeline.
//
// A product is valued at its price on the day, or at the most recent price
// before. A product without any such price counts for zero and is reported as
// a warning, as is a product whose history cannot be read.
func Value(tl *Timeline, store PriceStore) ([]DailySummaryRow, []DataQualityWarning) {
	prices := newPriceCache(store)
	var (
		rows     = make([]DailySummaryRow, 0, len(tl.Days))
		warnings []DataQualityWarning
		open     = make(map[ProductKey]*DataQualityWarning)
	)
	for _, state := range tl.Days {
		var total Money
		missing := make(map[ProductKey]bool)
		for _, k := range state.Products() {
			h, err := prices.history(k)
			price, _, ok := h.ValueAsOf(state.Date)
			if err == nil && ok {
				total = total.Add(price.Mul(state.Quantities[k]))
				continue
			}
			missing[k] = true
			if w, ok := open[k]; ok && w.To.Add(1) == state.Date {
				w.To = state.Date
				w.Days++
				continue
			}
			if w, ok := open[k]; ok {
				warnings = append(warnings, *w)
			}
			open[k] = &DataQualityWarning{Product: k, From: state.Date, To: state.Date, Days: 1, Cause: err}
		}
		for k, w := range open {
			if !missing[k] {
				warnings = append(warnings, *w)
				delete(open, k)
			}
		}
		rows = append(rows, DailySummaryRow{Date: state.Date, TotalValue: total, CostBasis: state.CostBasis})
	}
	for _, w := range open {
		warnings = append(warnings, *w)
	}
	sortWarnings(warnings)
	return rows, warnings
}

func sortWarnings(warnings []DataQualityWarning) {
	slices.SortFunc(warnings, func(a, b DataQualityWarning) int {
		if c := a.Product.Compare(b.Product); c != 0 {
			return c
		}
		return a.From.Compare(b.From)
	})
}
