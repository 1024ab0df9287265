package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
)

// OwnedRanges returns, for each product, the ranges of consecutive days of the
// timeline on which it was held.
func OwnedRanges(tl *Timeline) map[ProductKey][]Range {
	owned := make(map[ProductKey][]Range)
	for _, state := range tl.Days {
		for k := range state.Quantities {
			ranges := owned[k]
			if n := len(ranges); n > 0 && ranges[n-1].To.Add(1) == state.Date {
				ranges[n-1].To = state.Date
				continue
			}
			owned[k] = append(ranges, Range{From: state.Date, To: state.Date})
		}
	}
	return owned
}

// PriceGaps lists, per product, the days it was held without a price fetched
// for that very day. Those days are valued by carry-forward or not at all.
type PriceGaps map[ProductKey][]Date

// FindPriceGaps compares owned days with the price store. A product whose
// history cannot be read has a gap on every owned day.
func FindPriceGaps(tl *Timeline, store PriceStore) PriceGaps {
	prices := newPriceCache(store)
	gaps := make(PriceGaps)
	for k, ranges := range OwnedRanges(tl) {
		h, _ := prices.history(k)
		for _, r := range ranges {
			for day := range r.Days() {
				if _, ok := h.Get(day); !ok {
					gaps[k] = append(gaps[k], day)
				}
			}
		}
	}
	return gaps
}

// Len returns the total number of missing product days.
func (g PriceGaps) Len() (n int) {
	for _, days := range g {
		n += len(days)
	}
	return n
}

// Products returns the products having gaps, sorted.
func (g PriceGaps) Products() []ProductKey {
	return slices.SortedFunc(maps.Keys(g), ProductKey.Compare)
}

// ByDay regroups the gaps per day, the shape price archives are fetched in.
func (g PriceGaps) ByDay() map[Date][]ProductKey {
	byDay := make(map[Date][]ProductKey)
	for _, k := range g.Products() {
		for _, day := range g[k] {
			byDay[day] = append(byDay[day], k)
		}
	}
	return byDay
}

// Only returns the gaps of the given products.
func (g PriceGaps) Only(products ...ProductKey) PriceGaps {
	sub := make(PriceGaps)
	for _, k := range products {
		if days, ok := g[k]; ok {
			sub[k] = days
		}
	}
	return sub
}

// EncodePriceGaps writes the gaps as a JSON object keyed by
// "category/group/product", products without gaps are omitted.
func EncodePriceGaps(w io.Writer, g PriceGaps) error {
	out := make(map[ProductKey][]Date, len(g))
	for k, days := range g {
		if len(days) > 0 {
			out[k] = days
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode price gaps: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// SavePriceGaps atomically rewrites the gaps report.
func SavePriceGaps(path string, g PriceGaps) error {
	return writeWith(path, func(w io.Writer) error { return EncodePriceGaps(w, g) })
}
