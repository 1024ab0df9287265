package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/etnz/tcgtracker/logger"
)

// Summary is the result of a rebuild.
type Summary struct {
	Timeline *Timeline
	Rows     []DailySummaryRow
	Warnings []DataQualityWarning
	Gaps     PriceGaps
}

// Latest returns the last row, the valuation of the end day.
func (s *Summary) Latest() (DailySummaryRow, bool) {
	if len(s.Rows) == 0 {
		return DailySummaryRow{}, false
	}
	return s.Rows[len(s.Rows)-1], true
}

// Rebuild derives the daily summary over r from the ledger and the price
// store.
//
// Every product referenced by the ledger must be in the catalog, and the
// replay must never make a quantity negative. Missing prices only produce
// warnings, they are logged through the context logger.
func Rebuild(ctx context.Context, ledger *Ledger, catalog *Catalog, store PriceStore, r Range, method CostBasisMethod) (*Summary, error) {
	log := logger.FromContext(ctx)
	txs := ledger.Transactions()
	if catalog != nil {
		if err := catalog.Check(txs); err != nil {
			return nil, err
		}
	}
	tl, err := BuildTimeline(txs, r, method)
	if err != nil {
		return nil, err
	}
	rows, warnings := Value(tl, store)
	for _, w := range warnings {
		log.Warn().Stringer("product", w.Product).Stringer("from", w.From).Stringer("to", w.To).
			Int("days", w.Days).AnErr("cause", w.Cause).Msg("product valued at zero, no price known")
	}
	log.Debug().Stringer("range", r).Int("transactions", len(txs)).Int("warnings", len(warnings)).Msg("summary rebuilt")
	return &Summary{
		Timeline: tl,
		Rows:     rows,
		Warnings: warnings,
		Gaps:     FindPriceGaps(tl, store),
	}, nil
}

type summaryEntry struct {
	TotalValue Money `json:"total_value"`
	CostBasis  Money `json:"cost_basis"`
}

// EncodeSummary writes rows as a JSON object keyed by date. Amounts have two
// decimals, keys are sorted, so that the same rows always give the same bytes.
func EncodeSummary(w io.Writer, rows []DailySummaryRow) error {
	entries := make(map[Date]summaryEntry, len(rows))
	for _, r := range rows {
		entries[r.Date] = summaryEntry{TotalValue: r.TotalValue.Round(), CostBasis: r.CostBasis.Round()}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode summary: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// DecodeSummary reads rows written by EncodeSummary, in chronological order.
func DecodeSummary(r io.Reader) ([]DailySummaryRow, error) {
	var entries map[Date]summaryEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("cannot decode summary: %w", err)
	}
	rows := make([]DailySummaryRow, 0, len(entries))
	for _, day := range slices.SortedFunc(maps.Keys(entries), Date.Compare) {
		e := entries[day]
		rows = append(rows, DailySummaryRow{Date: day, TotalValue: e.TotalValue, CostBasis: e.CostBasis})
	}
	return rows, nil
}

// SaveSummary atomically replaces the summary file. A reader never sees a
// partial file, and a failure leaves the previous summary in place.
func SaveSummary(path string, rows []DailySummaryRow) error {
	return writeWith(path, func(w io.Writer) error { return EncodeSummary(w, rows) })
}

// LoadSummary reads the summary file. A missing file has no rows.
func LoadSummary(path string) ([]DailySummaryRow, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSummary(f)
}
