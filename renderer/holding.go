package renderer

import (
	"bytes"
	"fmt"

	tracker "github.com/etnz/tcgtracker"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders the positions held on the report day.
func HoldingsMarkdown(r *tracker.HoldingReport, catalog *tracker.Catalog) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Holdings on %s", r.Date))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Market Value"), md.Bold(r.TotalValue.String())},
		Rows: [][]string{
			{"Cost Basis", r.CostBasis.String()},
			{"Unrealized Gain", r.TotalValue.Sub(r.CostBasis).SignedString()},
			{"Realized Gain", r.Realized.SignedString()},
		},
	})

	if len(r.Holdings) == 0 {
		doc.PlainText("Nothing held.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Product", "Quantity", "Price", "Priced On", "Value", "Cost Basis", "Gain"},
	}
	for _, h := range r.Holdings {
		priced := "-"
		if !h.PriceDate.IsZero() {
			priced = h.PriceDate.String()
		}
		name := h.Name
		if h.URL != "" {
			name = md.Link(h.Name, h.URL)
		}
		table.Rows = append(table.Rows, []string{
			name,
			h.Quantity.String(),
			h.Price.String(),
			priced,
			h.Value.String(),
			h.CostBasis.String(),
			h.Gain().SignedString(),
		})
	}
	doc.H2("Products")
	doc.Table(table)
	return doc.String()
}
