package renderer

import (
	"bytes"
	"fmt"
	"io"

	tracker "github.com/etnz/tcgtracker"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the daily summary, most recent day first.
func SummaryMarkdown(s *tracker.Summary, catalog *tracker.Catalog, opts SummaryOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	latest, ok := s.Latest()
	if !ok {
		doc.H1("Collection Summary")
		doc.PlainText("No day to summarize.")
		return doc.String()
	}

	doc.H1(fmt.Sprintf("Collection Summary on %s", latest.Date))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Market Value"), md.Bold(latest.TotalValue.String())},
		Rows: [][]string{
			{"Cost Basis", latest.CostBasis.String()},
			{"Unrealized Gain", latest.Gain().SignedString()},
			{"Return", percent(latest.Gain(), latest.CostBasis)},
		},
	})

	rows := s.Rows
	if opts.Days > 0 && len(rows) > opts.Days {
		rows = rows[len(rows)-opts.Days:]
	}
	doc.H2("Daily Values")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Market Value", "Cost Basis", "Gain"},
	}
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			r.TotalValue.String(),
			r.CostBasis.String(),
			r.Gain().SignedString(),
		})
	}
	doc.Table(table)

	out := doc.String()
	if !opts.SkipWarnings {
		var b bytes.Buffer
		b.WriteString(out)
		ConditionalBlock(&b, func(w io.Writer) bool {
			if len(s.Warnings) == 0 {
				return false
			}
			io.WriteString(w, "\n"+WarningsMarkdown(s.Warnings, catalog))
			return true
		})
		out = b.String()
	}
	return out
}

// WarningsMarkdown lists the days valued at zero for lack of a price.
func WarningsMarkdown(warnings []tracker.DataQualityWarning, catalog *tracker.Catalog) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Data Quality")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Product", "From", "To", "Days", "Cause"},
	}
	for _, w := range warnings {
		cause := "no price"
		if w.Cause != nil {
			cause = w.Cause.Error()
		}
		table.Rows = append(table.Rows, []string{
			productCell(catalog, w.Product),
			w.From.String(),
			w.To.String(),
			fmt.Sprint(w.Days),
			cause,
		})
	}
	doc.Table(table)
	return doc.String()
}
