package renderer

import (
	"bytes"
	"fmt"

	tracker "github.com/etnz/tcgtracker"
	md "github.com/nao1215/markdown"
)

// GapsMarkdown lists the owned days without a recorded price, per product.
func GapsMarkdown(gaps tracker.PriceGaps, catalog *tracker.Catalog) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Price Gaps")
	if gaps.Len() == 0 {
		doc.PlainText("Every owned day has a price.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Product", "Days", "First", "Last"},
	}
	for _, k := range gaps.Products() {
		days := gaps[k]
		if len(days) == 0 {
			continue
		}
		table.Rows = append(table.Rows, []string{
			productCell(catalog, k),
			fmt.Sprint(len(days)),
			days[0].String(),
			days[len(days)-1].String(),
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d missing prices over %d products.", gaps.Len(), len(gaps.Products())))
	return doc.String()
}
