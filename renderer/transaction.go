package renderer

import (
	"bytes"
	"fmt"
	"strings"

	tracker "github.com/etnz/tcgtracker"
	md "github.com/nao1215/markdown"
)

// items lists the items as "2 x Name", separated by commas.
func items(catalog *tracker.Catalog, list []tracker.Item) string {
	parts := make([]string, 0, len(list))
	for _, it := range list {
		name := it.Name
		if catalog != nil {
			name = catalog.Name(it.Key())
		}
		if name == "" {
			name = it.Key().String()
		}
		parts = append(parts, fmt.Sprintf("%s x %s", it.Quantity, name))
	}
	return strings.Join(parts, ", ")
}

// Transaction renders a transaction to a string.
func Transaction(tx tracker.Transaction, catalog *tracker.Catalog) string {
	switch v := tx.(type) {
	case *tracker.Buy:
		return fmt.Sprintf("Bought %s for %s", items(catalog, v.Items), v.Cost())
	case *tracker.Sell:
		return fmt.Sprintf("Sold %s for %s", items(catalog, v.Items), v.Proceeds())
	case *tracker.Open:
		switch {
		case len(v.Items) == 0:
			return fmt.Sprintf("Opened %s", items(catalog, v.Opened))
		case len(v.Opened) == 0:
			return fmt.Sprintf("Pulled %s", items(catalog, v.Items))
		default:
			return fmt.Sprintf("Opened %s into %s", items(catalog, v.Opened), items(catalog, v.Items))
		}
	case *tracker.Trade:
		return fmt.Sprintf("Traded %s for %s", items(catalog, v.ItemsOut), items(catalog, v.ItemsIn))
	default:
		return string(tx.What())
	}
}

// TransactionsMarkdown renders the transactions in the given order.
func TransactionsMarkdown(txs []tracker.Transaction, catalog *tracker.Catalog) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	if len(txs) == 0 {
		doc.PlainText("No transaction.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"ID", "Received", "Type", "Description"},
	}
	for _, tx := range txs {
		table.Rows = append(table.Rows, []string{
			tx.Identifier(),
			tx.When().String(),
			string(tx.What()),
			Transaction(tx, catalog),
		})
	}
	doc.Table(table)
	return doc.String()
}
