package cmd

import (
	"fmt"
	"strings"

	tracker "github.com/etnz/tcgtracker"
	"github.com/shopspring/decimal"
)

// parseItem parses "[CAT/]GROUP/PRODUCT:QTY[@PRICE][=NAME]", for instance
// "23237/501264:2@49.99=Elite Trainer Box". The category defaults to the
// configured primary category.
func parseItem(s string) (tracker.Item, error) {
	var item tracker.Item
	spec, name, _ := strings.Cut(s, "=")
	item.Name = strings.TrimSpace(name)

	spec, price, hasPrice := strings.Cut(spec, "@")
	if hasPrice {
		m, err := tracker.ParseMoney(strings.TrimSpace(price))
		if err != nil {
			return item, fmt.Errorf("item %q: invalid price: %w", s, err)
		}
		item.UnitPrice = m
	}

	key, qty, ok := strings.Cut(spec, ":")
	if !ok {
		return item, fmt.Errorf("item %q: missing quantity, want [CAT/]GROUP/PRODUCT:QTY[@PRICE][=NAME]", s)
	}
	q, err := decimal.NewFromString(strings.TrimSpace(qty))
	if err != nil {
		return item, fmt.Errorf("item %q: invalid quantity: %w", s, err)
	}
	item.Quantity = tracker.Q(q)

	parts := strings.Split(strings.TrimSpace(key), "/")
	switch len(parts) {
	case 2:
		item.GroupID, item.ProductID = tracker.ID(parts[0]), tracker.ID(parts[1])
	case 3:
		item.CategoryID, item.GroupID, item.ProductID = tracker.ID(parts[0]), tracker.ID(parts[1]), tracker.ID(parts[2])
	default:
		return item, fmt.Errorf("item %q: product must be GROUP/PRODUCT or CAT/GROUP/PRODUCT", s)
	}
	return item, nil
}

// itemList is a repeatable flag of items.
type itemList []tracker.Item

func (l *itemList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, 0, len(*l))
	for _, it := range *l {
		parts = append(parts, fmt.Sprintf("%s:%s@%s", it.Key(), it.Quantity, it.UnitPrice.Decimal().StringFixed(2)))
	}
	return strings.Join(parts, ",")
}

func (l *itemList) Set(s string) error {
	item, err := parseItem(s)
	if err != nil {
		return err
	}
	*l = append(*l, item)
	return nil
}

// moneyFlag is an optional amount.
type moneyFlag struct {
	value tracker.Money
	set   bool
}

func (m *moneyFlag) String() string {
	if m == nil || !m.set {
		return ""
	}
	return m.value.Decimal().String()
}

func (m *moneyFlag) Set(s string) error {
	v, err := tracker.ParseMoney(s)
	if err != nil {
		return err
	}
	m.value, m.set = v, true
	return nil
}
