package tracker

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// InventoryState is the collection at the end of one day.
type InventoryState struct {
	Date       Date
	Quantities map[ProductKey]Quantity // products held, quantities are positive
	Costs      map[ProductKey]Money    // cost basis of each product held
	Untracked  Money                   // cost of opened products whose contents are not tracked
	CostBasis  Money                   // sum of Costs plus Untracked
	Realized   Money                   // cumulated sale proceeds minus cost of the units sold
}

// Products returns the products held, sorted.
func (s InventoryState) Products() []ProductKey {
	return slices.SortedFunc(maps.Keys(s.Quantities), ProductKey.Compare)
}

// Timeline is the gapless sequence of inventory states over a range of days.
type Timeline struct {
	Range  Range
	Method CostBasisMethod
	Days   []InventoryState
}

// On returns the state of a given day of the timeline.
func (t *Timeline) On(day Date) (InventoryState, bool) {
	if !t.Range.Contains(day) {
		return InventoryState{}, false
	}
	return t.Days[day.DaysSince(t.Range.From)], true
}

// Last returns the state of the last day, or false for an empty timeline.
func (t *Timeline) Last() (InventoryState, bool) {
	if len(t.Days) == 0 {
		return InventoryState{}, false
	}
	return t.Days[len(t.Days)-1], true
}

// BuildTimeline replays txs, in any order, and records the inventory at the
// end of every day of r.
//
// Transactions are applied by received date, same-day transactions in ledger
// order. Transactions received before r.From are applied before the first day.
// Transactions received after r.To do not appear in the timeline but are still
// replayed, so that the whole log is checked.
//
// Any transaction that would make a quantity negative aborts the replay with an
// *InventoryError.
func BuildTimeline(txs []Transaction, r Range, method CostBasisMethod) (*Timeline, error) {
	sorted := slices.Clone(txs)
	stableSort(sorted)

	inv := newInventory(method)
	i := 0
	for ; i < len(sorted) && sorted[i].When().Before(r.From); i++ {
		if err := inv.apply(sorted[i]); err != nil {
			return nil, err
		}
	}

	tl := &Timeline{Range: r, Method: method, Days: make([]InventoryState, 0, r.Len())}
	for day := range r.Days() {
		for ; i < len(sorted) && sorted[i].When() == day; i++ {
			if err := inv.apply(sorted[i]); err != nil {
				return nil, err
			}
		}
		tl.Days = append(tl.Days, inv.snapshot(day))
	}

	for ; i < len(sorted); i++ {
		if err := inv.apply(sorted[i]); err != nil {
			return nil, err
		}
	}
	return tl, nil
}

// CheckInventory replays txs with method and reports the first transaction
// that would make a quantity negative.
func CheckInventory(txs []Transaction, method CostBasisMethod) error {
	sorted := slices.Clone(txs)
	stableSort(sorted)
	inv := newInventory(method)
	for _, tx := range sorted {
		if err := inv.apply(tx); err != nil {
			return err
		}
	}
	return nil
}

// inventory is the running state of a replay.
type inventory struct {
	method    CostBasisMethod
	positions map[ProductKey]lots
	untracked Money
	realized  Money
}

func newInventory(method CostBasisMethod) *inventory {
	return &inventory{method: method, positions: make(map[ProductKey]lots)}
}

func (inv *inventory) held(k ProductKey) Quantity { return inv.positions[k].quantity() }

func (inv *inventory) add(k ProductKey, day Date, q Quantity, cost Money) {
	inv.positions[k] = append(inv.positions[k], lot{Date: day, Quantity: q, Cost: cost})
}

// take removes the items from their positions and returns the cost removed.
func (inv *inventory) take(tx Transaction, items []Item) (Money, error) {
	var removed Money
	for _, item := range items {
		k := item.Key()
		held := inv.held(k)
		if held.LessThan(item.Quantity) {
			return Money{}, &InventoryError{
				TxID:     tx.Identifier(),
				Kind:     tx.What(),
				Product:  k,
				Date:     tx.When(),
				Held:     held,
				Quantity: item.Quantity,
			}
		}
		remaining, cost := inv.positions[k].remove(item.Quantity, inv.method)
		if remaining.quantity().IsZero() {
			delete(inv.positions, k)
		} else {
			inv.positions[k] = remaining
		}
		removed = removed.Add(cost)
	}
	return removed, nil
}

// give adds the items to their positions sharing total between them.
func (inv *inventory) give(day Date, items []Item, total Money) {
	for i, cost := range allocate(total, items) {
		inv.add(items[i].Key(), day, items[i].Quantity, cost)
	}
}

func (inv *inventory) apply(tx Transaction) error {
	day := tx.When()
	switch t := tx.(type) {
	case *Buy:
		inv.give(day, t.Items, t.Cost())

	case *Sell:
		removed, err := inv.take(tx, t.Items)
		if err != nil {
			return err
		}
		inv.realized = inv.realized.Add(t.Proceeds().Sub(removed))

	case *Open:
		removed, err := inv.take(tx, t.Opened)
		if err != nil {
			return err
		}
		switch {
		case len(t.Items) == 0:
			inv.untracked = inv.untracked.Add(removed)
		case len(t.Opened) == 0:
			for _, item := range t.Items {
				inv.add(item.Key(), day, item.Quantity, item.Cost())
			}
		default:
			inv.give(day, t.Items, removed)
		}

	case *Trade:
		removed, err := inv.take(tx, t.ItemsOut)
		if err != nil {
			return err
		}
		in := removed
		if t.CostBasisIn != nil {
			in = *t.CostBasisIn
		}
		inv.give(day, t.ItemsIn, in)
	}
	return nil
}

func (inv *inventory) snapshot(day Date) InventoryState {
	s := InventoryState{
		Date:       day,
		Quantities: make(map[ProductKey]Quantity, len(inv.positions)),
		Costs:      make(map[ProductKey]Money, len(inv.positions)),
		Untracked:  inv.untracked,
		CostBasis:  inv.untracked,
		Realized:   inv.realized,
	}
	for k, l := range inv.positions {
		c := l.cost()
		s.Quantities[k] = l.quantity()
		s.Costs[k] = c
		s.CostBasis = s.CostBasis.Add(c)
	}
	return s
}

// allocate splits total between items proportionally to their cost, or to
// their quantity when no item has a price. When total is the sum of the item
// costs, as for a purchase without amount, each item keeps its own cost.
// Otherwise the last item takes the rounding residue so that the shares add up
// to total exactly.
func allocate(total Money, items []Item) []Money {
	if len(items) == 0 {
		return nil
	}
	shares := make([]Money, len(items))
	var costs Money
	for i, item := range items {
		shares[i] = item.Cost()
		costs = costs.Add(shares[i])
	}
	if costs.Equal(total) {
		return shares
	}

	weights := make([]decimal.Decimal, len(items))
	var sum decimal.Decimal
	for i := range items {
		weights[i] = shares[i].Decimal()
		sum = sum.Add(weights[i])
	}
	if sum.IsZero() {
		for i, item := range items {
			weights[i] = item.Quantity.Decimal()
			sum = sum.Add(weights[i])
		}
	}
	var given Money
	for i := range items[:len(items)-1] {
		shares[i] = Money{value: total.value.Mul(weights[i]).Div(sum)}
		given = given.Add(shares[i])
	}
	shares[len(items)-1] = total.Sub(given)
	return shares
}
