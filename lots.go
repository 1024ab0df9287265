package tracker

// lot is a quantity of a product held for a known total cost. Under FIFO each
// acquisition is a lot; under average cost a position becomes a single lot on
// its first removal.
type lot struct {
	Date     Date
	Quantity Quantity
	Cost     Money // total cost of the lot, not per unit
}

type lots []lot

func (l lots) quantity() (q Quantity) {
	for _, x := range l {
		q = q.Add(x.Quantity)
	}
	return q
}

func (l lots) cost() (c Money) {
	for _, x := range l {
		c = c.Add(x.Cost)
	}
	return c
}

// remove takes q units out of the lots and returns the remaining lots and the
// cost removed with them. q must not exceed the quantity held.
func (l lots) remove(q Quantity, method CostBasisMethod) (lots, Money) {
	held := l.quantity()
	if !q.LessThan(held) {
		// everything goes, no rounding residue is left behind.
		return nil, l.cost()
	}
	if method == FIFO {
		return l.removeFIFO(q)
	}
	return l.removeAverage(q, held)
}

// removeAverage takes q units at the average cost of the position. Quantities
// are never scaled: the lots merge into one holding held-q units, and the kept
// cost absorbs the rounding of the division.
func (l lots) removeAverage(q, held Quantity) (lots, Money) {
	total := l.cost()
	removed := total.Mul(q).Div(held)
	return lots{{Date: l[0].Date, Quantity: held.Sub(q), Cost: total.Sub(removed)}}, removed
}

// removeFIFO consumes the oldest lots first.
func (l lots) removeFIFO(q Quantity) (lots, Money) {
	var remaining lots
	var removed Money
	for _, x := range l {
		switch {
		case q.IsZero():
			remaining = append(remaining, x)
		case x.Quantity.GreaterThan(q):
			// Partial sale from this lot
			portion := x.Cost.Mul(q).Div(x.Quantity)
			removed = removed.Add(portion)
			remaining = append(remaining, lot{Date: x.Date, Quantity: x.Quantity.Sub(q), Cost: x.Cost.Sub(portion)})
			q = Quantity{}
		default:
			// Full sale of this lot
			removed = removed.Add(x.Cost)
			q = q.Sub(x.Quantity)
		}
	}
	return remaining, removed
}
