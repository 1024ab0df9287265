package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the variant of a transaction.
type Kind string

// Transaction kinds, as written in the ledger file.
const (
	KindBuy   Kind = "BUY"
	KindSell  Kind = "SELL"
	KindOpen  Kind = "OPEN"
	KindTrade Kind = "TRADE"
)

// ParseKind parses a kind, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindBuy, KindSell, KindOpen, KindTrade:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Item is one line of a transaction: a quantity of a single product.
type Item struct {
	ProductID  ID
	GroupID    ID
	CategoryID ID
	Name       string // optional, used to name new catalog entries
	Quantity   Quantity
	UnitPrice  Money
}

// Key returns the identity of the item's product.
func (i Item) Key() ProductKey {
	return ProductKey{Category: i.CategoryID, Group: i.GroupID, Product: i.ProductID}
}

// Cost is Quantity x UnitPrice.
func (i Item) Cost() Money { return i.UnitPrice.Mul(i.Quantity) }

// MarshalJSON implements the json.Marshaler interface for Item.
func (i Item) MarshalJSON() ([]byte, error) {
	var w orderedObject
	w.Set("product_id", i.ProductID)
	w.Set("group_id", i.GroupID)
	w.Set("categoryId", i.CategoryID)
	w.SetNonZero("name", i.Name)
	w.Set("quantity", i.Quantity)
	w.Set("unit_price", i.UnitPrice)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Item.
func (i *Item) UnmarshalJSON(data []byte) error {
	var temp struct {
		ProductID  ID       `json:"product_id"`
		GroupID    ID       `json:"group_id"`
		CategoryID ID       `json:"categoryId"`
		Name       string   `json:"name"`
		Quantity   Quantity `json:"quantity"`
		UnitPrice  Money    `json:"unit_price"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*i = Item(temp)
	return nil
}

func (i Item) validate(field string) error {
	switch {
	case i.ProductID == "":
		return invalid(field, "missing product_id")
	case i.GroupID == "":
		return invalid(field, "missing group_id for product %s", i.ProductID)
	case !i.Quantity.IsPositive():
		return invalid(field, "quantity of %s must be positive, got %s", i.ProductID, i.Quantity)
	case i.UnitPrice.IsNegative():
		return invalid(field, "unit_price of %s must not be negative, got %s", i.ProductID, i.UnitPrice)
	}
	return nil
}

func validateItems(field string, items []Item, required bool) error {
	if required && len(items) == 0 {
		return invalid(field, "at least one item is required")
	}
	var errs []error
	for i, item := range items {
		if err := item.validate(fmt.Sprintf("%s[%d]", field, i)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Transaction is implemented by *Buy, *Sell, *Open and *Trade.
type Transaction interface {
	What() Kind         // What returns the variant of the transaction.
	When() Date         // When returns the date the items were received, the effective date.
	Identifier() string // Identifier returns the transaction id.
	// Validate checks the transaction in isolation.
	Validate() error
	// Lines returns every item of the transaction, whatever its role.
	Lines() []Item
	head() *Header
}

// Header holds the fields common to all transactions.
type Header struct {
	ID        string
	Kind      Kind
	Purchased Date // informational
	Received  Date // effective date for inventory and valuation
	Place     string
	Method    string
	Notes     string

	seq int // position in the ledger, the same-day tie-break
}

func (h *Header) What() Kind         { return h.Kind }
func (h *Header) When() Date         { return h.Received }
func (h *Header) Identifier() string { return h.ID }
func (h *Header) head() *Header      { return h }

func (h *Header) validate() error {
	if h.Received.IsZero() {
		return invalid("date_received", "missing")
	}
	return nil
}

func (h *Header) writeHead(w *orderedObject) {
	w.Set("id", h.ID)
	w.Set("type", h.Kind)
	w.SetNonZero("date_purchased", h.Purchased)
	w.Set("date_received", h.Received)
}

func (h *Header) writeTail(w *orderedObject) {
	w.SetNonZero("place", h.Place)
	w.SetNonZero("method", h.Method)
	w.SetNonZero("notes", h.Notes)
}

// withID stamps the id on validation errors.
func (h *Header) withID(err error) error {
	if err != nil && h.ID != "" {
		stampID(err, h.ID)
	}
	return err
}

func stampID(err error, id string) {
	switch e := err.(type) {
	case *ValidationError:
		if e.TxID == "" {
			e.TxID = id
		}
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			stampID(inner, id)
		}
	}
}

// Buy adds items bought for Amount.
type Buy struct {
	Header
	Items  []Item
	Amount Money // total paid, fees included. Zero means sum of item costs.
}

// NewBuy creates a new Buy transaction.
func NewBuy(received Date, items []Item, amount Money) *Buy {
	return &Buy{Header: Header{Kind: KindBuy, Received: received}, Items: items, Amount: amount}
}

func (t *Buy) Lines() []Item { return t.Items }

// Cost returns the total cost basis added by the purchase.
func (t *Buy) Cost() Money {
	if !t.Amount.IsZero() {
		return t.Amount
	}
	var total Money
	for _, item := range t.Items {
		total = total.Add(item.Cost())
	}
	return total
}

func (t *Buy) Validate() error {
	err := errors.Join(t.Header.validate(), validateItems("items", t.Items, true))
	if t.Amount.IsNegative() {
		err = errors.Join(err, invalid("amount", "must not be negative, got %s", t.Amount))
	}
	return t.withID(err)
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t *Buy) MarshalJSON() ([]byte, error) {
	var w orderedObject
	t.writeHead(&w)
	w.Set("items", t.Items)
	w.SetNonZero("amount", t.Amount)
	t.writeTail(&w)
	return w.MarshalJSON()
}

// Sell removes items sold for Amount.
type Sell struct {
	Header
	Items  []Item
	Amount Money // total received
}

// NewSell creates a new Sell transaction.
func NewSell(received Date, items []Item, amount Money) *Sell {
	return &Sell{Header: Header{Kind: KindSell, Received: received}, Items: items, Amount: amount}
}

func (t *Sell) Lines() []Item { return t.Items }

// Proceeds returns Amount, or the sum of item prices when Amount is zero.
func (t *Sell) Proceeds() Money {
	if !t.Amount.IsZero() {
		return t.Amount
	}
	var total Money
	for _, item := range t.Items {
		total = total.Add(item.Cost())
	}
	return total
}

func (t *Sell) Validate() error {
	err := errors.Join(t.Header.validate(), validateItems("items", t.Items, true))
	if t.Amount.IsNegative() {
		err = errors.Join(err, invalid("amount", "must not be negative, got %s", t.Amount))
	}
	return t.withID(err)
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t *Sell) MarshalJSON() ([]byte, error) {
	var w orderedObject
	t.writeHead(&w)
	w.Set("items", t.Items)
	w.SetNonZero("amount", t.Amount)
	t.writeTail(&w)
	return w.MarshalJSON()
}

// Open records sealed products being opened. Opened items leave the
// collection, Items are the contents that enter it. Both lists are optional
// but not both empty.
type Open struct {
	Header
	Items  []Item // contents
	Opened []Item // sealed products
}

// NewOpen creates a new Open transaction.
func NewOpen(received Date, opened, contents []Item) *Open {
	return &Open{Header: Header{Kind: KindOpen, Received: received}, Items: contents, Opened: opened}
}

func (t *Open) Lines() []Item { return append(append([]Item(nil), t.Opened...), t.Items...) }

func (t *Open) Validate() error {
	err := errors.Join(t.Header.validate(),
		validateItems("items", t.Items, false),
		validateItems("opened", t.Opened, false))
	if len(t.Items) == 0 && len(t.Opened) == 0 {
		err = errors.Join(err, invalid("items", "at least one item or opened product is required"))
	}
	for _, o := range t.Opened {
		for _, i := range t.Items {
			if o.Key() == i.Key() {
				err = errors.Join(err, invalid("opened", "product %s is both opened and a content", o.Key()))
			}
		}
	}
	return t.withID(err)
}

// MarshalJSON implements the json.Marshaler interface for Open.
func (t *Open) MarshalJSON() ([]byte, error) {
	var w orderedObject
	t.writeHead(&w)
	w.SetNonZero("opened", t.Opened)
	w.SetNonZero("items", t.Items)
	t.writeTail(&w)
	return w.MarshalJSON()
}

// Trade exchanges ItemsOut for ItemsIn.
type Trade struct {
	Header
	ItemsOut []Item
	ItemsIn  []Item
	// CostBasisIn, when set, is the cost basis of ItemsIn. Otherwise the cost
	// removed with ItemsOut is carried over.
	CostBasisIn *Money
	// CostBasisOut is the cost basis given away as recorded by the user. It is
	// kept with the trade; the cost removed is always computed from the lots.
	CostBasisOut *Money
}

// NewTrade creates a new Trade transaction.
func NewTrade(received Date, out, in []Item) *Trade {
	return &Trade{Header: Header{Kind: KindTrade, Received: received}, ItemsOut: out, ItemsIn: in}
}

func (t *Trade) Lines() []Item { return append(append([]Item(nil), t.ItemsOut...), t.ItemsIn...) }

func (t *Trade) Validate() error {
	err := errors.Join(t.Header.validate(),
		validateItems("items_out", t.ItemsOut, true),
		validateItems("items_in", t.ItemsIn, true))
	if t.CostBasisIn != nil && t.CostBasisIn.IsNegative() {
		err = errors.Join(err, invalid("cost_basis_in", "must not be negative, got %s", *t.CostBasisIn))
	}
	if t.CostBasisOut != nil && t.CostBasisOut.IsNegative() {
		err = errors.Join(err, invalid("cost_basis_out", "must not be negative, got %s", *t.CostBasisOut))
	}
	return t.withID(err)
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (t *Trade) MarshalJSON() ([]byte, error) {
	var w orderedObject
	t.writeHead(&w)
	w.Set("items_out", t.ItemsOut)
	w.Set("items_in", t.ItemsIn)
	if t.CostBasisIn != nil {
		w.Set("cost_basis_in", *t.CostBasisIn)
	}
	if t.CostBasisOut != nil {
		w.Set("cost_basis_out", *t.CostBasisOut)
	}
	t.writeTail(&w)
	return w.MarshalJSON()
}

var (
	_ Transaction = (*Buy)(nil)
	_ Transaction = (*Sell)(nil)
	_ Transaction = (*Open)(nil)
	_ Transaction = (*Trade)(nil)
)
