package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// wireTx has every field any transaction kind can carry.
type wireTx struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Purchased    Date   `json:"date_purchased"`
	Received     Date   `json:"date_received"`
	Items        []Item `json:"items"`
	Opened       []Item `json:"opened"`
	ItemsOut     []Item `json:"items_out"`
	ItemsIn      []Item `json:"items_in"`
	Amount       Money  `json:"amount"`
	CostBasisIn  *Money `json:"cost_basis_in"`
	CostBasisOut *Money `json:"cost_basis_out"`
	Place        string `json:"place"`
	Method       string `json:"method"`
	Notes        string `json:"notes"`
}

// DecodeTransaction decodes a single transaction object.
func DecodeTransaction(data []byte) (Transaction, error) {
	var temp wireTx
	if err := json.Unmarshal(data, &temp); err != nil {
		return nil, err
	}
	kind, err := ParseKind(temp.Type)
	if err != nil {
		return nil, &ValidationError{TxID: temp.ID, Field: "type", Reason: err.Error()}
	}
	h := Header{
		ID:        temp.ID,
		Kind:      kind,
		Purchased: temp.Purchased,
		Received:  temp.Received,
		Place:     temp.Place,
		Method:    temp.Method,
		Notes:     temp.Notes,
	}
	switch kind {
	case KindBuy:
		return &Buy{Header: h, Items: temp.Items, Amount: temp.Amount}, nil
	case KindSell:
		return &Sell{Header: h, Items: temp.Items, Amount: temp.Amount}, nil
	case KindOpen:
		return &Open{Header: h, Items: temp.Items, Opened: temp.Opened}, nil
	default:
		return &Trade{Header: h, ItemsOut: temp.ItemsOut, ItemsIn: temp.ItemsIn, CostBasisIn: temp.CostBasisIn, CostBasisOut: temp.CostBasisOut}, nil
	}
}

// DecodeLedger decodes a JSON array of transactions. The array order is the
// ledger order. Items without a category get defaultCategory.
func DecodeLedger(r io.Reader, defaultCategory ID) (*Ledger, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ledger := NewLedger()
	if len(bytes.TrimSpace(data)) == 0 {
		return ledger, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("ledger is not a JSON array of transactions: %w", err)
	}
	for i, raw := range raws {
		tx, err := DecodeTransaction(raw)
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i, err)
		}
		DefaultCategory(tx, defaultCategory)
		ledger.push(tx)
	}
	return ledger, nil
}

// EncodeLedger writes the ledger as an indented JSON array, in ledger order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	txs := ledger.Transactions()
	if txs == nil {
		txs = []Transaction{}
	}
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode ledger: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// DefaultCategory sets cat on every item of tx that has no category.
func DefaultCategory(tx Transaction, cat ID) {
	if cat == "" {
		return
	}
	fill := func(items []Item) {
		for i := range items {
			if items[i].CategoryID == "" {
				items[i].CategoryID = cat
			}
		}
	}
	switch v := tx.(type) {
	case *Buy:
		fill(v.Items)
	case *Sell:
		fill(v.Items)
	case *Open:
		fill(v.Items)
		fill(v.Opened)
	case *Trade:
		fill(v.ItemsOut)
		fill(v.ItemsIn)
	}
}
