package tracker

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecodeLedger(t *testing.T) {
	input := `[
  {"id": "a1", "type": "buy", "date_purchased": "2024-01-01", "date_received": "2024-01-03",
   "items": [{"product_id": 501257, "group_id": 23237, "quantity": 2, "unit_price": "109.99"}], "amount": 230.5, "place": "LGS"},
  {"id": "a2", "type": "SELL", "date_received": "2024-01-04",
   "items": [{"product_id": "501257", "group_id": "23237", "categoryId": "3", "quantity": 1, "unit_price": 130}]},
  {"id": "a3", "type": "OPEN", "date_received": "2024-01-05",
   "opened": [{"product_id": "501257", "group_id": "23237", "quantity": 1, "unit_price": 0}],
   "items": [{"product_id": "517045", "group_id": "23237", "quantity": 1, "unit_price": 30}]},
  {"id": "a4", "type": "TRADE", "date_received": "2024-01-06",
   "items_out": [{"product_id": "517045", "group_id": "23237", "quantity": 1, "unit_price": 30}],
   "items_in": [{"product_id": "501264", "group_id": "23237", "quantity": 1, "unit_price": 45}],
   "cost_basis_in": 40}
]`
	ledger, err := DecodeLedger(strings.NewReader(input), "3")
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	txs := ledger.Transactions()
	if len(txs) != 4 {
		t.Fatalf("DecodeLedger() decoded %d transactions, want 4", len(txs))
	}

	b, ok := txs[0].(*Buy)
	if !ok {
		t.Fatalf("transaction 0 is %T, want *Buy", txs[0])
	}
	if b.Items[0].Key() != boosterBox {
		t.Errorf("item key = %s, want %s", b.Items[0].Key(), boosterBox)
	}
	if !b.Cost().Equal(M(230.5)) || !b.Items[0].UnitPrice.Equal(M(109.99)) {
		t.Errorf("Cost(), UnitPrice = %s, %s, want $230.50, $109.99", b.Cost(), b.Items[0].UnitPrice)
	}
	if b.Purchased != day("2024-01-01") || b.When() != day("2024-01-03") || b.Place != "LGS" {
		t.Errorf("header = %+v, want purchased 2024-01-01, received 2024-01-03 at LGS", b.Header)
	}
	if _, ok := txs[1].(*Sell); !ok {
		t.Errorf("transaction 1 is %T, want *Sell", txs[1])
	}
	if o, ok := txs[2].(*Open); !ok || len(o.Opened) != 1 || len(o.Items) != 1 {
		t.Errorf("transaction 2 = %+v, want an *Open with one opened and one content", txs[2])
	}
	tr, ok := txs[3].(*Trade)
	if !ok || tr.CostBasisIn == nil || !tr.CostBasisIn.Equal(USD(40)) {
		t.Errorf("transaction 3 = %+v, want a *Trade with cost_basis_in 40", txs[3])
	}

	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			t.Errorf("Validate(%s) unexpected error: %v", tx.Identifier(), err)
		}
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an array", `{"id": "x"}`},
		{"unknown type", `[{"id": "x", "type": "GIFT", "date_received": "2024-01-01"}]`},
		{"bad date", `[{"id": "x", "type": "BUY", "date_received": "01/02/2024"}]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeLedger(strings.NewReader(tc.input), "3"); err == nil {
				t.Errorf("DecodeLedger() expected an error")
			}
		})
	}

	empty, err := DecodeLedger(strings.NewReader("  \n"), "3")
	if err != nil || empty.Len() != 0 {
		t.Errorf("DecodeLedger(empty) = %d, %v, want an empty ledger", empty.Len(), err)
	}
}

func TestEncodeLedger(t *testing.T) {
	ledger := NewLedger()
	b := buy("a1", day("2024-01-03"), 0, item(etb, 1, 45))
	b.Notes = "preorder"
	ledger.Append(b)
	// ledger order is kept, not date order
	ledger.Append(sell("a0", day("2024-01-02"), 50, item(pikachu, 1, 50)))

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() unexpected error: %v", err)
	}
	want := `[
  {
    "id": "a1",
    "type": "BUY",
    "date_received": "2024-01-03",
    "items": [
      {
        "product_id": "501264",
        "group_id": "23237",
        "categoryId": "3",
        "quantity": 1,
        "unit_price": 45.00
      }
    ],
    "notes": "preorder"
  },
  {
    "id": "a0",
    "type": "SELL",
    "date_received": "2024-01-02",
    "items": [
      {
        "product_id": "517046",
        "group_id": "23237",
        "categoryId": "3",
        "quantity": 1,
        "unit_price": 50.00
      }
    ],
    "amount": 50.00
  }
]
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeLedger() =\n%s\nwant\n%s", got, want)
	}

	decoded, err := DecodeLedger(&buf, "3")
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	var again bytes.Buffer
	EncodeLedger(&again, decoded)
	if again.String() != want {
		t.Errorf("EncodeLedger(DecodeLedger()) is not stable:\n%s", again.String())
	}
}

func TestDecodeLedger_TradeCostBasisOut(t *testing.T) {
	input := `[{"id": "t1", "type": "TRADE", "date_received": "2024-01-06",
   "items_out": [{"product_id": "517045", "group_id": "23237", "quantity": 1}],
   "items_in": [{"product_id": "501264", "group_id": "23237", "quantity": 1}],
   "cost_basis_out": 25}]`
	ledger, err := DecodeLedger(strings.NewReader(input), "3")
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	tr, ok := ledger.Transactions()[0].(*Trade)
	if !ok || tr.CostBasisOut == nil || !tr.CostBasisOut.Equal(USD(25)) {
		t.Fatalf("transaction 0 = %+v, want a *Trade with cost_basis_out 25", ledger.Transactions()[0])
	}
	if tr.CostBasisIn != nil {
		t.Errorf("CostBasisIn = %s, want unset", *tr.CostBasisIn)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"cost_basis_out": 25.00`) {
		t.Errorf("EncodeLedger() dropped cost_basis_out:\n%s", buf.String())
	}

	neg := USD(-1)
	tr.CostBasisOut = &neg
	var vErr *ValidationError
	if err := tr.Validate(); !errors.As(err, &vErr) || vErr.Field != "cost_basis_out" {
		t.Errorf("Validate() = %v, want a cost_basis_out error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		tx        Transaction
		wantField string
	}{
		{"zero quantity", buy("x", day("2024-01-01"), 0, item(etb, 0, 45)), "items[0]"},
		{"negative quantity", sell("x", day("2024-01-01"), 0, item(etb, -1, 45)), "items[0]"},
		{"no items", buy("x", day("2024-01-01"), 0), "items"},
		{"no date", buy("x", Date{}, 0, item(etb, 1, 45)), "date_received"},
		{"negative price", buy("x", day("2024-01-01"), 0, item(etb, 1, -45)), "items[0]"},
		{"trade without items in", NewTrade(day("2024-01-01"), []Item{item(etb, 1, 0)}, nil), "items_in"},
		{"empty open", NewOpen(day("2024-01-01"), nil, nil), "items"},
		{"opened into itself", NewOpen(day("2024-01-01"), []Item{item(etb, 1, 0)}, []Item{item(etb, 1, 0)}), "opened"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() = %v, want a *ValidationError", err)
			}
			if vErr.Field != tc.wantField {
				t.Errorf("Validate() field = %q, want %q (%v)", vErr.Field, tc.wantField, err)
			}
		})
	}
}
