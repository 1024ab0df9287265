package tracker

import (
	"errors"
	"testing"
)

func TestLedger_Append(t *testing.T) {
	ledger := NewLedger()
	first := NewBuy(day("2024-01-02"), []Item{item(etb, 1, 50)}, Money{})
	if err := ledger.Append(first); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}
	if len(first.ID) != 8 {
		t.Errorf("Append() assigned id %q, want 8 characters", first.ID)
	}
	dup := buy(first.ID, day("2024-01-03"), 0, item(etb, 1, 50))
	if err := ledger.Append(dup); err == nil {
		t.Errorf("Append() with a duplicate id, want an error")
	}
	if ledger.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ledger.Len())
	}
}

func TestLedger_Chronological(t *testing.T) {
	ledger := NewLedger()
	txs := []Transaction{
		buy("a", day("2024-01-05"), 0, item(etb, 1, 50)),
		buy("b", day("2024-01-01"), 0, item(etb, 1, 50)),
		sell("c", day("2024-01-05"), 0, item(etb, 1, 50)),
		buy("d", day("2024-01-03"), 0, item(etb, 1, 50)),
	}
	for _, tx := range txs {
		if err := ledger.Append(tx); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	for _, tx := range ledger.Chronological() {
		got = append(got, tx.Identifier())
	}
	want := []string{"b", "d", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("Chronological() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Chronological() = %v, want %v", got, want)
			break
		}
	}

	if ledger.Oldest() != day("2024-01-01") || ledger.Newest() != day("2024-01-05") {
		t.Errorf("Oldest(), Newest() = %s, %s, want 2024-01-01, 2024-01-05", ledger.Oldest(), ledger.Newest())
	}
}

func TestLedger_ReplaceKeepsPosition(t *testing.T) {
	ledger := NewLedger()
	for _, tx := range []Transaction{
		buy("a", day("2024-01-01"), 0, item(etb, 1, 50)),
		buy("b", day("2024-01-01"), 0, item(etb, 1, 50)),
	} {
		if err := ledger.Append(tx); err != nil {
			t.Fatal(err)
		}
	}
	edited := NewBuy(day("2024-01-01"), []Item{item(charizard, 1, 30)}, Money{})
	if err := ledger.Replace("a", edited); err != nil {
		t.Fatalf("Replace() unexpected error: %v", err)
	}
	if edited.ID != "a" {
		t.Errorf("Replace() id = %q, want %q", edited.ID, "a")
	}
	if first := ledger.Chronological()[0]; first != Transaction(edited) {
		t.Errorf("Replace() moved the transaction, first is %s", first.Identifier())
	}
	if err := ledger.Replace("zz", edited); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace() error = %v, want ErrNotFound", err)
	}
}

func TestLedger_Delete(t *testing.T) {
	ledger := NewLedger()
	if err := ledger.Append(buy("a", day("2024-01-01"), 0, item(etb, 1, 50))); err != nil {
		t.Fatal(err)
	}
	candidate := ledger.Clone()
	tx, err := candidate.Delete("a")
	if err != nil || tx.Identifier() != "a" {
		t.Fatalf("Delete() = %v, %v, want transaction a", tx, err)
	}
	if candidate.Len() != 0 || ledger.Len() != 1 {
		t.Errorf("Len() after Delete on a clone = %d, %d, want 0, 1", candidate.Len(), ledger.Len())
	}
	if _, err := candidate.Delete("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestLedger_Products(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(buy("a", day("2024-01-01"), 0, item(pikachu, 1, 5), item(etb, 1, 50)))
	ledger.Append(NewTrade(day("2024-01-02"), []Item{item(etb, 1, 50)}, []Item{item(charizard, 1, 50)}))

	got := ledger.Products()
	want := []ProductKey{etb, charizard, pikachu}
	if len(got) != len(want) {
		t.Fatalf("Products() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Products()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
