package tracker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileStore_Upsert(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	err := store.Upsert(
		PricePoint{Product: etb, Date: day("2024-01-03"), Price: USD(41)},
		PricePoint{Product: etb, Date: day("2024-01-01"), Price: USD(40)},
		PricePoint{Product: charizard, Date: day("2024-01-01"), Price: M(12.5)},
	)
	if err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	// same day again, last write wins
	if err := store.Upsert(PricePoint{Product: etb, Date: day("2024-01-03"), Price: M(42.1)}); err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "3", "23237", "501264.json"))
	if err != nil {
		t.Fatalf("price file not written: %v", err)
	}
	want := `{
  "2024-01-01": 40.00,
  "2024-01-03": 42.10
}
`
	if got := string(data); got != want {
		t.Errorf("price file =\n%s\nwant\n%s", got, want)
	}

	products, err := store.Products()
	if err != nil {
		t.Fatalf("Products() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]ProductKey{etb, charizard}, products); diff != "" {
		t.Errorf("Products() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore_Lookups(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Upsert(
		PricePoint{Product: etb, Date: day("2024-01-01"), Price: USD(40)},
		PricePoint{Product: etb, Date: day("2024-01-03"), Price: USD(45)},
	); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		on        string
		wantExact bool
		wantPrice Money
		wantOn    string
		wantOK    bool
	}{
		{"2023-12-31", false, Money{}, "", false},
		{"2024-01-01", true, USD(40), "2024-01-01", true},
		{"2024-01-02", false, USD(40), "2024-01-01", true},
		{"2024-01-05", false, USD(45), "2024-01-03", true},
	}
	for _, tc := range tests {
		t.Run(tc.on, func(t *testing.T) {
			_, exact, err := PriceOn(store, etb, day(tc.on))
			if err != nil || exact != tc.wantExact {
				t.Errorf("PriceOn() = %v, %v, want %v, nil", exact, err, tc.wantExact)
			}
			price, on, ok, err := PriceAsOf(store, etb, day(tc.on))
			if err != nil {
				t.Fatalf("PriceAsOf() unexpected error: %v", err)
			}
			if ok != tc.wantOK || !price.Equal(tc.wantPrice) {
				t.Errorf("PriceAsOf() = %s, %v, want %s, %v", price, ok, tc.wantPrice, tc.wantOK)
			}
			if ok && on != day(tc.wantOn) {
				t.Errorf("PriceAsOf() on = %s, want %s", on, tc.wantOn)
			}
		})
	}
}

func TestFileStore_Missing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nothing-yet"))
	h, err := store.History(etb)
	if err != nil || h.Len() != 0 {
		t.Errorf("History() = %d points, %v, want an empty history", h.Len(), err)
	}
	products, err := store.Products()
	if err != nil || len(products) != 0 {
		t.Errorf("Products() = %v, %v, want none", products, err)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	path := store.path(etb)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := store.History(etb)
	var accessErr *StoreAccessError
	if !errors.As(err, &accessErr) || accessErr.Product != etb {
		t.Fatalf("History() error = %v, want a *StoreAccessError for %s", err, etb)
	}

	// other products are not affected, the corrupt file is not overwritten
	err = store.Upsert(
		PricePoint{Product: etb, Date: day("2024-01-01"), Price: USD(40)},
		PricePoint{Product: charizard, Date: day("2024-01-01"), Price: USD(12)},
	)
	if !errors.As(err, &accessErr) {
		t.Errorf("Upsert() error = %v, want a *StoreAccessError", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "not json" {
		t.Errorf("corrupt file overwritten with %q", data)
	}
	if _, ok, _ := PriceOn(store, charizard, day("2024-01-01")); !ok {
		t.Errorf("charizard price not recorded")
	}
}
