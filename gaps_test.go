package tracker

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOwnedRanges(t *testing.T) {
	txs := []Transaction{
		buy("b1", day("2024-01-02"), 0, item(etb, 1, 50)),
		sell("s1", day("2024-01-04"), 0, item(etb, 1, 50)),
		buy("b2", day("2024-01-06"), 0, item(etb, 1, 50)),
	}
	tl, err := BuildTimeline(txs, NewRange(day("2024-01-01"), day("2024-01-07")), AverageCost)
	if err != nil {
		t.Fatal(err)
	}
	want := map[ProductKey][]Range{
		etb: {
			NewRange(day("2024-01-02"), day("2024-01-03")),
			NewRange(day("2024-01-06"), day("2024-01-07")),
		},
	}
	if diff := cmp.Diff(want, OwnedRanges(tl), cmpOpts); diff != "" {
		t.Errorf("OwnedRanges() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindPriceGaps(t *testing.T) {
	txs := []Transaction{buy("b1", day("2024-01-01"), 0, item(etb, 1, 50), item(pikachu, 1, 5))}
	store := newMemStore().
		set(etb, map[string]float64{"2024-01-01": 50, "2024-01-03": 52}).
		set(pikachu, map[string]float64{"2024-01-01": 5, "2024-01-02": 5, "2024-01-03": 5})

	tl, _ := BuildTimeline(txs, NewRange(day("2024-01-01"), day("2024-01-04")), AverageCost)
	gaps := FindPriceGaps(tl, store)

	want := PriceGaps{
		etb:     {day("2024-01-02"), day("2024-01-04")},
		pikachu: {day("2024-01-04")},
	}
	if diff := cmp.Diff(want, gaps, cmpOpts); diff != "" {
		t.Errorf("FindPriceGaps() mismatch (-want +got):\n%s", diff)
	}
	if gaps.Len() != 3 {
		t.Errorf("Len() = %d, want 3", gaps.Len())
	}

	byDay := gaps.ByDay()
	if diff := cmp.Diff([]ProductKey{etb, pikachu}, byDay[day("2024-01-04")]); diff != "" {
		t.Errorf("ByDay() on 2024-01-04 mismatch (-want +got):\n%s", diff)
	}
	if only := gaps.Only(pikachu); only.Len() != 1 {
		t.Errorf("Only(pikachu).Len() = %d, want 1", only.Len())
	}

	var buf bytes.Buffer
	if err := EncodePriceGaps(&buf, gaps); err != nil {
		t.Fatalf("EncodePriceGaps() unexpected error: %v", err)
	}
	wantJSON := `{
  "3/23237/501264": [
    "2024-01-02",
    "2024-01-04"
  ],
  "3/23237/517046": [
    "2024-01-04"
  ]
}
`
	if got := buf.String(); got != wantJSON {
		t.Errorf("EncodePriceGaps() =\n%s\nwant\n%s", got, wantJSON)
	}
}
