package tracker

import "testing"

func TestNewHoldingReport(t *testing.T) {
	txs := []Transaction{
		buy("b1", day("2024-01-01"), 0, item(etb, 2, 50), item(pikachu, 10, 1), item(charizard, 1, 30)),
	}
	store := newMemStore().
		set(etb, map[string]float64{"2024-01-01": 55}).
		set(pikachu, map[string]float64{"2024-01-02": 2})
	catalog := NewCatalog()
	catalog.Add(Product{ProductID: etb.Product, GroupID: etb.Group, CategoryID: etb.Category, Name: "Elite Trainer Box"})

	tl, _ := BuildTimeline(txs, NewRange(day("2024-01-01"), day("2024-01-02")), AverageCost)
	state, _ := tl.Last()
	report := NewHoldingReport(state, store, catalog)

	if len(report.Holdings) != 3 {
		t.Fatalf("len(Holdings) = %d, want 3", len(report.Holdings))
	}
	tests := []struct {
		product   ProductKey
		name      string
		value     Money
		priceDate string
	}{
		{etb, "Elite Trainer Box", USD(110), "2024-01-01"},
		{pikachu, pikachu.String(), USD(20), "2024-01-02"},
		{charizard, charizard.String(), USD(0), ""}, // never priced
	}
	for i, tc := range tests {
		h := report.Holdings[i]
		if h.Product != tc.product || h.Name != tc.name || !h.Value.Equal(tc.value) {
			t.Errorf("Holdings[%d] = %s %q %s, want %s %q %s", i, h.Product, h.Name, h.Value, tc.product, tc.name, tc.value)
		}
		if tc.priceDate != "" && h.PriceDate != day(tc.priceDate) {
			t.Errorf("Holdings[%d].PriceDate = %s, want %s", i, h.PriceDate, tc.priceDate)
		}
	}
	if !report.TotalValue.Equal(USD(130)) || !report.CostBasis.Equal(USD(140)) {
		t.Errorf("TotalValue, CostBasis = %s, %s, want $130, $140", report.TotalValue, report.CostBasis)
	}
	if g := report.Holdings[0].Gain(); !g.Equal(USD(10)) {
		t.Errorf("Gain() = %s, want $10", g)
	}
}
