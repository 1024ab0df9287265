package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Appending two values in reverse order and checking every step.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}

	h.Append(d1, "overwritten")
	if got, _ := h.Get(d1); h.Len() != 2 || got != "overwritten" {
		t.Errorf("Append(d1) again: Len() = %d, Get() = %q, want 2, %q", h.Len(), got, "overwritten")
	}
}

func TestValueAsOf(t *testing.T) {
	var h History[int]
	h.Append(New(2024, 1, 6), 12)
	h.Append(New(2024, 1, 2), 10)

	tests := []struct {
		day    Date
		want   int
		wantOn Date
		ok     bool
	}{
		{New(2024, 1, 1), 0, Date{}, false},
		{New(2024, 1, 2), 10, New(2024, 1, 2), true},
		{New(2024, 1, 5), 10, New(2024, 1, 2), true},
		{New(2024, 1, 6), 12, New(2024, 1, 6), true},
		{New(2024, 3, 1), 12, New(2024, 1, 6), true},
	}
	for _, tt := range tests {
		got, on, ok := h.ValueAsOf(tt.day)
		if got != tt.want || on != tt.wantOn || ok != tt.ok {
			t.Errorf("ValueAsOf(%v) = %v, %v, %v, want %v, %v, %v", tt.day, got, on, ok, tt.want, tt.wantOn, tt.ok)
		}
	}
}
