package tracker

import (
	"errors"
	"testing"
)

type failingValue struct{}

func (failingValue) MarshalJSON() ([]byte, error) { return nil, errors.New("boom") }

func TestOrderedObject(t *testing.T) {
	tests := []struct {
		name  string
		build func(o *orderedObject)
		want  string
	}{
		{"empty", func(o *orderedObject) {}, `{}`},
		{"order is kept", func(o *orderedObject) {
			o.Set("type", KindBuy)
			o.Set("amount", M(12.5))
			o.Set("id", "x")
		}, `{"type":"BUY","amount":12.50,"id":"x"}`},
		{"zero values", func(o *orderedObject) {
			o.Set("a", 0)
			o.SetNonZero("b", "")
			o.SetNonZero("c", Money{})
			o.SetNonZero("d", []Item{})
			o.SetNonZero("e", Date{})
			o.SetNonZero("f", Quantity{})
			o.SetNonZero("g", "hello")
		}, `{"a":0,"g":"hello"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var o orderedObject
			tc.build(&o)
			got, err := o.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tc.want)
			}
		})
	}

	t.Run("error", func(t *testing.T) {
		var o orderedObject
		o.Set("bad", failingValue{})
		o.Set("good", 1)
		if _, err := o.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() succeeded with a failing field")
		}
	})
}
