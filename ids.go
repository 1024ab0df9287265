package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a marketplace identifier (category, group or product). Files written by
// older tools hold them either as JSON numbers or strings, they are always
// written back as strings.
type ID string

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// ProductKey identifies a product and the partition of its prices.
type ProductKey struct {
	Category ID
	Group    ID
	Product  ID
}

// String returns the "category/group/product" form used in reports.
func (k ProductKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Category, k.Group, k.Product)
}

// ParseProductKey is the reverse of ProductKey.String.
func ParseProductKey(s string) (ProductKey, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ProductKey{}, fmt.Errorf("invalid product key %q want category/group/product", s)
	}
	return ProductKey{ID(parts[0]), ID(parts[1]), ID(parts[2])}, nil
}

// Compare orders keys by category, group, then product.
func (k ProductKey) Compare(x ProductKey) int {
	if c := strings.Compare(string(k.Category), string(x.Category)); c != 0 {
		return c
	}
	if c := strings.Compare(string(k.Group), string(x.Group)); c != 0 {
		return c
	}
	return strings.Compare(string(k.Product), string(x.Product))
}

// MarshalText lets ProductKey be used as a JSON object key.
func (k ProductKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText is the reverse of MarshalText.
func (k *ProductKey) UnmarshalText(text []byte) error {
	v, err := ParseProductKey(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
