package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// orderedObject encodes a JSON object whose fields keep the order they were
// set in, so that transactions.json stays readable and diffable.
// The zero value is an empty object.
type orderedObject struct {
	fields []orderedField
	err    error
}

type orderedField struct {
	key   string
	value json.RawMessage
}

// Set encodes value under key, zero or not.
func (o *orderedObject) Set(key string, value any) {
	if o.err != nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return
	}
	o.fields = append(o.fields, orderedField{key, raw})
}

// SetNonZero encodes value under key unless it is zero or an empty slice.
func (o *orderedObject) SetNonZero(key string, value any) {
	if isZero(value) {
		return
	}
	o.Set(key, value)
}

func isZero(value any) bool {
	if z, ok := value.(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		return true
	case v.Kind() == reflect.Slice:
		return v.Len() == 0
	}
	return v.IsZero()
}

// MarshalJSON implements json.Marshaler.
func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		b.Write(key)
		b.WriteByte(':')
		b.Write(f.value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
