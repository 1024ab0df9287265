package tcgcsv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	tracker "github.com/etnz/tcgtracker"
)

// ErrNoResults is returned for a prices document without results, like the
// {"success": false} answers of groups that have no price.
var ErrNoResults = errors.New("prices document has no results")

// ParsePrices reads a group "prices" document:
//
//	{"success": true, "results": [{"productId": 1, "marketPrice": 1.23, ...}, ...]}
//
// Results without a market price are skipped. A product listed several times
// (one entry per printing) keeps the last market price listed.
func ParsePrices(data []byte) (map[tracker.ID]tracker.Money, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid prices document: %w", err)
	}
	if m, ok := doc.(map[string]any); !ok || m["results"] == nil {
		return nil, ErrNoResults
	}
	results, err := jsonpath.Get("$.results[*]", doc)
	if err != nil {
		return nil, fmt.Errorf("invalid prices document: %w", err)
	}
	list, ok := results.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid prices document: results is %T", results)
	}

	prices := make(map[tracker.ID]tracker.Money, len(list))
	for _, r := range list {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		id, ok := entry["productId"].(json.Number)
		if !ok {
			continue
		}
		mp, ok := entry["marketPrice"].(json.Number)
		if !ok {
			continue
		}
		price, err := tracker.ParseMoney(mp.String())
		if err != nil {
			continue
		}
		prices[tracker.ID(id.String())] = price
	}
	return prices, nil
}
