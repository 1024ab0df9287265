package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore is a PriceStore keeping one JSON file per product, at
// <dir>/<category>/<group>/<product>.json. Each file is an object mapping
// YYYY-MM-DD to the market price, keys sorted.
type FileStore struct {
	dir string
}

// NewFileStore returns a file store rooted at dir. The directory is created on
// the first write.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// Dir returns the root directory of the store.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(k ProductKey) string {
	return filepath.Join(s.dir, string(k.Category), string(k.Group), string(k.Product)+".json")
}

// History reads the price file of a product.
func (s *FileStore) History(k ProductKey) (*PriceHistory, error) {
	path := s.path(k)
	h := new(PriceHistory)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return h, &StoreAccessError{Path: path, Product: k, Err: err}
	}
	var prices map[Date]Money
	if err := json.Unmarshal(data, &prices); err != nil {
		return h, &StoreAccessError{Path: path, Product: k, Err: err}
	}
	for day, price := range prices {
		h.Append(day, price)
	}
	return h, nil
}

// Upsert merges points into the price files, one rewrite per product.
func (s *FileStore) Upsert(points ...PricePoint) error {
	byKey, keys := groupPoints(points)
	var errs []error
	for _, k := range keys {
		h, err := s.History(k)
		if err != nil {
			// a corrupt file is left for inspection rather than overwritten.
			errs = append(errs, err)
			continue
		}
		for _, p := range byKey[k] {
			h.Append(p.Date, p.Price)
		}
		if err := s.write(k, h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *FileStore) write(k ProductKey, h *PriceHistory) error {
	prices := make(map[Date]Money, h.Len())
	for day, price := range h.Values() {
		prices[day] = price
	}
	// map keys are sorted by encoding/json, YYYY-MM-DD sorts chronologically.
	data, err := json.MarshalIndent(prices, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode prices of %s: %w", k, err)
	}
	return WriteFileAtomic(s.path(k), append(data, '\n'))
}

// Products walks the store and returns every product having a price file.
func (s *FileStore) Products() ([]ProductKey, error) {
	var keys []ProductKey
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		k, err := ParseProductKey(strings.TrimSuffix(filepath.ToSlash(rel), ".json"))
		if err != nil {
			// not a price file
			return nil
		}
		keys = append(keys, k)
		return nil
	})
	return keys, err
}

var _ PriceStore = (*FileStore)(nil)
