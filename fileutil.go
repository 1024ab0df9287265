package tracker

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, so that readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create directory for %q: %w", path, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %q: %w", path, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot close %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot replace %q: %w", path, err)
	}
	return nil
}

// writeWith encodes through enc into a buffer and atomically writes the result.
func writeWith(path string, enc func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := enc(&buf); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// LoadLedger reads the transaction log. A missing file is an empty ledger.
func LoadLedger(path string, defaultCategory ID) (*Ledger, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, &StoreAccessError{Path: path, Err: err}
	}
	defer f.Close()
	l, err := DecodeLedger(f, defaultCategory)
	if err != nil {
		return nil, &StoreAccessError{Path: path, Err: err}
	}
	return l, nil
}

// SaveLedger atomically rewrites the transaction log.
func SaveLedger(path string, l *Ledger) error {
	return writeWith(path, func(w io.Writer) error { return EncodeLedger(w, l) })
}

// LoadCatalog reads the product catalog. A missing file is an empty catalog.
func LoadCatalog(path string, defaultCategory ID) (*Catalog, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewCatalog(), nil
	}
	if err != nil {
		return nil, &StoreAccessError{Path: path, Err: err}
	}
	defer f.Close()
	c, err := DecodeCatalog(f, defaultCategory)
	if err != nil {
		return nil, &StoreAccessError{Path: path, Err: err}
	}
	return c, nil
}

// SaveCatalog atomically rewrites the product catalog.
func SaveCatalog(path string, c *Catalog) error {
	return writeWith(path, func(w io.Writer) error { return EncodeCatalog(w, c) })
}
