package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a transaction id is not in the ledger.
	ErrNotFound = errors.New("transaction not found")
	// ErrUnknownProduct is returned when a transaction references a product
	// missing from the catalog.
	ErrUnknownProduct = errors.New("unknown product")
)

// ValidationError reports a malformed transaction. It is raised before the
// transaction enters the ledger.
type ValidationError struct {
	TxID   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.TxID == "" {
		return fmt.Sprintf("invalid transaction: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid transaction %s: %s: %s", e.TxID, e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InventoryError reports a transaction that would make a product's quantity
// negative. It aborts the whole replay.
type InventoryError struct {
	TxID     string
	Kind     Kind
	Product  ProductKey
	Date     Date
	Held     Quantity // quantity held before the transaction
	Quantity Quantity // quantity the transaction tried to remove
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("%s %s on %s: inventory of %s would go to %s (held %s, removing %s)",
		e.Kind, e.TxID, e.Date, e.Product, e.Held.Sub(e.Quantity), e.Held, e.Quantity)
}

// StoreAccessError reports an unreadable or corrupt store file.
type StoreAccessError struct {
	Path    string
	Product ProductKey
	Err     error
}

func (e *StoreAccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *StoreAccessError) Unwrap() error { return e.Err }

// DataQualityWarning records held days valued at zero because no price was
// known on or before them. Consecutive days of the same product are merged.
type DataQualityWarning struct {
	Product ProductKey
	From    Date
	To      Date
	Days    int
	Cause   error // a *StoreAccessError when the history could not be read
}

func (w DataQualityWarning) Error() string {
	span := w.From.String()
	if w.To != w.From {
		span = fmt.Sprintf("%s..%s", w.From, w.To)
	}
	if w.Cause != nil {
		return fmt.Sprintf("no price for %s on %s (%d days): %v", w.Product, span, w.Days, w.Cause)
	}
	return fmt.Sprintf("no price for %s on %s (%d days)", w.Product, span, w.Days)
}
