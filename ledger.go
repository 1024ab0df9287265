package tracker

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
)

// Ledger is the transaction log.
//
// Transactions are kept in insertion order, which is also the file order. Each
// transaction gets a sequence number when it enters the ledger; replays order
// transactions by received date and then by sequence.
type Ledger struct {
	transactions []Transaction
	nextSeq      int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// push appends tx without any check.
func (l *Ledger) push(tx Transaction) {
	tx.head().seq = l.nextSeq
	l.nextSeq++
	l.transactions = append(l.transactions, tx)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns the transactions in ledger order.
func (l *Ledger) Transactions() []Transaction { return slices.Clone(l.transactions) }

// Chronological returns the transactions sorted by received date. The sort is
// stable: transactions received the same day keep their ledger order.
func (l *Ledger) Chronological() []Transaction {
	txs := l.Transactions()
	stableSort(txs)
	return txs
}

// stableSort sorts transactions by received date, then by sequence number.
func stableSort(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i].head(), txs[j].head()
		if c := a.Received.Compare(b.Received); c != 0 {
			return c < 0
		}
		return a.seq < b.seq
	})
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.Identifier() == id })
}

// Get returns the transaction with this id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	if i := l.index(id); i >= 0 {
		return l.transactions[i], true
	}
	return nil, false
}

// newID returns a short random id not yet used in the ledger.
func (l *Ledger) newID() string {
	for {
		id := uuid.NewString()[:8]
		if l.index(id) < 0 {
			return id
		}
	}
}

// Append adds tx at the end of the ledger. An empty id is replaced by a new
// one, an id already in use is an error.
func (l *Ledger) Append(tx Transaction) error {
	h := tx.head()
	if h.ID == "" {
		h.ID = l.newID()
	} else if l.index(h.ID) >= 0 {
		return fmt.Errorf("duplicate transaction id %q", h.ID)
	}
	l.push(tx)
	return nil
}

// Replace substitutes the transaction with this id by tx. tx takes over the
// id, the ledger position and the sequence number of the one it replaces.
func (l *Ledger) Replace(id string, tx Transaction) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	h := tx.head()
	h.ID = id
	h.seq = l.transactions[i].head().seq
	l.transactions[i] = tx
	return nil
}

// Delete removes the transaction with this id and returns it.
func (l *Ledger) Delete(id string) (Transaction, error) {
	i := l.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	tx := l.transactions[i]
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return tx, nil
}

// Clone returns a ledger sharing the transactions but not the list, so that
// candidate changes can be checked before being applied.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{transactions: slices.Clone(l.transactions), nextSeq: l.nextSeq}
}

// Products returns every product referenced by the ledger, sorted.
func (l *Ledger) Products() []ProductKey {
	seen := make(map[ProductKey]bool)
	var keys []ProductKey
	for _, tx := range l.transactions {
		for _, item := range tx.Lines() {
			if k := item.Key(); !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.SortFunc(keys, ProductKey.Compare)
	return keys
}

// Oldest returns the earliest received date, or the zero Date for an empty ledger.
func (l *Ledger) Oldest() Date {
	var oldest Date
	for _, tx := range l.transactions {
		if oldest.IsZero() || tx.When().Before(oldest) {
			oldest = tx.When()
		}
	}
	return oldest
}

// Newest returns the latest received date, or the zero Date for an empty ledger.
func (l *Ledger) Newest() Date {
	var newest Date
	for _, tx := range l.transactions {
		if tx.When().After(newest) {
			newest = tx.When()
		}
	}
	return newest
}
