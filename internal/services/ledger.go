package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"lumina/internal/core"
	"lumina/internal/log"
	"lumina/internal/storage"
)

// Ledger is the ordered collection of transactions, newest-inserted first.
// Every mutation is written through to the store before returning.
type Ledger struct {
	mu     sync.RWMutex
	store  storage.Store
	logger *log.Logger
	txs    []core.Transaction
	newID  func() string
}

// LoadLedger restores the ledger from the transactions record, reading
// plain calendar dates in time.Local. See LoadLedgerIn.
func LoadLedger(ctx context.Context, store storage.Store, logger *log.Logger) *Ledger {
	return LoadLedgerIn(ctx, store, time.Local, logger)
}

// LoadLedgerIn restores the ledger from the transactions record, placing plain
// calendar dates of older records in loc. A missing, unreadable or malformed
// record yields an empty ledger; the problem is only logged.
func LoadLedgerIn(ctx context.Context, store storage.Store, loc *time.Location, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.Discard()
	}
	l := &Ledger{
		store:  store,
		logger: logger.WithComponent(log.ComponentLedger),
		txs:    []core.Transaction{},
		newID:  uuid.NewString,
	}

	raw, found, err := store.Get(ctx, storage.TransactionsKey)
	switch {
	case err != nil:
		l.logger.WarnContext(ctx, "Failed to read transactions, starting empty", log.NewFields().
			WithOperation(log.OpRead).
			WithRecord(storage.TransactionsKey).
			WithError(err).
			WithErrorType(log.ErrorTypeStorage).
			ToSlice()...)
		return l
	case !found:
		l.logger.DebugContext(ctx, "No stored transactions")
		return l
	}

	txs, err := core.DecodeTransactions([]byte(raw), loc)
	if err != nil {
		l.logger.WarnContext(ctx, "Stored transactions are malformed, starting empty", log.NewFields().
			WithOperation(log.OpLoad).
			WithRecord(storage.TransactionsKey).
			WithError(err).
			WithErrorType(log.ErrorTypeCorruptData).
			ToSlice()...)
		return l
	}
	if txs != nil {
		l.txs = txs
	}
	l.logger.DebugContext(ctx, "Ledger loaded", log.FieldCount, len(l.txs))
	return l
}

// Add records a new transaction at the front of the ledger. A non-nil error
// means the write to the store failed; the transaction stays in memory.
func (l *Ledger) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := core.Transaction{
		ID:       l.newID(),
		Amount:   in.Amount,
		Type:     in.Type,
		Category: in.Category,
		Note:     in.Note,
		Date:     in.Date,
	}
	l.txs = slices.Insert(l.txs, 0, tx)

	if err := l.persistLocked(ctx); err != nil {
		return tx, fmt.Errorf("add transaction %s: %w", tx.ID, err)
	}
	l.logger.DebugContext(ctx, "Transaction added",
		log.FieldTransactionID, tx.ID, log.FieldTxType, tx.Type, log.FieldAmountCents, tx.Amount.Cents)
	return tx, nil
}

// Delete removes the transaction with the given id. Unknown ids are ignored
// and cause no write.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.txs, func(tx core.Transaction) bool { return tx.ID == id })
	if i < 0 {
		l.logger.DebugContext(ctx, "Delete of unknown transaction ignored", log.FieldTransactionID, id)
		return nil
	}
	l.txs = slices.Delete(l.txs, i, i+1)

	if err := l.persistLocked(ctx); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// Reset empties the ledger and erases the stored record.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.txs = []core.Transaction{}
	if err := l.store.Delete(ctx, storage.TransactionsKey); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

// All returns a copy of every transaction, newest-inserted first.
func (l *Ledger) All() []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.txs)
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (core.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, tx := range l.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

// Filter returns the transactions matching f, in ledger order.
func (l *Ledger) Filter(f core.TransactionFilter) []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return core.FilterTransactions(l.txs, f)
}

// Recent returns at most n transactions from the front of the ledger.
func (l *Ledger) Recent(n int) []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	return slices.Clone(l.txs[:min(n, len(l.txs))])
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(l.txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := l.store.Set(ctx, storage.TransactionsKey, string(data)); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist transactions",
			log.NewFields().
			WithOperation(log.OpPersist).
			WithRecord(storage.TransactionsKey).
			WithError(err).
			WithErrorType(log.ErrorTypeStorage).
			ToSlice()...)
		return err
	}
	return nil
}
