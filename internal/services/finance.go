package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"lumina/internal/core"
	"lumina/internal/log"
	"lumina/internal/storage"
)

// Finance ties the profile and the ledger to one store and computes the
// derived statistics. It is the single object adapters talk to.
type Finance struct {
	mu              sync.RWMutex
	store           storage.Store
	logger          *log.Logger
	now             func() time.Time
	defaultCurrency core.CurrencyCode

	profile *ProfileStore
	ledger  *Ledger
}

// Option configures a Finance.
type Option func(*Finance)

// WithClock overrides the clock used for month boundaries.
func WithClock(now func() time.Time) Option {
	return func(f *Finance) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Finance) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithDefaultCurrency sets the currency of a fresh profile.
func WithDefaultCurrency(code core.CurrencyCode) Option {
	return func(f *Finance) {
		if code.IsValid() {
			f.defaultCurrency = code
		}
	}
}

// Open loads the profile and the ledger from store. Missing or malformed
// records are replaced by defaults, so the only error is a nil store.
func Open(ctx context.Context, store storage.Store, opts ...Option) (*Finance, error) {
	if store == nil {
		return nil, errors.New("finance: store is required")
	}
	f := &Finance{
		store:           store,
		logger:          log.Discard(),
		now:             time.Now,
		defaultCurrency: core.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.load(ctx)

	f.logger.WithComponent(log.ComponentFinance).InfoContext(ctx, "Finance state loaded",
		log.FieldCount, f.ledger.Len(),
		"onboarded", f.profile.Get().IsOnboarded)
	return f, nil
}

func (f *Finance) load(ctx context.Context) {
	f.profile = LoadProfileStore(ctx, f.store, f.defaultCurrency, f.logger)
	f.ledger = LoadLedgerIn(ctx, f.store, f.now().Location(), f.logger)
}

// Profile returns a snapshot of the user profile.
func (f *Finance) Profile() core.UserProfile {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile.Get()
}

// UpdateProfile merges patch into the profile.
func (f *Finance) UpdateProfile(ctx context.Context, patch core.ProfilePatch) (core.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile.Update(ctx, patch)
}

// Onboard completes first-run setup.
func (f *Finance) Onboard(ctx context.Context, name string, currency core.CurrencyCode, initialBalance core.Money) (core.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile.Onboard(ctx, name, currency, initialBalance)
}

// ToggleTheme flips the profile theme.
func (f *Finance) ToggleTheme(ctx context.Context) (core.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile.ToggleTheme(ctx)
}

// AddTransaction records a transaction.
func (f *Finance) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Add(ctx, in)
}

// DeleteTransaction removes a transaction by id. Unknown ids are ignored.
func (f *Finance) DeleteTransaction(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Delete(ctx, id)
}

// Transactions returns the ledger newest-first, narrowed by filter and
// capped at limit when limit > 0.
func (f *Finance) Transactions(filter core.TransactionFilter, limit int) []core.Transaction {
	f.mu.RLock()
	defer f.mu.RUnlock()
	txs := f.ledger.Filter(filter)
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs
}

// Transaction looks up one transaction by id.
func (f *Finance) Transaction(id string) (core.Transaction, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ledger.Get(id)
}

// Recent returns the n most recently added transactions.
func (f *Finance) Recent(n int) []core.Transaction {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ledger.Recent(n)
}

// Reset wipes the profile and the ledger. Afterwards the state matches a
// freshly opened Finance over empty storage.
func (f *Finance) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := errors.Join(f.profile.Reset(ctx), f.ledger.Reset(ctx))
	logger := f.logger.WithComponent(log.ComponentFinance)
	if err != nil {
		logger.ErrorContext(ctx, "Reset did not fully clear storage", log.FieldError, err)
		return err
	}
	logger.InfoContext(ctx, "All data reset", log.FieldOperation, log.OpReset)
	return nil
}

// NetWorth is the initial balance plus all income minus all expenses.
func (f *Finance) NetWorth() core.Money {
	p, txs := f.snapshot()
	return core.NetWorth(p, txs)
}

// MonthlyStats totals income and expenses of the current calendar month.
func (f *Finance) MonthlyStats() core.MonthlyStats {
	_, txs := f.snapshot()
	return core.MonthlyTotals(txs, f.now())
}

// CategoryBreakdown groups all transactions of type t by category, largest
// total first.
func (f *Finance) CategoryBreakdown(t core.TransactionType) []core.CategoryTotal {
	_, txs := f.snapshot()
	return core.CategoryBreakdown(txs, t)
}

// BudgetProgress is the share of the monthly budget spent this month, 0-100.
func (f *Finance) BudgetProgress() float64 {
	p, txs := f.snapshot()
	return core.BudgetProgress(p, core.MonthlyTotals(txs, f.now()).Expense)
}

// BudgetRemaining is what is left of this month's budget, never negative.
func (f *Finance) BudgetRemaining() core.Money {
	p, txs := f.snapshot()
	return core.BudgetRemaining(p, core.MonthlyTotals(txs, f.now()).Expense)
}

// Summary computes every dashboard figure from one consistent snapshot.
func (f *Finance) Summary() core.Summary {
	p, txs := f.snapshot()
	return core.Summarize(p, txs, f.now())
}

// Categories lists the category choices for type t: the predefined ids
// followed by the custom labels already used in the ledger.
func (f *Finance) Categories(t core.TransactionType) []string {
	_, txs := f.snapshot()
	out := []string{}
	for _, c := range core.PredefinedCategories(t) {
		out = append(out, c.ID)
	}
	for _, used := range core.UsedCategories(txs, t) {
		if !slices.Contains(out, used) {
			out = append(out, used)
		}
	}
	return out
}

// UsedCategories lists the distinct categories present in the ledger.
func (f *Finance) UsedCategories(t core.TransactionType) []string {
	_, txs := f.snapshot()
	return core.UsedCategories(txs, t)
}

// Now returns the current time of the configured clock.
func (f *Finance) Now() time.Time { return f.now() }

func (f *Finance) snapshot() (core.UserProfile, []core.Transaction) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile.Get(), f.ledger.All()
}
