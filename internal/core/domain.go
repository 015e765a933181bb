package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// maxNoteRunes limits the length of a transaction note in characters.
const maxNoteRunes = 500

// DateLayout is the calendar-date form used by date inputs and older records.
const DateLayout = "2006-01-02"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

type (
	TransactionType string

	Theme string

	// Transaction is a single recorded income or expense. Amount is always a
	// magnitude; the sign comes from Type.
	Transaction struct {
		ID       string          `json:"id"`
		Amount   Money           `json:"amount"`
		Type     TransactionType `json:"type"`
		Category string          `json:"category"`
		Note     string          `json:"note"`
		Date     time.Time       `json:"date"`
	}

	// TransactionInput is a transaction that has not been assigned an ID yet.
	TransactionInput struct {
		Amount   Money
		Type     TransactionType
		Category string
		Note     string
		Date     time.Time
	}

	// TransactionFilter selects transactions by type and category. Empty
	// fields match everything.
	TransactionFilter struct {
		Type     TransactionType
		Category string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyCategory   = errors.New("empty category")
)

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

func (t Theme) IsValid() bool {
	return t == Light || t == Dark
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Validate checks what adapters must enforce before handing input to the
// ledger. The ledger itself does not re-validate.
func (in TransactionInput) Validate() error {
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if in.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if utf8.RuneCountInString(in.Note) > maxNoteRunes {
		return fmt.Errorf("note too long (max %d characters)", maxNoteRunes)
	}
	return nil
}

// Matches reports whether tx passes the filter.
func (f TransactionFilter) Matches(tx Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	return true
}

// Signed returns the amount with the sign implied by the transaction type.
func (tx Transaction) Signed() Money {
	if tx.Type == Expense {
		return Money{Cents: -tx.Amount.Cents}
	}
	return tx.Amount
}

// SameMonth reports whether d falls in the calendar month of ref, using ref's
// location.
func SameMonth(d, ref time.Time) bool {
	d = d.In(ref.Location())
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}

// ParseDate accepts an RFC 3339 timestamp or a plain calendar date. Plain
// dates are placed at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// UnmarshalJSON accepts both timestamp and plain calendar dates. Plain dates
// are placed in time.Local; use DecodeTransactions to choose the location.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	return tx.decode(data, time.Local)
}

func (tx *Transaction) decode(data []byte, loc *time.Location) error {
	type plain Transaction
	var aux struct {
		plain
		Date string `json:"date"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*tx = Transaction(aux.plain)
	if aux.Date == "" {
		tx.Date = time.Time{}
		return nil
	}
	d, err := ParseDate(aux.Date, loc)
	if err != nil {
		return err
	}
	tx.Date = d
	return nil
}

// DecodeTransactions decodes a JSON array of transactions. Plain calendar
// dates from older records are placed at midnight in loc, the location used
// for month boundaries.
func DecodeTransactions(data []byte, loc *time.Location) ([]Transaction, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	if raws == nil {
		return nil, nil
	}
	txs := make([]Transaction, len(raws))
	for i, raw := range raws {
		if err := txs[i].decode(raw, loc); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return txs, nil
}
