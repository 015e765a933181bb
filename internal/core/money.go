// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings and
// for converting between cents and their decimal representation.
package core

import (
	"bytes"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in hundredths of the major currency unit.
type Money struct {
	Cents int64
}

// MaxAmountCents bounds a single parsed amount to 10^13 major units, so sums
// of many amounts stay far inside int64.
const MaxAmountCents int64 = 1e15

var maxCentsDecimal = decimal.New(MaxAmountCents, 0)

// NewMoney builds a Money from a major-unit value, rounding to cents.
func NewMoney(major float64) Money {
	return fromDecimal(decimal.NewFromFloat(major))
}

func fromDecimal(d decimal.Decimal) Money {
	cents := d.Shift(2).Round(0)
	switch {
	case cents.GreaterThan(maxCentsDecimal):
		return Money{Cents: MaxAmountCents}
	case cents.LessThan(maxCentsDecimal.Neg()):
		return Money{Cents: -MaxAmountCents}
	}
	return Money{Cents: cents.IntPart()}
}

// Decimal returns the exact major-unit value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the major-unit value as a float64 for ratio computations.
// Use cents for sums to avoid floating-point drift.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns m+n, saturating at the int64 limits instead of wrapping.
func (m Money) Add(n Money) Money {
	sum := m.Cents + n.Cents
	switch {
	case n.Cents > 0 && sum < m.Cents:
		return Money{Cents: math.MaxInt64}
	case n.Cents < 0 && sum > m.Cents:
		return Money{Cents: math.MinInt64}
	}
	return Money{Cents: sum}
}

// Sub returns m-n, saturating like Add.
func (m Money) Sub(n Money) Money {
	if n.Cents == math.MinInt64 {
		return m.Add(Money{Cents: math.MaxInt64}).Add(Money{Cents: 1})
	}
	return m.Add(Money{Cents: -n.Cents})
}

func (m Money) IsZero() bool { return m.Cents == 0 }

// String renders the value with exactly two decimals and a dot separator.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON writes the amount as a bare decimal number, e.g. 12.5.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		m.Cents = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		m.Cents = 0
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	if d.Shift(2).Abs().GreaterThan(maxCentsDecimal) {
		return ErrInvalidAmount
	}
	*m = fromDecimal(d)
	return nil
}

// ParseDecimalToCents converts a decimal string to cents with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading minus sign. Zero is a valid amount.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12,34")  -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("-5")     -> -500, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.ContainsAny(s, "eE") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Shift(2).Abs().GreaterThan(maxCentsDecimal) {
		return 0, ErrInvalidAmount
	}
	return fromDecimal(d).Cents, nil
}

// ParseAmount parses a non-negative amount such as a transaction amount or a
// monthly budget. Unparseable or negative input yields zero.
func ParseAmount(s string) Money {
	cents, err := ParseDecimalToCents(s)
	if err != nil || cents < 0 {
		return Money{}
	}
	return Money{Cents: cents}
}

// ParseBalance parses a signed amount such as an initial balance.
// Unparseable input yields zero.
func ParseBalance(s string) Money {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}
	}
	return Money{Cents: cents}
}
