package core

import (
	"math"
	"slices"
	"sort"
	"time"
)

// safeSpendDays is the fixed month length used for the daily safe-spend hint.
const safeSpendDays = 30

// NetWorth is the initial balance plus all income minus all expenses,
// regardless of date.
func NetWorth(p UserProfile, txs []Transaction) Money {
	total := p.InitialBalance
	for _, tx := range txs {
		total = total.Add(tx.Signed())
	}
	return total
}

// MonthlyTotals sums income and expense for transactions dated in the
// calendar month of now.
func MonthlyTotals(txs []Transaction, now time.Time) MonthlyStats {
	var st MonthlyStats
	for _, tx := range txs {
		if !SameMonth(tx.Date, now) {
			continue
		}
		switch tx.Type {
		case Income:
			st.Income = st.Income.Add(tx.Amount)
		case Expense:
			st.Expense = st.Expense.Add(tx.Amount)
		}
	}
	return st
}

// CategoryBreakdown groups transactions of type t by category and returns the
// groups by descending total. Equal totals keep first-seen order.
func CategoryBreakdown(txs []Transaction, t TransactionType) []CategoryTotal {
	index := map[string]int{}
	groups := []CategoryTotal{}
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(groups)
			index[tx.Category] = i
			groups = append(groups, CategoryTotal{Category: tx.Category})
		}
		groups[i].Total = groups[i].Total.Add(tx.Amount)
		groups[i].Count++
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Total.Cents > groups[b].Total.Cents
	})
	return groups
}

// PercentageOfTotal is the share of group in the sum of all groups, in
// percent. It is 0 when the sum is 0.
func PercentageOfTotal(group CategoryTotal, all []CategoryTotal) float64 {
	var sum int64
	for _, g := range all {
		sum += g.Total.Cents
	}
	if sum == 0 {
		return 0
	}
	return float64(group.Total.Cents) / float64(sum) * 100
}

// BudgetProgress is the share of the monthly budget consumed by expense,
// clamped to 100. It is 0 when no budget is set.
func BudgetProgress(p UserProfile, expense Money) float64 {
	if !p.HasBudget() {
		return 0
	}
	return math.Min(float64(expense.Cents)/float64(p.MonthlyBudget.Cents)*100, 100)
}

// BudgetRemaining is what is left of the monthly budget, never negative.
func BudgetRemaining(p UserProfile, expense Money) Money {
	rem := p.MonthlyBudget.Sub(expense)
	if rem.Cents < 0 {
		return Money{}
	}
	return rem
}

// DailySafeSpend spreads the remaining budget over a 30-day month.
func DailySafeSpend(remaining Money) Money {
	if remaining.Cents <= 0 {
		return Money{}
	}
	return Money{Cents: remaining.Cents / safeSpendDays}
}

// FilterTransactions returns the transactions matching f, preserving order.
func FilterTransactions(txs []Transaction, f TransactionFilter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// UsedCategories returns the sorted distinct categories of transactions of
// type t. An empty t includes both types.
func UsedCategories(txs []Transaction, t TransactionType) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, tx := range txs {
		if t != "" && tx.Type != t {
			continue
		}
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	slices.Sort(out)
	return out
}

// Summarize computes the dashboard figures for the given state.
func Summarize(p UserProfile, txs []Transaction, now time.Time) Summary {
	month := MonthlyTotals(txs, now)
	remaining := BudgetRemaining(p, month.Expense)
	s := Summary{
		NetWorth:        NetWorth(p, txs),
		Month:           month,
		BudgetEnabled:   p.HasBudget(),
		BudgetProgress:  BudgetProgress(p, month.Expense),
		BudgetRemaining: remaining,
		Transactions:    len(txs),
	}
	if s.BudgetEnabled {
		s.DailySafeSpend = DailySafeSpend(remaining)
	}
	return s
}
