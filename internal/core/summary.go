package core

// MonthlyStats holds income and expense totals for one calendar month.
type MonthlyStats struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
}

// CategoryTotal is the aggregate of one category within a breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
	Count    int    `json:"count"`
}

// Summary is the dashboard view of the ledger at a point in time.
type Summary struct {
	NetWorth        Money        `json:"netWorth"`
	Month           MonthlyStats `json:"month"`
	BudgetEnabled   bool         `json:"budgetEnabled"`
	BudgetProgress  float64      `json:"budgetProgress"`
	BudgetRemaining Money        `json:"budgetRemaining"`
	DailySafeSpend  Money        `json:"dailySafeSpend"`
	Transactions    int          `json:"transactions"`
}
