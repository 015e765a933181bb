package core

// Category is a predefined category. Users may also type their own labels,
// which are stored as plain strings.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var (
	expenseCategories = []Category{
		{ID: "Food", Label: "Food & Dining"},
		{ID: "Transport", Label: "Transport"},
		{ID: "Shopping", Label: "Shopping"},
		{ID: "Entertainment", Label: "Entertainment"},
		{ID: "Health", Label: "Health"},
		{ID: "Bills", Label: "Bills & Utilities"},
		{ID: "Education", Label: "Education"},
		{ID: "Other", Label: "Other"},
	}

	incomeCategories = []Category{
		{ID: "Salary", Label: "Salary"},
		{ID: "Finance", Label: "Investments"},
		{ID: "Freelancing", Label: "Freelancing"},
		{ID: "Business", Label: "Business"},
		{ID: "Gift", Label: "Gift"},
		{ID: "Rental", Label: "Rental"},
		{ID: "Sold Items", Label: "Sold Items"},
		{ID: "Other", Label: "Other"},
	}
)

// PredefinedCategories returns the built-in categories for a transaction type.
func PredefinedCategories(t TransactionType) []Category {
	switch t {
	case Income:
		return append([]Category(nil), incomeCategories...)
	case Expense:
		return append([]Category(nil), expenseCategories...)
	default:
		return nil
	}
}

// DefaultCategory is the category preselected for a new transaction.
func DefaultCategory(t TransactionType) string {
	if t == Income {
		return incomeCategories[0].ID
	}
	return expenseCategories[0].ID
}

// IsPredefined reports whether id is a built-in category of type t.
func IsPredefined(t TransactionType, id string) bool {
	for _, c := range PredefinedCategories(t) {
		if c.ID == id {
			return true
		}
	}
	return false
}
