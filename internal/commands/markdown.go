package commands

import (
	"fmt"
	"strings"

	"lumina/internal/core"
	"lumina/internal/format"
)

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func money(m core.Money, cur core.CurrencyCode) string {
	return format.Money(m, cur, "", format.Options{})
}

func profileMarkdown(p core.UserProfile) string {
	var b strings.Builder
	name := p.Name
	if name == "" {
		name = "Profile"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	if !p.IsOnboarded {
		b.WriteString("_Not onboarded yet. Run `luminactl onboard`._\n\n")
	}
	b.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Currency | %s (%s) |\n", p.Currency, format.Symbol(p.Currency))
	fmt.Fprintf(&b, "| Initial balance | %s |\n", money(p.InitialBalance, p.Currency))
	budget := "none"
	if p.HasBudget() {
		budget = money(p.MonthlyBudget, p.Currency)
	}
	fmt.Fprintf(&b, "| Monthly budget | %s |\n", budget)
	fmt.Fprintf(&b, "| Theme | %s |\n", p.Theme)
	if p.Avatar != nil {
		avatar := p.Avatar.Value
		if p.Avatar.IsImage() {
			avatar = "image"
		}
		fmt.Fprintf(&b, "| Avatar | %s |\n", cell(avatar))
	}
	return b.String()
}

func budgetMarkdown(p core.UserProfile, sum core.Summary) string {
	if !sum.BudgetEnabled {
		return "No monthly budget set. Run `luminactl budget <amount>` to set one.\n"
	}
	var b strings.Builder
	b.WriteString("## Monthly budget\n\n")
	fmt.Fprintf(&b, "Spent %s of %s (%s).\n\n",
		money(sum.Month.Expense, p.Currency),
		money(p.MonthlyBudget, p.Currency),
		format.Percent(sum.BudgetProgress))
	fmt.Fprintf(&b, "- Remaining: %s\n", money(sum.BudgetRemaining, p.Currency))
	fmt.Fprintf(&b, "- Safe to spend per day: %s\n", money(sum.DailySafeSpend, p.Currency))
	return b.String()
}

func transactionsMarkdown(txs []core.Transaction, cur core.CurrencyCode) string {
	if len(txs) == 0 {
		return "No transactions.\n"
	}
	var b strings.Builder
	b.WriteString("| Date | Category | Amount | Note | ID |\n|---|---|---:|---|---|\n")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			tx.Date.Format(core.DateLayout),
			cell(tx.Category),
			money(tx.Signed(), cur),
			cell(tx.Note),
			tx.ID)
	}
	return b.String()
}

func summaryMarkdown(p core.UserProfile, sum core.Summary, recent []core.Transaction) string {
	var b strings.Builder
	title := "Summary"
	if p.Name != "" {
		title = p.Name + "'s summary"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Net worth:** %s\n\n", format.Money(sum.NetWorth, p.Currency, "", format.Options{Whole: true}))
	b.WriteString("| This month | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", money(sum.Month.Income, p.Currency))
	fmt.Fprintf(&b, "| Expense | %s |\n", money(sum.Month.Expense, p.Currency))
	b.WriteString("\n")

	if sum.BudgetEnabled {
		b.WriteString(budgetMarkdown(p, sum))
		b.WriteString("\n")
	}

	b.WriteString("## Recent transactions\n\n")
	b.WriteString(transactionsMarkdown(recent, p.Currency))
	return b.String()
}

func breakdownMarkdown(t core.TransactionType, groups []core.CategoryTotal, cur core.CurrencyCode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s by category\n\n", strings.ToUpper(string(t[:1]))+string(t[1:]))
	if len(groups) == 0 {
		b.WriteString("Nothing recorded yet.\n")
		return b.String()
	}
	b.WriteString("| Category | Total | Count | Share |\n|---|---:|---:|---:|\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			cell(g.Category),
			money(g.Total, cur),
			g.Count,
			format.Percent(core.PercentageOfTotal(g, groups)))
	}
	return b.String()
}

func categoriesMarkdown(t core.TransactionType, used []string) string {
	var b strings.Builder
	def := core.DefaultCategory(t)
	fmt.Fprintf(&b, "## %s categories\n\n", t)
	for _, c := range core.PredefinedCategories(t) {
		mark := ""
		if c.ID == def {
			mark = " (default)"
		}
		fmt.Fprintf(&b, "- %s: %s%s\n", c.ID, c.Label, mark)
	}

	var custom []string
	for _, u := range used {
		if !core.IsPredefined(t, u) {
			custom = append(custom, u)
		}
	}
	if len(custom) > 0 {
		b.WriteString("\n### Custom\n\n")
		for _, c := range custom {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	return b.String()
}

func currenciesMarkdown(list []core.CurrencyInfo) string {
	var b strings.Builder
	b.WriteString("| Code | Symbol | Name |\n|---|---|---|\n")
	for _, c := range list {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", c.Code, c.Symbol, c.Name)
	}
	return b.String()
}
