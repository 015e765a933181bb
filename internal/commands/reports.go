package commands

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"lumina/internal/core"
	"lumina/internal/log"
)

// recentCount is the number of latest transactions shown by summary.
const recentCount = 5

type summaryCmd struct {
	app *App
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show net worth, this month's totals and the budget" }
func (*summaryCmd) Usage() string {
	return `luminactl summary

  Prints the dashboard: net worth, income and expense for the current
  month, budget progress and the latest transactions.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fin := c.app.Finance
	c.app.printMarkdown(summaryMarkdown(fin.Profile(), fin.Summary(), fin.Recent(recentCount)))
	return subcommands.ExitSuccess
}

type breakdownCmd struct {
	app    *App
	txType string
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "show totals per category" }
func (*breakdownCmd) Usage() string {
	return `luminactl breakdown [-t expense|income]

  Groups all transactions of a type by category, largest total first.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.txType, "t", string(core.Expense), "Transaction type, expense or income.")
}

func (c *breakdownCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := core.ParseTransactionType(c.txType)
	if err != nil {
		c.app.errorf("Error: %v %q", err, c.txType)
		return subcommands.ExitUsageError
	}
	fin := c.app.Finance
	c.app.printMarkdown(breakdownMarkdown(t, fin.CategoryBreakdown(t), fin.Profile().Currency))
	return subcommands.ExitSuccess
}

type categoriesCmd struct {
	app    *App
	txType string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list predefined and used categories" }
func (*categoriesCmd) Usage() string {
	return `luminactl categories [-t expense|income]
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.txType, "t", string(core.Expense), "Transaction type, expense or income.")
}

func (c *categoriesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := core.ParseTransactionType(c.txType)
	if err != nil {
		c.app.errorf("Error: %v %q", err, c.txType)
		return subcommands.ExitUsageError
	}
	c.app.printMarkdown(categoriesMarkdown(t, c.app.Finance.UsedCategories(t)))
	return subcommands.ExitSuccess
}

type currenciesCmd struct {
	app *App
}

func (*currenciesCmd) Name() string           { return "currencies" }
func (*currenciesCmd) Synopsis() string       { return "list supported currencies" }
func (*currenciesCmd) Usage() string          { return "luminactl currencies\n" }
func (*currenciesCmd) SetFlags(*flag.FlagSet) {}

func (c *currenciesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.app.printMarkdown(currenciesMarkdown(core.Currencies()))
	return subcommands.ExitSuccess
}

type resetCmd struct {
	app *App
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "erase the profile and every transaction" }
func (*resetCmd) Usage() string {
	return `luminactl reset -yes

  Deletes all stored data. The next run starts from a fresh profile.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset.")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		c.app.errorf("Error: reset erases all data, pass -yes to confirm")
		return subcommands.ExitUsageError
	}
	err := c.app.Finance.Reset(ctx)
	if status := c.app.saved(ctx, log.OpReset, err); status != subcommands.ExitSuccess {
		return status
	}
	c.app.logger().InfoContext(ctx, "All data erased", log.FieldOperation, log.OpReset)
	return subcommands.ExitSuccess
}
