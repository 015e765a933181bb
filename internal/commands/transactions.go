package commands

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"lumina/internal/core"
	"lumina/internal/log"
)

type addCmd struct {
	app      *App
	txType   string
	amount   string
	category string
	note     string
	date     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or an expense" }
func (*addCmd) Usage() string {
	return `luminactl add -a <amount> [-t expense|income] [-cat <category>] [-note <text>] [-d <YYYY-MM-DD>]

  Adds a transaction. The category defaults to the first predefined
  category of the type, the date to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.txType, "t", string(core.Expense), "Transaction type, expense or income.")
	f.StringVar(&c.amount, "a", "", "Amount, e.g. 12.50 or 12,50. Invalid amounts count as 0.")
	f.StringVar(&c.category, "cat", "", "Category, predefined or custom.")
	f.StringVar(&c.note, "note", "", "Free-form note.")
	f.StringVar(&c.date, "d", "", "Date of the transaction. Defaults to today.")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fin := c.app.Finance

	t, err := core.ParseTransactionType(c.txType)
	if err != nil {
		c.app.errorf("Error: %v %q", err, c.txType)
		return subcommands.ExitUsageError
	}

	in := core.TransactionInput{
		Amount:   core.ParseAmount(c.amount),
		Type:     t,
		Category: strings.TrimSpace(c.category),
		Note:     strings.TrimSpace(c.note),
		Date:     fin.Now(),
	}
	if in.Category == "" {
		in.Category = core.DefaultCategory(t)
	}
	if c.date != "" {
		d, err := core.ParseDate(c.date, fin.Now().Location())
		if err != nil {
			c.app.errorf("Error parsing date: %v", err)
			return subcommands.ExitUsageError
		}
		in.Date = d
	}
	if err := in.Validate(); err != nil {
		c.app.errorf("Error: %v", err)
		return subcommands.ExitUsageError
	}

	tx, err := fin.AddTransaction(ctx, in)
	if status := c.app.saved(ctx, log.OpCreate, err); status != subcommands.ExitSuccess {
		return status
	}
	c.app.logger().InfoContext(ctx, "Transaction added", log.NewFields().
		WithOperation(log.OpCreate).
		WithTransaction(tx.ID, string(tx.Type), tx.Category, tx.Amount.Cents).
		ToSlice()...)

	c.app.printMarkdown(transactionsMarkdown([]core.Transaction{tx}, fin.Profile().Currency))
	return subcommands.ExitSuccess
}

type lsCmd struct {
	app      *App
	txType   string
	category string
	limit    int
}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "list transactions, newest first" }
func (*lsCmd) Usage() string {
	return `luminactl ls [-t all|expense|income] [-cat <category>] [-n <count>]

  Lists transactions in the order they were added, newest first.
`
}

func (c *lsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.txType, "t", "all", "Only show this type: all, expense or income.")
	f.StringVar(&c.category, "cat", "", "Only show this category.")
	f.IntVar(&c.limit, "n", 0, "Show at most n transactions. 0 shows all.")
}

func (c *lsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter := core.TransactionFilter{Category: strings.TrimSpace(c.category)}
	if v := strings.TrimSpace(c.txType); v != "" && v != "all" {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			c.app.errorf("Error: %v %q", err, c.txType)
			return subcommands.ExitUsageError
		}
		filter.Type = t
	}
	if c.limit < 0 {
		c.app.errorf("Error: -n must not be negative")
		return subcommands.ExitUsageError
	}

	fin := c.app.Finance
	c.app.printMarkdown(transactionsMarkdown(fin.Transactions(filter, c.limit), fin.Profile().Currency))
	return subcommands.ExitSuccess
}

type rmCmd struct {
	app *App
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions by id" }
func (*rmCmd) Usage() string {
	return `luminactl rm <id>...

  Deletes the given transactions. Unknown ids are ignored.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		c.app.errorf("Error: at least one transaction id is required")
		return subcommands.ExitUsageError
	}
	for _, id := range f.Args() {
		err := c.app.Finance.DeleteTransaction(ctx, strings.TrimSpace(id))
		if status := c.app.saved(ctx, log.OpDelete, err); status != subcommands.ExitSuccess {
			return status
		}
	}
	return subcommands.ExitSuccess
}
