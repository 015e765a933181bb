package commands

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"lumina/internal/core"
	"lumina/internal/log"
)

type onboardCmd struct {
	app      *App
	name     string
	currency string
	balance  string
}

func (*onboardCmd) Name() string     { return "onboard" }
func (*onboardCmd) Synopsis() string { return "set up the profile with a name, currency and opening balance" }
func (*onboardCmd) Usage() string {
	return `luminactl onboard -name <name> [-c <currency>] [-b <balance>]

  Completes onboarding. The theme is switched to dark, as on first launch.
`
}

func (c *onboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name (required).")
	f.StringVar(&c.currency, "c", "", "Currency code, e.g. EUR. Defaults to the configured currency.")
	f.StringVar(&c.balance, "b", "0", "Opening balance. May be negative.")
}

func (c *onboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.TrimSpace(c.name)
	if name == "" {
		c.app.errorf("Error: -name is required")
		return subcommands.ExitUsageError
	}
	currency := c.app.Finance.Profile().Currency
	if c.currency != "" {
		code, err := core.ParseCurrencyCode(c.currency)
		if err != nil {
			c.app.errorf("Error: unsupported currency %q", c.currency)
			return subcommands.ExitUsageError
		}
		currency = code
	}

	p, err := c.app.Finance.Onboard(ctx, name, currency, core.ParseBalance(c.balance))
	if status := c.app.saved(ctx, log.OpUpdate, err); status != subcommands.ExitSuccess {
		return status
	}
	c.app.printMarkdown(profileMarkdown(p))
	return subcommands.ExitSuccess
}

type profileCmd struct {
	app         *App
	name        string
	currency    string
	balance     string
	theme       string
	avatar      string
	toggleTheme bool
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "show or edit the profile" }
func (*profileCmd) Usage() string {
	return `luminactl profile [-name <name>] [-c <currency>] [-b <balance>] [-theme light|dark] [-avatar <emoji|url>] [-toggle-theme]

  Without flags, prints the profile. Only the flags given are changed.
`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name.")
	f.StringVar(&c.currency, "c", "", "Currency code.")
	f.StringVar(&c.balance, "b", "", "Initial balance.")
	f.StringVar(&c.theme, "theme", "", "Theme, light or dark.")
	f.StringVar(&c.avatar, "avatar", "", "Avatar emoji or image URL.")
	f.BoolVar(&c.toggleTheme, "toggle-theme", false, "Switch between light and dark.")
}

func (c *profileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	patch := c.patch(f)
	if err := patch.Validate(); err != nil {
		c.app.errorf("Error: %v", err)
		return subcommands.ExitUsageError
	}

	fin := c.app.Finance
	p := fin.Profile()
	if patch != (core.ProfilePatch{}) {
		var err error
		p, err = fin.UpdateProfile(ctx, patch)
		if status := c.app.saved(ctx, log.OpUpdate, err); status != subcommands.ExitSuccess {
			return status
		}
	}
	if c.toggleTheme {
		var err error
		p, err = fin.ToggleTheme(ctx)
		if status := c.app.saved(ctx, log.OpUpdate, err); status != subcommands.ExitSuccess {
			return status
		}
	}

	c.app.printMarkdown(profileMarkdown(p))
	return subcommands.ExitSuccess
}

// patch builds a profile patch from the flags that were set explicitly.
func (c *profileCmd) patch(f *flag.FlagSet) core.ProfilePatch {
	var patch core.ProfilePatch
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			v := strings.TrimSpace(c.name)
			patch.Name = &v
		case "c":
			v := core.CurrencyCode(strings.ToUpper(strings.TrimSpace(c.currency)))
			patch.Currency = &v
		case "b":
			v := core.ParseBalance(c.balance)
			patch.InitialBalance = &v
		case "theme":
			v := core.Theme(strings.ToLower(strings.TrimSpace(c.theme)))
			patch.Theme = &v
		case "avatar":
			v := core.NewAvatar(strings.TrimSpace(c.avatar))
			patch.Avatar = &v
		}
	})
	return patch
}

type budgetCmd struct {
	app *App
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "show or set the monthly spending budget" }
func (*budgetCmd) Usage() string {
	return `luminactl budget [<amount>]

  With an amount, sets the monthly budget (0 disables it). Always prints
  the budget status for the current month.
`
}

func (*budgetCmd) SetFlags(*flag.FlagSet) {}

func (c *budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		c.app.errorf("Error: budget takes at most one amount")
		return subcommands.ExitUsageError
	}
	fin := c.app.Finance
	if f.NArg() == 1 {
		budget := core.ParseAmount(f.Arg(0))
		_, err := fin.UpdateProfile(ctx, core.ProfilePatch{MonthlyBudget: &budget})
		if status := c.app.saved(ctx, log.OpUpdate, err); status != subcommands.ExitSuccess {
			return status
		}
	}

	c.app.printMarkdown(budgetMarkdown(fin.Profile(), fin.Summary()))
	return subcommands.ExitSuccess
}
