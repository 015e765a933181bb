// Package commands implements the luminactl subcommands on top of
// services.Finance.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"lumina/internal/log"
	"lumina/internal/services"
)

// App carries what every subcommand needs. Render turns markdown into
// terminal output; a nil Render prints the markdown unchanged.
type App struct {
	Finance *services.Finance
	Logger  *log.Logger
	Out     io.Writer
	Err     io.Writer
	Render  func(md string) (string, error)
}

// NewApp returns an App writing to the process stdout and stderr. When plain
// is false markdown is rendered for the terminal.
func NewApp(fin *services.Finance, logger *log.Logger, plain bool) *App {
	app := &App{
		Finance: fin,
		Logger:  logger,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
	if !plain {
		app.Render = terminalRenderer
	}
	return app
}

func terminalRenderer(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// Register the subcommands.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&onboardCmd{app: app}, "profile")
	c.Register(&profileCmd{app: app}, "profile")
	c.Register(&budgetCmd{app: app}, "profile")

	c.Register(&addCmd{app: app}, "transactions")
	c.Register(&lsCmd{app: app}, "transactions")
	c.Register(&rmCmd{app: app}, "transactions")

	c.Register(&summaryCmd{app: app}, "reports")
	c.Register(&breakdownCmd{app: app}, "reports")
	c.Register(&categoriesCmd{app: app}, "reports")
	c.Register(&currenciesCmd{app: app}, "reports")

	c.Register(&resetCmd{app: app}, "data")
}

func (a *App) logger() *log.Logger {
	if a.Logger == nil {
		return log.Discard()
	}
	return a.Logger.WithComponent(log.ComponentCLI)
}

func (a *App) printMarkdown(md string) {
	if a.Render != nil {
		out, err := a.Render(md)
		if err == nil {
			md = out
		} else {
			a.logger().Debug("Markdown rendering failed, printing raw", log.FieldError, err)
		}
	}
	fmt.Fprint(a.Out, md)
}

func (a *App) errorf(format string, args ...any) {
	fmt.Fprintf(a.Err, format+"\n", args...)
}

// saved reports a persistence failure. The change is already applied in
// memory but is lost when the process exits, so the command fails.
func (a *App) saved(ctx context.Context, op string, err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	a.logger().ErrorContext(ctx, "Change not saved",
		log.FieldOperation, op,
		log.FieldErrorType, log.ErrorTypeStorage,
		log.FieldError, err)
	a.errorf("Error: change could not be saved: %v", err)
	return subcommands.ExitFailure
}
