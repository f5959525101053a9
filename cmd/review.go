package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"caderneta"
	"caderneta/renderer"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

type reviewCmd struct {
	date string
	raw  bool
}

func (*reviewCmd) Name() string { return "review" }
func (*reviewCmd) Synopsis() string {
	return "render the review report of a month"
}
func (*reviewCmd) Usage() string {
	return `cad review [-d <date>] [-raw]

  Renders the monthly review report: opening and closing balances, the
  day-by-day entries, and any integrity issue found while recomputing.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Any date inside the target month (defaults to today)")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering for the terminal")
}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := caderneta.Today()
	if c.date != "" {
		var err error
		day, err = caderneta.ParseDate(c.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	diary, err := openDiary()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result := diary.Recalculate(caderneta.NewDate(day.Year(), day.Month(), 1))
	report := renderer.RenderMonthReview(
		renderer.NewMonthReview(diary.Ledger(), day.Year(), day.Month(), result.Issues))

	if c.raw {
		fmt.Print(report)
		return subcommands.ExitSuccess
	}

	out, err := glamour.Render(report, "auto")
	if err != nil {
		// Fall back to raw markdown when the terminal renderer fails.
		fmt.Print(report)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
