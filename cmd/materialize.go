package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"caderneta"
	"github.com/google/subcommands"
)

type materializeCmd struct {
	rule string
	date string
}

func (*materializeCmd) Name() string { return "materialize" }
func (*materializeCmd) Synopsis() string {
	return "materialize recurring rules into concrete entries for a month"
}
func (*materializeCmd) Usage() string {
	return `cad materialize [-r <rule-id>] [-d <date>]

  Produces the concrete entries of the recurring rules for the month
  containing the given date. Safe to run any number of times: a rule
  materializes at most once per month.
`
}

func (c *materializeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rule, "r", "", "Materialize only this rule id (defaults to all rules)")
	f.StringVar(&c.date, "d", "", "Any date inside the target month (defaults to today)")
}

func (c *materializeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.rule != "" {
		done, result, err := diary.MaterializeRecurringForMonth(c.rule, day.Year(), day.Month())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if !done {
			fmt.Println("Nothing to materialize for this rule and month.")
			return subcommands.ExitSuccess
		}
		fmt.Printf("Materialized rule %s for %s\n", c.rule, day.Format("2006-01"))
		printResult(result)
		return subcommands.ExitSuccess
	}

	count, result, err := diary.MaterializeMonth(day.Year(), day.Month())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Materialized %d entr%s for %s\n", count, plural(count, "y", "ies"), day.Format("2006-01"))
	printResult(result)
	return subcommands.ExitSuccess
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
