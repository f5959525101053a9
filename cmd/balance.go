package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"caderneta"
	"github.com/google/subcommands"
)

type balanceCmd struct {
	date string
}

func (*balanceCmd) Name() string { return "balance" }
func (*balanceCmd) Synopsis() string {
	return "show the balances of a month and its year"
}
func (*balanceCmd) Usage() string {
	return `cad balance [-d <date>]

  Shows the opening and closing balance of the month containing the
  given date, the last known balance of its year, and the balance the
  year inherited from its predecessor.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Any date inside the target month (defaults to today)")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	closing, ok := diary.Balance(day.Year(), day.Month())
	if !ok {
		fmt.Printf("No data recorded for %s.\n", day.Format("2006-01"))
	} else {
		ml := diary.Ledger().Year(day.Year()).Month(day.Month())
		fmt.Printf("%s  opening %s  closing %s\n", day.Format("2006-01"), ml.Opening(), closing)
	}
	fmt.Printf("Year %d last known balance: %s\n", day.Year(), diary.YearEndBalance(day.Year()))
	fmt.Printf("Year %d inherited balance:  %s\n", day.Year(), diary.InheritedBalance(day.Year()))
	return subcommands.ExitSuccess
}
