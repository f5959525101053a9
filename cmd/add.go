package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"caderneta"
	"github.com/google/subcommands"
)

// entryCmd is the shared implementation of the credit, debit and daily
// subcommands.
type entryCmd struct {
	kind     caderneta.Kind
	synopsis string

	date   string
	amount float64
	memo   string
}

func newCreditCmd() *entryCmd {
	return &entryCmd{kind: caderneta.Credit, synopsis: "record money coming in on a given day"}
}

func newDebitCmd() *entryCmd {
	return &entryCmd{kind: caderneta.Debit, synopsis: "record money going out on a given day"}
}

func newDailyCmd() *entryCmd {
	return &entryCmd{kind: caderneta.Daily, synopsis: "record a same-day adjustment entry"}
}

func (c *entryCmd) Name() string     { return string(c.kind) }
func (c *entryCmd) Synopsis() string { return c.synopsis }
func (c *entryCmd) Usage() string {
	return fmt.Sprintf(`cad %s -a <amount> [-d <date>] [-m <description>]

  %s
`, c.kind, c.synopsis)
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the entry (defaults to today)")
	f.Float64Var(&c.amount, "a", 0, "Amount of the entry (strictly positive)")
	f.StringVar(&c.memo, "m", "", "Description of the entry")
}

func (c *entryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day := caderneta.Today()
	if c.date != "" {
		var err error
		day, err = caderneta.ParseDate(c.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	tx, err := caderneta.NewTransaction(day, c.kind, caderneta.M(c.amount, *currency), c.memo, caderneta.Manual)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	diary, err := openDiary()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	recorded, result, err := diary.RecordManualTransaction(tx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !recorded {
		// The original action already succeeded; a duplicate is a no-op.
		fmt.Println("Entry already recorded, nothing to do.")
		return subcommands.ExitSuccess
	}
	fmt.Printf("Recorded %s of %s on %s\n", tx.Kind, tx.Amount, tx.Date)
	printResult(result)
	return subcommands.ExitSuccess
}
