package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"caderneta"
	"github.com/google/subcommands"
)

type importCmd struct {
	file string
	path string
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string {
	return "import quick entries from a third-party JSON export"
}
func (*importCmd) Usage() string {
	return `cad import -file <export.json> [-path <jsonpath>]

  Imports entries from an arbitrary JSON export. The -path expression
  selects the entry array inside the document; each selected item must
  carry a date and an amount. Entries already recorded are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Path to the JSON export file")
	f.StringVar(&c.path, "path", "$.entries", "JSONPath expression selecting the entry array")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		return subcommands.ExitFailure
	}
	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open export file %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	txs, err := caderneta.ImportQuickEntries(in, c.path, *currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	diary, err := openDiary()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	recorded, skipped := 0, 0
	for _, tx := range txs {
		ok, _, err := diary.RecordManualTransaction(tx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if ok {
			recorded++
		} else {
			skipped++
		}
	}
	fmt.Printf("Imported %d entries, skipped %d duplicates\n", recorded, skipped)
	return subcommands.ExitSuccess
}
