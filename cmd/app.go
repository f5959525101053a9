// Package cmd implements the CLI application to manage a financial diary.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"caderneta"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Commands lists every subcommand of the application.
var Commands = []subcommands.Command{
	subcommands.HelpCommand(),
	subcommands.FlagsCommand(),
	newCreditCmd(),
	newDebitCmd(),
	newDailyCmd(),
	&ruleAddCmd{},
	&ruleListCmd{},
	&materializeCmd{},
	&recalcCmd{},
	&balanceCmd{},
	&reviewCmd{},
	&importCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

// A missing .env file is fine, flags and defaults take over. This runs
// before the flag defaults below read the environment.
var _ = godotenv.Load()

var diaryFile = flag.String("diary-file", defaultEnv("CADERNETA_FILE", "diary.jsonl"), "Path to the diary file (JSONL format)")
var currency = flag.String("currency", defaultEnv("CADERNETA_CURRENCY", "BRL"), "Currency code for new entries")

func defaultEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// guardOptions builds the idempotency guard from the environment. The
// re-submission and retention windows are tunable, their defaults are
// not authoritative.
func guardOptions() []caderneta.GuardOption {
	var opts []caderneta.GuardOption
	if v := os.Getenv("CADERNETA_RESUBMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			opts = append(opts, caderneta.WithResubmitWindow(d))
		}
	}
	if v := os.Getenv("CADERNETA_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			opts = append(opts, caderneta.WithRetention(d))
		}
	}
	return opts
}

// openDiary loads the diary from the app diary file.
func openDiary() (*caderneta.Diary, error) {
	store := caderneta.NewFileStore(*diaryFile)
	guard := caderneta.NewGuard(guardOptions()...)
	return caderneta.OpenDiary(store, caderneta.WithGuard(guard))
}

// printResult reports the outcome of a recalculation to the user.
// Integrity issues are a non-blocking report, not a failure.
func printResult(result caderneta.RecalculationResult) {
	if len(result.Affected) > 0 {
		fmt.Printf("Recomputed %d month(s), %s to %s\n",
			len(result.Affected), result.Affected[0], result.Affected[len(result.Affected)-1])
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "integrity issue: %s\n", issue)
	}
}
