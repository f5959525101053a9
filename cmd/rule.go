package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"caderneta"
	"github.com/google/subcommands"
)

type ruleAddCmd struct {
	day      int
	kind     string
	amount   float64
	memo     string
	start    string
	lifetime string
}

func (*ruleAddCmd) Name() string { return "rule-add" }
func (*ruleAddCmd) Synopsis() string {
	return "register a recurring rule that materializes one entry per eligible month"
}
func (*ruleAddCmd) Usage() string {
	return `cad rule-add -day <1..31> -kind <credit|debit> -a <amount> [-m <description>] [-start <date>] [-lifetime indefinite|count:N|months:N]

  Registers a recurring rule. A rule scheduled past the end of a short
  month lands on that month's last day.
`
}

func (c *ruleAddCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.day, "day", 1, "Day of the month the rule fires on")
	f.StringVar(&c.kind, "kind", "debit", "Kind of the generated entries (credit or debit)")
	f.Float64Var(&c.amount, "a", 0, "Amount of the generated entries")
	f.StringVar(&c.memo, "m", "", "Description of the generated entries")
	f.StringVar(&c.start, "start", "", "First eligible date (defaults to today)")
	f.StringVar(&c.lifetime, "lifetime", "indefinite", "Rule lifetime: indefinite, count:N or months:N")
}

func (c *ruleAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start := caderneta.Today()
	if c.start != "" {
		var err error
		start, err = caderneta.ParseDate(c.start)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	kind, err := caderneta.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	lifetime, err := caderneta.ParseLifetime(c.lifetime)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rule, err := caderneta.NewRecurringRule(c.day, kind, caderneta.M(c.amount, *currency), c.memo, start, lifetime)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	diary, err := openDiary()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := diary.AddRule(rule); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := diary.Save(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Registered rule %s: %s %s on day %d, %s\n", rule.ID, rule.Kind, rule.Amount, rule.DayOfMonth, rule.Lifetime)
	return subcommands.ExitSuccess
}

type ruleListCmd struct{}

func (*ruleListCmd) Name() string     { return "rule-list" }
func (*ruleListCmd) Synopsis() string { return "list the registered recurring rules" }
func (*ruleListCmd) Usage() string {
	return `cad rule-list

  Lists every registered recurring rule with its lifetime state.
`
}
func (*ruleListCmd) SetFlags(*flag.FlagSet) {}

func (*ruleListCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	diary, err := openDiary()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if diary.Rules().Len() == 0 {
		fmt.Println("No recurring rules registered.")
		return subcommands.ExitSuccess
	}
	for rule := range diary.Rules().All() {
		state := "active"
		if !rule.IsActive {
			state = "inactive"
		}
		fmt.Printf("%s  day %2d  %-6s %-12s %-10s %s  %q\n",
			rule.ID, rule.DayOfMonth, rule.Kind, rule.Amount, rule.Lifetime, state, rule.Description)
	}
	return subcommands.ExitSuccess
}
