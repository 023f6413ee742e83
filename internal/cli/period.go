package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/Trade-Journal-Backend/internal/period"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

type periodCmd struct {
	user   string
	period string
	date   string
}

func (*periodCmd) Name() string     { return "review" }
func (*periodCmd) Synopsis() string { return "display a weekly or monthly trading review" }
func (*periodCmd) Usage() string {
	return `journalctl review -u <user> [-p week|month] [-d <date>]

  Displays the trades, tag results and totals of the week or month
  containing the given date (defaults to today).
`
}

func (c *periodCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "User auth subject or ID")
	f.StringVar(&c.period, "p", "week", "Report period (week, month)")
	f.StringVar(&c.date, "d", "", "Any date inside the period, YYYY-MM-DD")
}

func (c *periodCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loc, err := location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	p, err := period.Parse(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var ref time.Time
	if c.date != "" {
		if ref, err = validation.ParseDate(c.date, loc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	db, err := openDatabase(ctx)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	user, err := resolveUser(ctx, repository.NewUserRepository(db), c.user)
	if err != nil {
		return fail(err)
	}
	analysis := service.NewAnalysisService(repository.NewTransactionRepository(db), repository.NewStockRepository(db), loc)
	report, err := analysis.GetPeriodReport(ctx, user.ID, p, ref)
	if err != nil {
		return fail(err)
	}
	printMarkdown(PeriodMarkdown(report, loc))
	return subcommands.ExitSuccess
}
