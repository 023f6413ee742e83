package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
)

type tagsCmd struct {
	user  string
	sort  string
	order string
}

func (*tagsCmd) Name() string     { return "tags" }
func (*tagsCmd) Synopsis() string { return "display the reason tag table of a user" }
func (*tagsCmd) Usage() string {
	return `journalctl tags -u <user> [-sort <column>] [-order asc|desc]

  Displays how often each buy/sell reason tag was used, its closed-trade
  profit, win rate and average holding time.
`
}

func (c *tagsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "User auth subject or ID")
	f.StringVar(&c.sort, "sort", "count", "Sort column")
	f.StringVar(&c.order, "order", "desc", "Sort direction (asc, desc)")
}

func (c *tagsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loc, err := location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
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
	tags, err := analysis.GetTagAnalysis(ctx, user.ID, c.sort, service.ParseSortOrder(c.order, service.Descending))
	if err != nil {
		return fail(err)
	}
	printMarkdown(TagsMarkdown(tags))
	return subcommands.ExitSuccess
}
