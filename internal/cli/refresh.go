package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/ndewijer/Trade-Journal-Backend/internal/config"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
	"github.com/ndewijer/Trade-Journal-Backend/internal/yahoo"
)

type refreshCmd struct {
	user        string
	concurrency int
}

func (*refreshCmd) Name() string     { return "refresh-prices" }
func (*refreshCmd) Synopsis() string { return "fetch the latest close for held stocks" }
func (*refreshCmd) Usage() string {
	return `journalctl refresh-prices [-u <user>] [-c n]

  Fetches the latest close of every stock, or only the stocks of one user
  with -u, and stores it as the current price.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Only refresh this user's stocks (auth subject or ID)")
	f.IntVar(&c.concurrency, "c", 0, "Number of quotes fetched at once (default $PRICE_REFRESH_CONCURRENCY or "+strconv.Itoa(config.DefaultRefreshConcurrency)+")")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	concurrency, err := c.workers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	db, err := openDatabase(ctx)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	prices := service.NewPriceService(repository.NewStockRepository(db), yahoo.NewFinanceClient(), concurrency)

	if c.user == "" {
		out, err := prices.RefreshEverything(ctx)
		if err != nil {
			return fail(err)
		}
		printMarkdown(RefreshMarkdown(out))
		return refreshStatus(out.Success)
	}

	user, err := resolveUser(ctx, repository.NewUserRepository(db), c.user)
	if err != nil {
		return fail(err)
	}
	out, err := prices.RefreshAll(ctx, user.ID)
	if err != nil {
		return fail(err)
	}
	printMarkdown(RefreshMarkdown(out))
	return refreshStatus(out.Success)
}

// workers returns the -c flag, or the configured concurrency when it is unset.
func (c *refreshCmd) workers() (int, error) {
	switch {
	case c.concurrency == 0:
		return config.RefreshConcurrency()
	case c.concurrency < 0:
		return 0, errors.New("-c must be at least 1")
	}
	return c.concurrency, nil
}

func refreshStatus(ok bool) subcommands.ExitStatus {
	if ok {
		return subcommands.ExitSuccess
	}
	return subcommands.ExitFailure
}
