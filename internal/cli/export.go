package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
)

type exportCmd struct {
	user   string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a user's transactions as CSV" }
func (*exportCmd) Usage() string {
	return `journalctl export -u <user> [-o <file>|-o -]

  Writes every transaction of the user, newest first, in the same CSV layout
  as the download offered by the API. Without -o the file is named after
  today's date in the current directory; "-o -" writes to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "User auth subject or ID")
	f.StringVar(&c.output, "o", "", "Output file, - for stdout")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	exports := service.NewExportService(repository.NewTransactionRepository(db), loc)

	name := c.output
	if name == "" {
		name = exports.Filename(time.Now())
	}
	var w io.Writer = os.Stdout
	if name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return fail(err)
		}
		defer f.Close()
		w = f
	}

	n, err := exports.Export(ctx, user.ID, w)
	if err != nil {
		return fail(err)
	}
	if name != "-" {
		fmt.Fprintf(os.Stderr, "exported %d transactions to %s\n", n, name)
	}
	return subcommands.ExitSuccess
}
