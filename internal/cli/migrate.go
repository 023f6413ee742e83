package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/Trade-Journal-Backend/internal/database"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending schema migrations" }
func (*migrateCmd) Usage() string {
	return `journalctl migrate

  Creates the journal database if needed and applies every pending migration.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := openDatabase(ctx)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	v, err := database.SchemaVersion(ctx, db)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s is at schema version %d\n", dbPath(), v)
	return subcommands.ExitSuccess
}
