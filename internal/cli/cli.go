// Package cli holds the journalctl subcommands.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/config"
	"github.com/ndewijer/Trade-Journal-Backend/internal/database"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&migrateCmd{}, "database")

	c.Register(&exportCmd{}, "reports")
	c.Register(&tagsCmd{}, "reports")
	c.Register(&periodCmd{}, "reports")

	c.Register(&refreshCmd{}, "prices")
}

var dbFlag = flag.String("db", "", "Path to the SQLite journal database (default $DB_PATH or "+config.DefaultDatabasePath+")")
var tzFlag = flag.String("tz", "", "Time zone for report windows and exported timestamps (default $REPORT_TIMEZONE or "+config.DefaultReportTimezone+")")

func dbPath() string {
	if *dbFlag != "" {
		return *dbFlag
	}
	return config.DatabasePath()
}

// openDatabase opens the journal database and brings its schema up to date.
func openDatabase(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath()), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := database.Open(dbPath())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func location() (*time.Location, error) {
	return config.ReportLocation(*tzFlag)
}

// resolveUser finds a user by identity-provider subject first, then by internal ID.
func resolveUser(ctx context.Context, users *repository.UserRepository, ref string) (model.User, error) {
	if ref == "" {
		return model.User{}, errors.New("a user is required (-u)")
	}
	u, err := users.GetUserByAuthID(ctx, ref)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		u, err = users.GetUser(ctx, ref)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("user %q: %w", ref, err)
	}
	return u, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
