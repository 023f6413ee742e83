package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Trade-Journal-Backend/internal/testutil"
	"github.com/ndewijer/Trade-Journal-Backend/internal/version"
)

func TestSystemService(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	t.Run("healthy", func(t *testing.T) {
		if err := svc.CheckHealth(ctx); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("version", func(t *testing.T) {
		info, err := svc.GetVersionInfo(ctx)
		if err != nil {
			t.Fatalf("GetVersionInfo() returned unexpected error: %v", err)
		}
		if info.AppVersion != version.Version || info.DbVersion != "1" {
			t.Errorf("Unexpected version info: %+v", info)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		closed := testutil.SetupTestDB(t)
		closedSvc := testutil.NewTestSystemService(t, closed)
		closed.Close()

		if err := closedSvc.CheckHealth(ctx); err == nil {
			t.Error("Expected an error from a closed database")
		}
	})
}
