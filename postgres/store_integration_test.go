//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Requires a database prepared with the sys_user / sys_role /
// sys_permission schema and the seed fixtures from the application repo.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("AUTHCORE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUTHCORE_TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return NewStore(pool)
}

func TestFindCredentialsAbsentUser(t *testing.T) {
	store := newIntegrationStore(t)

	creds, err := store.FindCredentials(context.Background(), "no-such-user")
	if err != nil {
		t.Fatalf("find credentials: %v", err)
	}
	if creds != nil {
		t.Fatalf("expected nil for absent user, got %+v", creds)
	}
}

func TestFindUserPermissionRowsAbsentUser(t *testing.T) {
	store := newIntegrationStore(t)

	rows, err := store.FindUserPermissionRows(context.Background(), -1)
	if err != nil {
		t.Fatalf("find rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows for absent user, got %d", len(rows))
	}
}
