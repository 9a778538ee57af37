package persist_test

// integration_pg_test.go covers the table bridge against a real PostgreSQL
// instance:
//
//   1. QueryTable  — result set into a typed table
//   2. Save / Load — that table through an XML file on disk
//   3. CopyTable   — the reloaded table bulk-copied back into the database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndrewDonelson/persist"
	"github.com/AndrewDonelson/persist/tabular"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// ─── Fixtures ────────────────────────────────────────────────────────────────

const (
	pgTestImage = "postgres:16-alpine"
	pgTestDB    = "persistintegration"
	pgTestUser  = "persisttest"
	pgTestPass  = "persisttest"
)

// newPGStore starts Postgres in a container and returns a Store on the OS
// filesystem connected to it. Skips if Docker is unavailable.
func newPGStore(t *testing.T) *persist.Store {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgc, err := tcpg.Run(ctx, pgTestImage,
		tcpg.WithDatabase(pgTestDB),
		tcpg.WithUsername(pgTestUser),
		tcpg.WithPassword(pgTestPass),
		tcpg.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")

	pgDSN, err := pgc.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := persist.NewStore(persist.Config{
		Fs:          afero.NewOsFs(),
		LockMode:    persist.LockFile,
		PostgresDSN: pgDSN,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
		_ = pgc.Terminate(ctx)
	})
	return s
}

const pricesDDL = `CREATE TABLE %s (
	sku   TEXT NOT NULL,
	price DOUBLE PRECISION,
	qty   BIGINT,
	seen  TIMESTAMPTZ
)`

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestTableBridge_QuerySaveLoadCopy(t *testing.T) {
	s := newPGStore(t)
	ctx := context.Background()

	require.NoError(t, s.Exec(ctx, fmtDDL("prices")))
	require.NoError(t, s.Exec(ctx, fmtDDL("prices_copy")))
	seen := time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)
	require.NoError(t, s.Exec(ctx,
		`INSERT INTO prices (sku, price, qty, seen) VALUES ($1, $2, $3, $4), ($5, NULL, NULL, NULL)`,
		"a-1", 9.5, int64(3), seen, "b-2"))

	tbl, err := s.QueryTable(ctx, "prices", `SELECT sku, price, qty, seen FROM prices ORDER BY sku`)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"sku", "price", "qty", "seen"}, tbl.ColumnNames())

	path := filepath.Join(t.TempDir(), "export", "prices.xml")
	require.NoError(t, persist.Save(ctx, s, path, tbl))

	loaded, err := persist.Load[*tabular.Table](ctx, s, path)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.RowCount())

	price, err := tabular.Double(loaded.Rows()[0], "price")
	require.NoError(t, err)
	assert.Equal(t, 9.5, price)
	null, err := loaded.Rows()[1].IsNull("qty")
	require.NoError(t, err)
	assert.True(t, null)

	loaded.Name = "prices_copy"
	n, err := s.CopyTable(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	back, err := s.QueryTable(ctx, "check", `SELECT count(*) AS n FROM prices_copy WHERE seen = $1`, seen)
	require.NoError(t, err)
	cnt, err := back.Rows()[0].Get("n")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestTableBridge_QueryError(t *testing.T) {
	s := newPGStore(t)
	_, err := s.QueryTable(context.Background(), "nope", `SELECT * FROM missing_table`)
	assert.Error(t, err)
}

func fmtDDL(name string) string {
	return fmt.Sprintf(pricesDDL, name)
}
