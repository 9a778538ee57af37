package persist

import (
	"context"
	"fmt"

	"github.com/AndrewDonelson/persist/tabular"
)

// QueryTable runs a parameterised query against the configured database and
// collects the result into a table called name, ready to be saved.
func (s *Store) QueryTable(ctx context.Context, name, sql string, args ...any) (*tabular.Table, error) {
	if err := s.database(); err != nil {
		return nil, err
	}
	rows, err := s.pg.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("persist: query table %s: %w", name, err)
	}
	return tabular.FromRows(name, rows)
}

// CopyTable bulk-loads t into the database table named t.Name and returns
// the number of rows copied. Columns are matched by name.
func (s *Store) CopyTable(ctx context.Context, t *tabular.Table) (int64, error) {
	if err := s.database(); err != nil {
		return 0, err
	}
	if t == nil {
		return 0, tabular.ErrNilTable
	}
	return s.pg.CopyFrom(ctx, t.Name, t.ColumnNames(), tabular.CopySource(t))
}

// Exec runs a statement against the configured database.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) error {
	if err := s.database(); err != nil {
		return err
	}
	return s.pg.Exec(ctx, sql, args...)
}

func (s *Store) database() error {
	if s.closed.Load() {
		return ErrClosed
	}
	if s.pg == nil {
		return ErrNoDatabase
	}
	return nil
}
