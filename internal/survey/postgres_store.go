package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Execer is the subset of *pgxpool.Pool used by PostgresStore.
// Pool.Exec acquires a connection and releases it on every return path.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore writes responses into the survey_responses table.
type PostgresStore struct {
	db         Execer
	insertStmt string
}

// NewPostgresStore returns a store bound to a pooled connection handle.
func NewPostgresStore(db Execer) *PostgresStore {
	return &PostgresStore{
		db:         db,
		insertStmt: buildInsert(TableName),
	}
}

// buildInsert renders the INSERT with one named placeholder per column.
func buildInsert(table string) string {
	cols := make([]string, 0, len(Fields)+1)
	params := make([]string, 0, len(Fields)+1)
	cols = append(cols, KeyColumn)
	params = append(params, "@"+KeyColumn)
	for _, f := range Fields {
		cols = append(cols, f.Column)
		params = append(params, "@"+f.Column)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(params, ", "))
}

// Insert writes one row. The statement runs as its own implicit transaction.
func (s *PostgresStore) Insert(ctx context.Context, resp Response) error {
	tag, err := s.db.Exec(ctx, s.insertStmt, pgx.NamedArgs(resp.Record()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("insert %s: %w", resp.ResponseID, ErrDuplicateResponseID)
		}
		return fmt.Errorf("insert %s: %w", resp.ResponseID, err)
	}
	if n := tag.RowsAffected(); n != 1 {
		return fmt.Errorf("insert %s: expected 1 row affected, got %d", resp.ResponseID, n)
	}
	return nil
}
