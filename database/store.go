package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jiraboardsync/config"
	"jiraboardsync/models"
)

// Execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store writes board columns and issues with one upsert statement per row.
type Store struct {
	dialect      Dialect
	columnsTable string
	issuesTable  string
	columnSQL    string
	issueSQL     string
}

// NewStore prepares the statements for the configured driver and tables.
func NewStore(cfg *config.Config) (*Store, error) {
	d, err := DialectFor(cfg.SQLDriver)
	if err != nil {
		return nil, err
	}
	for _, table := range []string{cfg.ColumnsTable, cfg.IssuesTable} {
		if err := validTableName(table); err != nil {
			return nil, err
		}
	}

	return &Store{
		dialect:      d,
		columnsTable: cfg.ColumnsTable,
		issuesTable:  cfg.IssuesTable,
		columnSQL:    d.ColumnUpsertSQL(cfg.ColumnsTable),
		issueSQL:     d.IssueUpsertSQL(cfg.IssuesTable),
	}, nil
}

// Schema returns reference DDL for the store's tables.
func (s *Store) Schema() []string {
	return s.dialect.CreateTableSQL(s.columnsTable, s.issuesTable)
}

// UpsertColumns merges mapping rows keyed by (BoardId, StatusId). Rows run in
// order, so a later duplicate key overwrites an earlier one.
func (s *Store) UpsertColumns(ctx context.Context, ex Execer, cols []models.BoardColumn) error {
	for _, c := range cols {
		_, err := ex.ExecContext(ctx, s.columnSQL,
			c.BoardID, c.StatusID, c.ColumnName, c.StatusName)
		if err != nil {
			return &DatabaseError{
				Op:  fmt.Sprintf("upsert column %q status %s", c.ColumnName, c.StatusID),
				Err: err,
			}
		}
	}
	return nil
}

// UpsertIssues merges issue rows keyed by (BoardId, IssueKey).
func (s *Store) UpsertIssues(ctx context.Context, ex Execer, issues []models.BoardIssue) error {
	for _, it := range issues {
		_, err := ex.ExecContext(ctx, s.issueSQL,
			it.BoardID, it.IssueKey, nullString(it.Summary),
			nullString(it.StatusID), nullString(it.StatusName), nullString(it.ColumnName),
			nullString(it.Assignee), nullString(it.DueDate),
			nullTime(it.Created), nullTime(it.Updated))
		if err != nil {
			return &DatabaseError{Op: fmt.Sprintf("upsert issue %s", it.IssueKey), Err: err}
		}
	}
	return nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
