package database

import (
	"fmt"
	"regexp"
	"strings"

	"jiraboardsync/config"
)

// Dialect holds the upsert and DDL statements of one database flavour.
// Every upsert statement takes its arguments in the same order:
//
//	columns: BoardId, StatusId, ColumnName, StatusName
//	issues:  BoardId, IssueKey, Summary, StatusId, StatusName, ColumnName,
//	         Assignee, DueDate, Created, Updated
type Dialect struct {
	Name string

	placeholder func(n int) string
	upsert      func(table string, key, update []string, ph []string) string
	types       columnTypes
	ifNotExists bool
}

type columnTypes struct {
	id, key, short, long, date, timestamp string
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

var columnFields = []string{"BoardId", "StatusId", "ColumnName", "StatusName"}

var issueFields = []string{
	"BoardId", "IssueKey", "Summary", "StatusId", "StatusName", "ColumnName",
	"Assignee", "DueDate", "Created", "Updated",
}

// DialectFor returns the dialect of a configured driver.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverSQLServer:
		return Dialect{
			Name:        driver,
			placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
			upsert:      mergeUpsert,
			types: columnTypes{
				id: "INT", key: "NVARCHAR(50)", short: "NVARCHAR(255)", long: "NVARCHAR(MAX)",
				date: "DATE", timestamp: "DATETIMEOFFSET",
			},
		}, nil
	case config.DriverPostgres:
		return Dialect{
			Name:        driver,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
			upsert:      onConflictUpsert,
			types: columnTypes{
				id: "INTEGER", key: "TEXT", short: "TEXT", long: "TEXT",
				date: "DATE", timestamp: "TIMESTAMPTZ",
			},
			ifNotExists: true,
		}, nil
	case config.DriverSQLite:
		return Dialect{
			Name:        driver,
			placeholder: func(int) string { return "?" },
			upsert:      onConflictUpsert,
			types: columnTypes{
				id: "INTEGER", key: "TEXT", short: "TEXT", long: "TEXT",
				date: "TEXT", timestamp: "TIMESTAMP",
			},
			ifNotExists: true,
		}, nil
	}
	return Dialect{}, fmt.Errorf("unsupported SQL_DRIVER %q", driver)
}

// ColumnUpsertSQL returns the statement that merges one mapping row.
func (d Dialect) ColumnUpsertSQL(table string) string {
	return d.upsert(table, columnFields[:2], columnFields[2:], d.placeholders(len(columnFields)))
}

// IssueUpsertSQL returns the statement that merges one issue row.
func (d Dialect) IssueUpsertSQL(table string) string {
	return d.upsert(table, issueFields[:2], issueFields[2:], d.placeholders(len(issueFields)))
}

// CreateTableSQL returns reference DDL for both tables. It is not run by the
// sync; operators create the tables once.
func (d Dialect) CreateTableSQL(columnsTable, issuesTable string) []string {
	t := d.types
	create := "CREATE TABLE "
	if d.ifNotExists {
		create = "CREATE TABLE IF NOT EXISTS "
	}

	columns := create + columnsTable + ` (
    BoardId    ` + t.id + ` NOT NULL,
    ColumnName ` + t.short + ` NOT NULL,
    StatusId   ` + t.key + ` NOT NULL,
    StatusName ` + t.short + ` NULL,
    PRIMARY KEY (BoardId, StatusId)
)`

	issues := create + issuesTable + ` (
    BoardId    ` + t.id + ` NOT NULL,
    IssueKey   ` + t.key + ` NOT NULL,
    Summary    ` + t.long + ` NULL,
    StatusId   ` + t.key + ` NULL,
    StatusName ` + t.short + ` NULL,
    ColumnName ` + t.short + ` NULL,
    Assignee   ` + t.short + ` NULL,
    DueDate    ` + t.date + ` NULL,
    Created    ` + t.timestamp + ` NULL,
    Updated    ` + t.timestamp + ` NULL,
    PRIMARY KEY (BoardId, IssueKey)
)`

	return []string{columns, issues}
}

func (d Dialect) placeholders(n int) []string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.placeholder(i + 1)
	}
	return ph
}

// mergeUpsert builds a SQL Server MERGE. Parameters are named (@pN) so the
// key values can be referenced twice without passing them twice.
func mergeUpsert(table string, key, update []string, ph []string) string {
	var src, on, set []string
	for i, k := range key {
		src = append(src, fmt.Sprintf("%s AS %s", ph[i], k))
		on = append(on, fmt.Sprintf("t.%s = s.%s", k, k))
	}
	for i, u := range update {
		set = append(set, fmt.Sprintf("%s = %s", u, ph[len(key)+i]))
	}
	all := append(append([]string{}, key...), update...)

	return fmt.Sprintf(`MERGE %s AS t
USING (SELECT %s) AS s
ON %s
WHEN MATCHED THEN
    UPDATE SET %s
WHEN NOT MATCHED THEN
    INSERT (%s)
    VALUES (%s);`,
		table,
		strings.Join(src, ", "),
		strings.Join(on, " AND "),
		strings.Join(set, ", "),
		strings.Join(all, ", "),
		strings.Join(ph, ", "))
}

// onConflictUpsert builds INSERT ... ON CONFLICT DO UPDATE, shared by
// PostgreSQL and SQLite. It relies on the primary key over the key columns.
func onConflictUpsert(table string, key, update []string, ph []string) string {
	var set []string
	for _, u := range update {
		set = append(set, fmt.Sprintf("%s = excluded.%s", u, u))
	}
	all := append(append([]string{}, key...), update...)

	return fmt.Sprintf(`INSERT INTO %s (%s)
VALUES (%s)
ON CONFLICT (%s) DO UPDATE SET %s`,
		table,
		strings.Join(all, ", "),
		strings.Join(ph, ", "),
		strings.Join(key, ", "),
		strings.Join(set, ", "))
}

func validTableName(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}
