package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads opts.Table from the SQLite database at path.
// The database is opened read-only; rows come back in rowid order so the
// table order matches the CSV the database was imported from.
func LoadSQLite(ctx context.Context, path string, opts Options) (*Table, error) {
	opts = opts.withDefaults()
	if !validIdentifier.MatchString(opts.Table) {
		return nil, &LoadError{Code: ErrCodeMalformed, Path: path,
			Message: fmt.Sprintf("invalid table name %q", opts.Table)}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "failed to open database", Err: err}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "failed to connect to database", Err: err}
	}

	var exists int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, opts.Table).Scan(&exists)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "failed to read schema", Err: err}
	}
	if exists == 0 {
		return nil, &LoadError{Code: ErrCodeMalformed, Path: path,
			Message: fmt.Sprintf("table %q not found", opts.Table)}
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, quoteIdent(opts.Table)))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "query failed", Err: err}
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "failed to read columns", Err: err}
	}

	var records [][]string
	for rows.Next() {
		cells := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Line: len(records) + 1,
				Message: "failed to scan row", Err: err}
		}
		rec := make([]string, len(header))
		for i, c := range cells {
			rec[i] = cellString(c)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "row iteration failed", Err: err}
	}

	return newTable(path, header, records, nil, opts)
}

// cellString renders a scanned SQLite value the way it would appear in CSV.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

// WriteSQLite writes t into a new table named table in the database at
// path, creating the file if needed. Numeric columns become REAL, text
// columns TEXT, and missing numbers NULL. An existing table of the same
// name is replaced.
func WriteSQLite(ctx context.Context, path, table string, t *Table) error {
	if !validIdentifier.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		return fmt.Errorf("failed to apply pragmas: %w", err)
	}

	names := t.Columns()
	defs := make([]string, len(names))
	for i, name := range names {
		c, _ := t.Column(name)
		typ := "TEXT"
		if c.IsNumeric() {
			typ = "REAL"
		}
		defs[i] = quoteIdent(name) + " " + typ
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	quoted := make([]string, len(names))
	marks := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i], _ = t.Column(name)
	}
	args := make([]any, len(names))
	for r := 0; r < t.Len(); r++ {
		for i, c := range cols {
			if c.IsNumeric() {
				v := c.Float(r)
				if math.IsNaN(v) {
					args[i] = nil
				} else {
					args[i] = v
				}
				continue
			}
			args[i] = c.Text(r)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", r+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// applyPragmas sets the SQLite configuration used for writes.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// quoteIdent quotes a SQLite identifier. Column names come from CSV headers
// and may contain anything.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
