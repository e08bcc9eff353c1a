package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// Table is a statically declared table shape. Only the listed columns are
// required; extra columns in the dataset are tolerated.
type Table struct {
	Name    string
	Columns []string
}

// DatasetSchema is the shape the climate queries rely on.
var DatasetSchema = []Table{
	{Name: "measurement", Columns: []string{"id", "station", "date", "prcp", "tobs"}},
	{Name: "station", Columns: []string{"id", "station", "name", "latitude", "longitude", "elevation"}},
}

// SchemaError reports a dataset that does not match the declared schema.
type SchemaError struct {
	Table   string
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset schema mismatch: table %q is missing column(s) %s (found: %s)",
		e.Table, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// VerifySchema checks every declared table exists and carries its declared
// columns. Column names are compared case-insensitively.
func VerifySchema(ctx context.Context, db *sql.DB, tables []Table) error {
	for _, t := range tables {
		found, err := tableColumns(ctx, db, t.Name)
		if err != nil {
			return fmt.Errorf("dataset schema: table %q: %w", t.Name, err)
		}
		have := make(map[string]bool, len(found))
		for _, c := range found {
			have[strings.ToLower(c)] = true
		}
		var missing []string
		for _, c := range t.Columns {
			if !have[strings.ToLower(c)] {
				missing = append(missing, c)
			}
		}
		if len(missing) > 0 {
			return &SchemaError{Table: t.Name, Missing: missing, Found: found}
		}
		slog.Debug("dataset table verified", "table", t.Name, "columns", len(found))
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	// Table names come from DatasetSchema, never from requests.
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" WHERE 1 = 0")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close schema rows", "table", table, "error", err)
		}
	}()
	return rows.Columns()
}
