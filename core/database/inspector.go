package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SchemaIssue describes one table or column a model expects but the
// database does not have.
type SchemaIssue struct {
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
}

func (i SchemaIssue) String() string {
	if i.Column == "" {
		return "missing table " + i.Table
	}
	return fmt.Sprintf("missing column %s.%s", i.Table, i.Column)
}

// TableColumns returns the lowercased column names of a table.
func TableColumns(db *gorm.DB, table string) ([]string, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	cols := make([]string, 0, len(types))
	for _, ct := range types {
		cols = append(cols, strings.ToLower(ct.Name()))
	}
	return cols, nil
}

// CheckSchema compares each model's table and columns against the live
// database and returns what is missing. An empty result means the schema
// is current.
func CheckSchema(db *gorm.DB, models ...any) ([]SchemaIssue, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var issues []SchemaIssue
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			issues = append(issues, SchemaIssue{Table: table})
			continue
		}

		cols, err := TableColumns(db, table)
		if err != nil {
			return nil, err
		}
		have := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			have[c] = struct{}{}
		}
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" {
				continue
			}
			if _, ok := have[strings.ToLower(field.DBName)]; !ok {
				issues = append(issues, SchemaIssue{Table: table, Column: field.DBName})
			}
		}
	}
	return issues, nil
}
