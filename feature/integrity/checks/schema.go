package checks

import (
	"picklr/core/database"

	"gorm.io/gorm"
)

// SchemaReport lists tables and columns missing from the catalog database.
type SchemaReport struct {
	Status string   `json:"status"`
	Issues []string `json:"issues"`
}

// CheckSchema compares the connected database against models.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	issues, err := database.CheckSchema(db, models...)
	if err != nil {
		return nil, err
	}

	report := &SchemaReport{Status: "ok", Issues: make([]string, 0, len(issues))}
	for _, issue := range issues {
		report.Issues = append(report.Issues, issue.String())
	}
	if len(report.Issues) > 0 {
		report.Status = "drift"
	}
	return report, nil
}
