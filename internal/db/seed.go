package db

import (
	"database/sql"
	"fmt"
)

// SeedReferenceData populates the global lookup tables with the reference
// rows a fresh install needs. Idempotent: rows already present are kept.
func SeedReferenceData(database *sql.DB, modifiedBy string) error {
	systems := []struct{ name, desc string }{
		{"USSP", "U-Space service provider"},
		{"CISP", "Common information service provider"},
		{"UAS_OPERATOR", "Operator-facing applications"},
		{"AUTHORITY", "Competent authority portal"},
	}
	for _, s := range systems {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO systems (name, description, modified_by) VALUES (?, ?, ?)",
			s.name, s.desc, modifiedBy,
		); err != nil {
			return fmt.Errorf("seed systems: %w", err)
		}
	}

	sections := []string{
		"Operational",
		"Registration",
		"Geo-awareness",
		"Flight authorisation",
		"Traffic information",
		"Reporting",
	}
	for _, name := range sections {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO sections (name, modified_by) VALUES (?, ?)",
			name, modifiedBy,
		); err != nil {
			return fmt.Errorf("seed sections: %w", err)
		}
	}

	reasons := []string{
		"AIR_TRAFFIC",
		"SENSITIVE",
		"PRIVACY",
		"POPULATION",
		"NATURE",
		"NOISE",
		"EMERGENCY",
		"OTHER",
	}
	// reasons has no unique constraint, so guard the insert by hand.
	for _, name := range reasons {
		if _, err := database.Exec(
			"INSERT INTO reasons (name, modified_by) SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM reasons WHERE name = ?)",
			name, modifiedBy, name,
		); err != nil {
			return fmt.Errorf("seed reasons: %w", err)
		}
	}

	return nil
}
