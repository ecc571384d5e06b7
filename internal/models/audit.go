// Package models contains the persisted entities of the UAT ledger.
package models

import "time"

// Audited carries the identity and audit columns shared by every domain
// entity: generated integer ID, creation and mutation timestamps, and the
// actor that last touched the row.
type Audited struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ModifiedBy string
}

// Environment is the tenancy boundary. Every audited entity except the
// global lookup tables belongs to exactly one environment, and uniqueness
// constraints on codes and names are scoped to it.
type Environment struct {
	Audited
	Name        string
	Description string
}
