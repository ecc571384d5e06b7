package models

import "database/sql"

// Email is a contact record. Operators reference it with a restrict FK, so
// an email cannot be deleted while an operator points at it.
type Email struct {
	Audited
	EnvironmentID int64
	Address       string
}

// Operator is a drone operator registered in the environment. It must
// reference exactly one Email and is itself delete-restricted while drones
// reference it.
type Operator struct {
	Audited
	EnvironmentID int64
	EmailID       int64
	Name          string
	EasaID        sql.NullString
	Phone         sql.NullString

	Email *Email
}

// Drone is an unmanned aircraft owned by exactly one Operator.
type Drone struct {
	Audited
	EnvironmentID int64
	OperatorID    int64
	Name          string
	SerialNumber  string
	Manufacturer  sql.NullString
	Model         sql.NullString

	Operator *Operator
}

// UhubOrg is a U-Space hub organisation. Deletion is restricted while it
// still owns users.
type UhubOrg struct {
	Audited
	EnvironmentID int64
	Name          string
	ExternalID    sql.NullString

	Users []*UhubUser
}

// UhubUser is a user account inside a UhubOrg.
type UhubUser struct {
	Audited
	EnvironmentID int64
	UhubOrgID     int64
	Username      string
	Email         sql.NullString
	Role          sql.NullString

	Org *UhubOrg
}
