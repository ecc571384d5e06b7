package models

import "database/sql"

// Case is a test case: an ordered list of steps plus the reference data
// (operators, drones, users, zones) it exercises. Its code is unique within
// its environment.
type Case struct {
	Audited
	EnvironmentID int64
	Code          string
	Title         string
	Description   sql.NullString

	Steps     []*Step
	Operators []*Operator
	Drones    []*Drone
	UhubUsers []*UhubUser
	UasZones  []*UasZone
	Systems   []*System
	Sections  []*Section
}

// Step is one ordered action inside a Case. Steps are owned by their case
// (deleted with it) and may cover requirements via a many-to-many link.
type Step struct {
	Audited
	CaseID         int64
	Position       int
	Action         string
	ExpectedResult string

	Requirements []*Requirement
}

// Block groups cases into an executable unit belonging to one System.
type Block struct {
	Audited
	EnvironmentID int64
	SystemID      int64
	Name          string

	System *System
	Cases  []*Case
}
