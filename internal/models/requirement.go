package models

// Requirement is a testable statement about the system under test. A valid
// requirement references at least one System and one Section; its code is
// unique within its environment.
type Requirement struct {
	Audited
	EnvironmentID int64
	Code          string
	Definition    string

	Systems  []*System
	Sections []*Section
	Steps    []*Step
	Bugs     []*Bug
}
