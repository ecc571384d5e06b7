package models

// System is a global lookup for the system under test (USSP, CISP, ...).
// Not environment-scoped; name is globally unique.
type System struct {
	Audited
	Name        string
	Description string
}

// Section is a global lookup for the functional area a requirement or case
// belongs to. Not environment-scoped; name is globally unique.
type Section struct {
	Audited
	Name string
}

// Reason is a global lookup for UAS zone justification codes
// (AIR_TRAFFIC, SENSITIVE, POPULATION, ...).
type Reason struct {
	Audited
	Name string
}
