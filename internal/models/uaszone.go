package models

import "database/sql"

// Zone area types.
const (
	AreaTypeCircle   = "CIRCLE"
	AreaTypePolygon  = "POLYGON"
	AreaTypeCorridor = "CORRIDOR"
)

// UasZone is a geographical UAS restriction zone. The radius is required
// for CIRCLE zones and the corridor width for CORRIDOR zones; both are
// meaningless otherwise.
type UasZone struct {
	Audited
	EnvironmentID int64
	Name          string
	AreaType      string
	RadiusM       sql.NullFloat64
	WidthM        sql.NullFloat64
	LowerLimitM   sql.NullFloat64
	UpperLimitM   sql.NullFloat64

	Orgs    []*UhubOrg
	Reasons []*Reason
}
