// Package wildfires provides domain models for wildfire incidents.
package wildfires

import (
	"time"

	"github.com/mtosity/wirefires-tracker/internal/errs"
)

type Severity string

const (
	SeverityLow       Severity = "low"
	SeverityModerate  Severity = "moderate"
	SeverityHigh      Severity = "high"
	SeverityExtreme   Severity = "extreme"
	SeverityContained Severity = "contained"
)

type Point struct {
	Lat float64
	Lon float64
}

func (p Point) Validate(op string) error {
	fields := map[string]string{}

	if p.Lat < -90 || p.Lat > 90 {
		fields["lat"] = "must be between -90 and 90"
	}
	if p.Lon < -180 || p.Lon > 180 {
		fields["lon"] = "must be between -180 and 180"
	}
	if len(fields) > 0 {
		return errs.E(errs.KindInvalid, "INVALID_COORDINATES", op, "invalid coordinates", fields, nil)
	}

	return nil
}

// Incident is an immutable snapshot of one wildfire as delivered by the
// upstream feed. Identity is ID; records are replaced wholesale per refresh,
// never mutated in place.
type Incident struct {
	ID   string
	Name string

	Location Point

	Severity           Severity
	ContainmentPercent int
	AcresBurning       float64
	Cause              string

	StartedAt time.Time
	UpdatedAt time.Time
}

// IsActive is the sole authority for whether an incident may be selected or
// navigated to from an alert.
func (i Incident) IsActive() bool {
	return i.Severity != SeverityContained && i.ContainmentPercent < 100
}

// Find returns the incident with the given id from a snapshot list.
func Find(list []Incident, id string) (Incident, bool) {
	for _, it := range list {
		if it.ID == id {
			return it, true
		}
	}
	return Incident{}, false
}

// Stats summarizes the incidents inside the current scope.
type Stats struct {
	TotalActive       int
	TotalAcresBurning float64
	AvgContainment    int
}

// Snapshot is one resolved fetch of scope-filtered incidents plus their stats.
type Snapshot struct {
	Incidents []Incident
	Stats     Stats
}
