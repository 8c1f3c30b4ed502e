package wildfires

import (
	"fmt"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/mtosity/wirefires-tracker/internal/errs"
)

// Bounds is the visible map region in degrees. East/west may describe a span
// crossing the antimeridian (west > east). Replaced wholesale on every camera
// settle, never merged.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

func (b Bounds) Validate(op string) error {
	fields := map[string]string{}

	if b.North <= b.South {
		fields["north"] = "must be greater than south"
	}
	if b.North > 90 || b.South < -90 {
		fields["lat"] = "must be between -90 and 90"
	}
	if b.East < -180 || b.East > 180 || b.West < -180 || b.West > 180 {
		fields["lon"] = "must be between -180 and 180"
	}
	if len(fields) > 0 {
		return errs.E(errs.KindInvalid, "INVALID_BOUNDS", op, "invalid bounds", fields, nil)
	}

	return nil
}

func (b Bounds) rect() s2.Rect {
	return s2.Rect{
		Lat: r1.Interval{
			Lo: (s1.Angle(b.South) * s1.Degree).Radians(),
			Hi: (s1.Angle(b.North) * s1.Degree).Radians(),
		},
		// s1.IntervalFromEndpoints keeps the west->east orientation, so a
		// span crossing the antimeridian (west > east) stays valid.
		Lng: s1.IntervalFromEndpoints(
			(s1.Angle(b.West) * s1.Degree).Radians(),
			(s1.Angle(b.East) * s1.Degree).Radians(),
		),
	}
}

// Contains reports whether the point lies inside the visible region,
// including spans that wrap at the antimeridian.
func (b Bounds) Contains(p Point) bool {
	return b.rect().ContainsLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
}

// CacheKey quantizes the bounds to two decimal places (~1km) so nearby
// viewports share one upstream snapshot.
func (b Bounds) CacheKey() string {
	return fmt.Sprintf("%.2f:%.2f:%.2f:%.2f", b.North, b.South, b.East, b.West)
}
