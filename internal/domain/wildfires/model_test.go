package wildfires_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/errs"
)

func TestIncident_IsActive(t *testing.T) {
	tests := []struct {
		name        string
		severity    wildfires.Severity
		containment int
		want        bool
	}{
		{"burning with low containment", wildfires.SeverityHigh, 40, true},
		{"burning with zero containment", wildfires.SeverityExtreme, 0, true},
		{"containment at 99", wildfires.SeverityModerate, 99, true},
		{"containment at 100", wildfires.SeverityHigh, 100, false},
		{"severity contained", wildfires.SeverityContained, 60, false},
		{"contained and fully contained", wildfires.SeverityContained, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := wildfires.Incident{Severity: tt.severity, ContainmentPercent: tt.containment}
			assert.Equal(t, tt.want, inc.IsActive())
		})
	}
}

func TestFind(t *testing.T) {
	list := []wildfires.Incident{
		{ID: "wf-1", Name: "First"},
		{ID: "wf-2", Name: "Second"},
	}

	got, ok := wildfires.Find(list, "wf-2")
	require.True(t, ok)
	assert.Equal(t, "Second", got.Name)

	_, ok = wildfires.Find(list, "wf-9")
	assert.False(t, ok)

	_, ok = wildfires.Find(nil, "wf-1")
	assert.False(t, ok)
}

func TestPoint_Validate(t *testing.T) {
	require.NoError(t, wildfires.Point{Lat: 38.6, Lon: -120.5}.Validate("test"))

	err := wildfires.Point{Lat: 91, Lon: -200}.Validate("test")
	require.Error(t, err)

	e, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindInvalid, e.Kind)
	assert.Contains(t, e.Fields, "lat")
	assert.Contains(t, e.Fields, "lon")
}

func TestBounds_Validate(t *testing.T) {
	valid := wildfires.Bounds{North: 40, South: 37, East: -118, West: -122}
	require.NoError(t, valid.Validate("test"))

	inverted := wildfires.Bounds{North: 37, South: 40, East: -118, West: -122}
	err := inverted.Validate("test")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvalid))
}

func TestBounds_Contains(t *testing.T) {
	b := wildfires.Bounds{North: 40, South: 37, East: -118, West: -122}

	assert.True(t, b.Contains(wildfires.Point{Lat: 38.5, Lon: -120}))
	assert.False(t, b.Contains(wildfires.Point{Lat: 42, Lon: -120}))
	assert.False(t, b.Contains(wildfires.Point{Lat: 38.5, Lon: -117}))
}

func TestBounds_Contains_AntimeridianWrap(t *testing.T) {
	// Fiji-ish viewport spanning the antimeridian: west of +177, east of -178.
	b := wildfires.Bounds{North: -15, South: -20, East: -178, West: 177}

	assert.True(t, b.Contains(wildfires.Point{Lat: -17, Lon: 179}))
	assert.True(t, b.Contains(wildfires.Point{Lat: -17, Lon: -179}))
	assert.False(t, b.Contains(wildfires.Point{Lat: -17, Lon: 170}))
	assert.False(t, b.Contains(wildfires.Point{Lat: -17, Lon: -170}))
}

func TestBounds_CacheKey(t *testing.T) {
	a := wildfires.Bounds{North: 40.00001, South: 37.00002, East: -118.00001, West: -122.00003}
	b := wildfires.Bounds{North: 40.00004, South: 37.00001, East: -118.00002, West: -122.00001}

	assert.Equal(t, a.CacheKey(), b.CacheKey())

	c := wildfires.Bounds{North: 41, South: 37, East: -118, West: -122}
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}
