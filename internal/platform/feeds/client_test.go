package feeds_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/errs"
	"github.com/mtosity/wirefires-tracker/internal/platform/feeds"
)

func TestClient_Wildfires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/wildfires", r.URL.Path)
		assert.Equal(t, "40.000000", r.URL.Query().Get("north"))
		assert.Equal(t, "37.000000", r.URL.Query().Get("south"))
		assert.Equal(t, "-118.000000", r.URL.Query().Get("east"))
		assert.Equal(t, "-122.000000", r.URL.Query().Get("west"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"wildfires": [
				{"id": "A", "name": "Caldor Ridge Fire", "lat": 38.62, "lon": -120.54,
				 "severity": "high", "containment_percent": 40, "acres_burning": 48210}
			],
			"stats": {"total_active": 1, "total_acres_burning": 48210, "avg_containment": 40}
		}`))
	}))
	defer srv.Close()

	client := feeds.New(srv.URL, time.Second)

	snap, err := client.Wildfires(context.Background(), wildfires.Bounds{North: 40, South: 37, East: -118, West: -122})
	require.NoError(t, err)

	require.Len(t, snap.Incidents, 1)
	inc := snap.Incidents[0]
	assert.Equal(t, "A", inc.ID)
	assert.Equal(t, wildfires.SeverityHigh, inc.Severity)
	assert.Equal(t, 40, inc.ContainmentPercent)
	assert.Equal(t, wildfires.Point{Lat: 38.62, Lon: -120.54}, inc.Location)
	assert.Equal(t, 1, snap.Stats.TotalActive)
}

func TestClient_AlertsPositionScoping(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/alerts", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"alerts": [{"id": "n1", "wildfire_id": "A", "title": "Evacuation warning"}]}`))
	}))
	defer srv.Close()

	client := feeds.New(srv.URL, time.Second)
	ctx := context.Background()

	notices, err := client.Alerts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "n1", notices[0].ID)
	assert.Equal(t, "A", notices[0].WildfireID)
	assert.Empty(t, gotQuery)

	_, err = client.Alerts(ctx, &wildfires.Point{Lat: 38.62, Lon: -120.54})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "lat=38.620000")
	assert.Contains(t, gotQuery, "lon=-120.540000")
}

func TestClient_ErrorMapping(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := feeds.New(srv.URL, time.Second)
		_, err := client.Wildfires(context.Background(), wildfires.Bounds{North: 1, South: 0, East: 1, West: 0})
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindUnavailable))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		client := feeds.New(srv.URL, time.Second)
		_, err := client.Alerts(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindUnavailable))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"alerts": `))
		}))
		defer srv.Close()

		client := feeds.New(srv.URL, time.Second)
		_, err := client.Alerts(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindInternal))
	})
}
