// feedsim is a local stand-in for the upstream wildfire and alert feeds. It
// serves a fixed set of fires filtered by the requested bounds so the
// dashboard can be exercised without upstream access.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
)

type simWildfire struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Lat                float64   `json:"lat"`
	Lon                float64   `json:"lon"`
	Severity           string    `json:"severity"`
	ContainmentPercent int       `json:"containment_percent"`
	AcresBurning       float64   `json:"acres_burning"`
	Cause              string    `json:"cause,omitempty"`
	StartedAt          time.Time `json:"started_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type simStats struct {
	TotalActive       int     `json:"total_active"`
	TotalAcresBurning float64 `json:"total_acres_burning"`
	AvgContainment    int     `json:"avg_containment"`
}

type simAlert struct {
	ID         string    `json:"id"`
	WildfireID string    `json:"wildfire_id,omitempty"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	IssuedAt   time.Time `json:"issued_at"`
}

var fires = []simWildfire{
	{ID: "wf-001", Name: "Caldor Ridge Fire", Lat: 38.62, Lon: -120.54, Severity: "extreme", ContainmentPercent: 12, AcresBurning: 48210, Cause: "lightning"},
	{ID: "wf-002", Name: "Ash Valley Fire", Lat: 37.91, Lon: -119.88, Severity: "high", ContainmentPercent: 45, AcresBurning: 15980, Cause: "under investigation"},
	{ID: "wf-003", Name: "Pine Creek Fire", Lat: 39.41, Lon: -121.32, Severity: "moderate", ContainmentPercent: 70, AcresBurning: 3240},
	{ID: "wf-004", Name: "Dry Gulch Fire", Lat: 38.05, Lon: -120.12, Severity: "contained", ContainmentPercent: 100, AcresBurning: 890, Cause: "campfire"},
	{ID: "wf-005", Name: "Eagle Peak Fire", Lat: 40.12, Lon: -122.05, Severity: "low", ContainmentPercent: 88, AcresBurning: 410},
}

var feedAlerts = []simAlert{
	{ID: "al-101", WildfireID: "wf-001", Title: "Evacuation warning", Message: "Caldor Ridge Fire is spreading toward Highway 50.", Severity: "danger"},
	{ID: "al-102", WildfireID: "wf-004", Title: "Containment update", Message: "Dry Gulch Fire is fully contained.", Severity: "info"},
	{ID: "al-103", Title: "Air quality advisory", Message: "Smoke from regional fires may affect sensitive groups.", Severity: "warning"},
}

func main() {
	addr := os.Getenv("FEEDSIM_ADDR")
	if addr == "" {
		addr = ":9091"
	}

	now := time.Now().UTC()
	for i := range fires {
		fires[i].StartedAt = now.Add(-time.Duration(3+i) * 24 * time.Hour)
		fires[i].UpdatedAt = now
	}
	for i := range feedAlerts {
		feedAlerts[i].IssuedAt = now.Add(-time.Duration(i) * time.Hour)
	}

	http.HandleFunc("/v1/wildfires", func(w http.ResponseWriter, r *http.Request) {
		b, ok := parseBounds(r)

		matched := make([]simWildfire, 0, len(fires))
		for _, f := range fires {
			if ok && !b.Contains(wildfires.Point{Lat: f.Lat, Lon: f.Lon}) {
				continue
			}
			matched = append(matched, f)
		}

		writeJSON(w, map[string]any{
			"wildfires": matched,
			"stats":     statsFor(matched),
		})
	})

	http.HandleFunc("/v1/alerts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"alerts": feedAlerts})
	})

	server := &http.Server{Addr: addr}
	go func() {
		log.Println("feed simulator started on", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
	log.Println("shutting down...")
	server.Close()
}

func parseBounds(r *http.Request) (wildfires.Bounds, bool) {
	q := r.URL.Query()

	parse := func(key string) (float64, bool) {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		return v, err == nil
	}

	north, ok1 := parse("north")
	south, ok2 := parse("south")
	east, ok3 := parse("east")
	west, ok4 := parse("west")
	if !(ok1 && ok2 && ok3 && ok4) {
		return wildfires.Bounds{}, false
	}

	b := wildfires.Bounds{North: north, South: south, East: east, West: west}
	if err := b.Validate("feedsim.parse_bounds"); err != nil {
		return wildfires.Bounds{}, false
	}
	return b, true
}

func statsFor(matched []simWildfire) simStats {
	var s simStats
	var containmentSum int
	for _, f := range matched {
		containmentSum += f.ContainmentPercent
		if f.Severity != "contained" && f.ContainmentPercent < 100 {
			s.TotalActive++
			s.TotalAcresBurning += f.AcresBurning
		}
	}
	if len(matched) > 0 {
		s.AvgContainment = containmentSum / len(matched)
	}
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: %v", err)
	}
}
