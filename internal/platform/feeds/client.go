// Package feeds is the HTTP client for the upstream wildfire and alert feeds.
// The coordinator never handles feed failures itself; callers retry or
// degrade on error.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mtosity/wirefires-tracker/internal/domain/alerts"
	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/errs"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type feedWildfire struct {
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

func (f feedWildfire) toDomain() wildfires.Incident {
	return wildfires.Incident{
		ID:                 f.ID,
		Name:               f.Name,
		Location:           wildfires.Point{Lat: f.Lat, Lon: f.Lon},
		Severity:           wildfires.Severity(f.Severity),
		ContainmentPercent: f.ContainmentPercent,
		AcresBurning:       f.AcresBurning,
		Cause:              f.Cause,
		StartedAt:          f.StartedAt,
		UpdatedAt:          f.UpdatedAt,
	}
}

type feedStats struct {
	TotalActive       int     `json:"total_active"`
	TotalAcresBurning float64 `json:"total_acres_burning"`
	AvgContainment    int     `json:"avg_containment"`
}

type wildfiresResponse struct {
	Wildfires []feedWildfire `json:"wildfires"`
	Stats     feedStats      `json:"stats"`
}

type feedAlert struct {
	ID         string    `json:"id"`
	WildfireID string    `json:"wildfire_id,omitempty"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	IssuedAt   time.Time `json:"issued_at"`
}

func (f feedAlert) toDomain() alerts.Notice {
	return alerts.Notice{
		ID:         f.ID,
		WildfireID: f.WildfireID,
		Title:      f.Title,
		Message:    f.Message,
		Severity:   alerts.NoticeSeverity(f.Severity),
		IssuedAt:   f.IssuedAt,
	}
}

type alertsResponse struct {
	Alerts []feedAlert `json:"alerts"`
}

// Wildfires fetches the incidents and stats scoped to the given bounds.
func (c *Client) Wildfires(ctx context.Context, b wildfires.Bounds) (wildfires.Snapshot, error) {
	const op = "feeds.client.wildfires"

	q := url.Values{}
	q.Set("north", fmt.Sprintf("%f", b.North))
	q.Set("south", fmt.Sprintf("%f", b.South))
	q.Set("east", fmt.Sprintf("%f", b.East))
	q.Set("west", fmt.Sprintf("%f", b.West))

	var resp wildfiresResponse
	if err := c.get(ctx, op, "/v1/wildfires?"+q.Encode(), &resp); err != nil {
		return wildfires.Snapshot{}, err
	}

	out := wildfires.Snapshot{
		Incidents: make([]wildfires.Incident, 0, len(resp.Wildfires)),
		Stats: wildfires.Stats{
			TotalActive:       resp.Stats.TotalActive,
			TotalAcresBurning: resp.Stats.TotalAcresBurning,
			AvgContainment:    resp.Stats.AvgContainment,
		},
	}
	for _, w := range resp.Wildfires {
		out.Incidents = append(out.Incidents, w.toDomain())
	}
	return out, nil
}

// Alerts fetches the notice stream, proximity-scoped when a position is
// available. Stream order is preserved; it is authoritative for triage.
func (c *Client) Alerts(ctx context.Context, pos *wildfires.Point) ([]alerts.Notice, error) {
	const op = "feeds.client.alerts"

	path := "/v1/alerts"
	if pos != nil {
		q := url.Values{}
		q.Set("lat", fmt.Sprintf("%f", pos.Lat))
		q.Set("lon", fmt.Sprintf("%f", pos.Lon))
		path += "?" + q.Encode()
	}

	var resp alertsResponse
	if err := c.get(ctx, op, path, &resp); err != nil {
		return nil, err
	}

	out := make([]alerts.Notice, 0, len(resp.Alerts))
	for _, a := range resp.Alerts {
		out = append(out, a.toDomain())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errs.Wrap(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.E(errs.KindUnavailable, "FEED_UNREACHABLE", op, "feed request failed", nil, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return errs.E(errs.KindUnavailable, "FEED_STATUS", op,
			fmt.Sprintf("feed returned status %d", resp.StatusCode), nil, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errs.E(errs.KindInternal, "FEED_DECODE", op, "feed response decode failed", nil, err)
	}
	return nil
}
