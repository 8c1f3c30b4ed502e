package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mtosity/wirefires-tracker/internal/app/monitor"
	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/errs"
)

type Sessions struct {
	mgr *monitor.Manager
}

func NewSessions(mgr *monitor.Manager) *Sessions {
	return &Sessions{mgr: mgr}
}

// --- DTOs ---

type pointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type boundsDTO struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

type wildfireResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Location           pointDTO  `json:"location"`
	Severity           string    `json:"severity"`
	ContainmentPercent int       `json:"containment_percent"`
	AcresBurning       float64   `json:"acres_burning"`
	Cause              string    `json:"cause,omitempty"`
	Active             bool      `json:"active"`
	StartedAt          time.Time `json:"started_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toWildfireResponse(in wildfires.Incident) wildfireResponse {
	return wildfireResponse{
		ID:                 in.ID,
		Name:               in.Name,
		Location:           pointDTO{Lat: in.Location.Lat, Lon: in.Location.Lon},
		Severity:           string(in.Severity),
		ContainmentPercent: in.ContainmentPercent,
		AcresBurning:       in.AcresBurning,
		Cause:              in.Cause,
		Active:             in.IsActive(),
		StartedAt:          in.StartedAt,
		UpdatedAt:          in.UpdatedAt,
	}
}

type alertResponse struct {
	ID         string    `json:"id"`
	WildfireID string    `json:"wildfire_id,omitempty"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	IssuedAt   time.Time `json:"issued_at"`
}

type statsResponse struct {
	TotalActive       int     `json:"total_active"`
	TotalAcresBurning float64 `json:"total_acres_burning"`
	AvgContainment    int     `json:"avg_containment"`
}

type selectionResponse struct {
	Wildfire  *wildfireResponse `json:"wildfire"`
	PopupOpen bool              `json:"popup_open"`
	SheetOpen bool              `json:"sheet_open"`
}

type positionResponse struct {
	Status string    `json:"status"`
	Point  *pointDTO `json:"point,omitempty"`
	Error  string    `json:"error,omitempty"`
}

type viewResponse struct {
	Wildfires     []wildfireResponse `json:"wildfires"`
	Stats         statsResponse      `json:"stats"`
	Selection     selectionResponse  `json:"selection"`
	Alert         *alertResponse     `json:"alert"`
	AlertsPending int                `json:"alerts_pending"`
	Position      positionResponse   `json:"position"`
	Viewport      *boundsDTO         `json:"viewport,omitempty"`
}

func toViewResponse(vs monitor.ViewState) viewResponse {
	out := viewResponse{
		Wildfires: make([]wildfireResponse, 0, len(vs.Incidents)),
		Stats: statsResponse{
			TotalActive:       vs.Stats.TotalActive,
			TotalAcresBurning: vs.Stats.TotalAcresBurning,
			AvgContainment:    vs.Stats.AvgContainment,
		},
		AlertsPending: vs.AlertsPending,
		Position:      positionResponse{Status: string(vs.Position.Status), Error: vs.Position.Err},
	}

	for _, w := range vs.Incidents {
		out.Wildfires = append(out.Wildfires, toWildfireResponse(w))
	}

	if vs.Selection.Incident != nil {
		w := toWildfireResponse(*vs.Selection.Incident)
		out.Selection.Wildfire = &w
	}
	out.Selection.PopupOpen = vs.Selection.PopupOpen
	out.Selection.SheetOpen = vs.Selection.SheetOpen

	if vs.Alert != nil {
		out.Alert = &alertResponse{
			ID:         vs.Alert.ID,
			WildfireID: vs.Alert.WildfireID,
			Title:      vs.Alert.Title,
			Message:    vs.Alert.Message,
			Severity:   string(vs.Alert.Severity),
			IssuedAt:   vs.Alert.IssuedAt,
		}
	}

	if vs.Position.Status == monitor.PositionReady {
		out.Position.Point = &pointDTO{Lat: vs.Position.Point.Lat, Lon: vs.Position.Point.Lon}
	}

	if vs.Bounds != nil {
		out.Viewport = &boundsDTO{North: vs.Bounds.North, South: vs.Bounds.South, East: vs.Bounds.East, West: vs.Bounds.West}
	}

	return out
}

type commandResponse struct {
	Kind      string       `json:"kind"`
	Camera    *cameraDTO   `json:"camera,omitempty"`
	ZoomDelta int          `json:"zoom_delta,omitempty"`
	Navigate  *navigateDTO `json:"navigate,omitempty"`
	Share     *shareDTO    `json:"share,omitempty"`
	Clipboard string       `json:"clipboard,omitempty"`
	Toast     *toastDTO    `json:"toast,omitempty"`
}

type cameraDTO struct {
	Center    pointDTO `json:"center"`
	Zoom      float64  `json:"zoom"`
	Essential bool     `json:"essential"`
}

type navigateDTO struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

type shareDTO struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

type toastDTO struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func toCommandResponse(c monitor.Command) commandResponse {
	out := commandResponse{Kind: string(c.Kind), ZoomDelta: c.ZoomDelta, Clipboard: c.Clipboard}
	if c.Camera != nil {
		out.Camera = &cameraDTO{
			Center:    pointDTO{Lat: c.Camera.Center.Lat, Lon: c.Camera.Center.Lon},
			Zoom:      c.Camera.Zoom,
			Essential: c.Camera.Essential,
		}
	}
	if c.Navigate != nil {
		out.Navigate = &navigateDTO{URL: c.Navigate.URL, Label: c.Navigate.Label}
	}
	if c.Share != nil {
		out.Share = &shareDTO{Title: c.Share.Title, Text: c.Share.Text, URL: c.Share.URL}
	}
	if c.Toast != nil {
		out.Toast = &toastDTO{Title: c.Toast.Title, Message: c.Toast.Message, Severity: string(c.Toast.Severity)}
	}
	return out
}

// --- Session lifecycle ---

type createSessionRequest struct {
	Mobile   bool `json:"mobile"`
	CanShare bool `json:"can_share"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

func (h *Sessions) Create(ctx *gin.Context) {
	const op = "sessions.http.create"

	var req createSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errs.E(errs.KindInvalid, "INVALID_JSON", op, "invalid json", nil, err))
		return
	}

	s := h.mgr.Create(ctx.Request.Context(), monitor.Capabilities{
		Mobile:   req.Mobile,
		CanShare: req.CanShare,
	})

	ctx.JSON(http.StatusCreated, createSessionResponse{SessionID: s.ID})
}

func (h *Sessions) Remove(ctx *gin.Context) {
	const op = "sessions.http.remove"

	if !h.mgr.Remove(ctx.Request.Context(), ctx.Param("id")) {
		ctx.Error(errs.E(errs.KindNotFound, "SESSION_NOT_FOUND", op, "session not found", nil, nil))
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) session(ctx *gin.Context, op string) (*monitor.Session, bool) {
	s, ok := h.mgr.Get(ctx.Param("id"))
	if !ok {
		ctx.Error(errs.E(errs.KindNotFound, "SESSION_NOT_FOUND", op, "session not found", nil, nil))
		return nil, false
	}
	return s, true
}

// --- View + commands ---

func (h *Sessions) View(ctx *gin.Context) {
	const op = "sessions.http.view"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, toViewResponse(s.Coordinator.ViewState()))
}

func (h *Sessions) DrainCommands(ctx *gin.Context) {
	const op = "sessions.http.drain_commands"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}

	cmds := s.Buffer.Drain()
	out := make([]commandResponse, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, toCommandResponse(c))
	}
	ctx.JSON(http.StatusOK, gin.H{"commands": out})
}

// --- Events ---

func (h *Sessions) ViewportChanged(ctx *gin.Context) {
	const op = "sessions.http.viewport_changed"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}

	var req boundsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errs.E(errs.KindInvalid, "INVALID_JSON", op, "invalid json", nil, err))
		return
	}

	// Bounds are passed through unchanged; the data layer rejects
	// malformed regions.
	s.Coordinator.OnViewportChange(ctx.Request.Context(), wildfires.Bounds{
		North: req.North,
		South: req.South,
		East:  req.East,
		West:  req.West,
	})
	ctx.Status(http.StatusAccepted)
}

func (h *Sessions) MapReady(ctx *gin.Context) {
	const op = "sessions.http.map_ready"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Buffer.SetMapReady()
	ctx.Status(http.StatusNoContent)
}

type deviceRequest struct {
	Mobile bool `json:"mobile"`
}

func (h *Sessions) DeviceChanged(ctx *gin.Context) {
	const op = "sessions.http.device_changed"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}

	var req deviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errs.E(errs.KindInvalid, "INVALID_JSON", op, "invalid json", nil, err))
		return
	}

	s.Coordinator.SetDeviceContext(ctx.Request.Context(), req.Mobile)
	ctx.Status(http.StatusNoContent)
}

type positionRequest struct {
	Point *pointDTO `json:"point"`
	Error string    `json:"error"`
}

func (h *Sessions) PositionResolved(ctx *gin.Context) {
	const op = "sessions.http.position_resolved"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}

	var req positionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errs.E(errs.KindInvalid, "INVALID_JSON", op, "invalid json", nil, err))
		return
	}

	if req.Error != "" || req.Point == nil {
		msg := req.Error
		if msg == "" {
			msg = "position unavailable"
		}
		s.Coordinator.FailPosition(ctx.Request.Context(), msg)
		ctx.Status(http.StatusNoContent)
		return
	}

	p := wildfires.Point{Lat: req.Point.Lat, Lon: req.Point.Lon}
	if err := p.Validate(op); err != nil {
		ctx.Error(err)
		return
	}

	s.Coordinator.ResolvePosition(ctx.Request.Context(), p)
	ctx.Status(http.StatusNoContent)
}

// --- Selection ---

type selectRequest struct {
	WildfireID *string `json:"wildfire_id"`
}

func (h *Sessions) Select(ctx *gin.Context) {
	const op = "sessions.http.select"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}

	var req selectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errs.E(errs.KindInvalid, "INVALID_JSON", op, "invalid json", nil, err))
		return
	}

	if req.WildfireID == nil || *req.WildfireID == "" {
		s.Coordinator.Deselect(ctx.Request.Context())
		ctx.Status(http.StatusNoContent)
		return
	}

	if err := s.Coordinator.Select(ctx.Request.Context(), *req.WildfireID); err != nil {
		ctx.Error(err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) ClosePopup(ctx *gin.Context) {
	const op = "sessions.http.close_popup"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.ClosePopup(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) CloseSheet(ctx *gin.Context) {
	const op = "sessions.http.close_sheet"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.CloseMobileSheet(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

// --- Alerts ---

func (h *Sessions) DismissAlert(ctx *gin.Context) {
	const op = "sessions.http.dismiss_alert"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.DismissNotice(ctx.Request.Context(), ctx.Param("alertID"))
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) OpenAlert(ctx *gin.Context) {
	const op = "sessions.http.open_alert"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.OpenNotice(ctx.Request.Context(), ctx.Param("alertID"))
	ctx.Status(http.StatusNoContent)
}

// --- Actions ---

func (h *Sessions) Locate(ctx *gin.Context) {
	const op = "sessions.http.locate"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.LocateMe(ctx.Request.Context())
	ctx.Status(http.StatusAccepted)
}

func (h *Sessions) ZoomIn(ctx *gin.Context) {
	const op = "sessions.http.zoom_in"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.ZoomIn(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) ZoomOut(ctx *gin.Context) {
	const op = "sessions.http.zoom_out"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.ZoomOut(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) Directions(ctx *gin.Context) {
	const op = "sessions.http.directions"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.GetDirections(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) Share(ctx *gin.Context) {
	const op = "sessions.http.share"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.Share(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) ShareFailed(ctx *gin.Context) {
	const op = "sessions.http.share_failed"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.ShareFailed(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *Sessions) Subscribe(ctx *gin.Context) {
	const op = "sessions.http.subscribe"

	s, ok := h.session(ctx, op)
	if !ok {
		return
	}
	s.Coordinator.SubscribeToAlerts(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}
