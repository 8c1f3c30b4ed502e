// Package view owns the selection state machine for the dashboard.
package view

import "github.com/mtosity/wirefires-tracker/internal/domain/wildfires"

// Selection holds which single incident is selected and which presentation
// surfaces are open. Invariants: popup or sheet open implies a selection
// exists; at most one incident is selected at a time.
//
// Selection is not safe for concurrent use; the owning coordinator serializes
// access under its own state lock.
type Selection struct {
	current   *wildfires.Incident
	popupOpen bool
	sheetOpen bool
}

// Select makes the incident the current selection and opens the popup. The
// mobile flag is the device context sampled at selection time: on mobile the
// detail sheet opens as well. Re-selecting the same incident just reasserts
// the same state.
func (s *Selection) Select(inc wildfires.Incident, mobile bool) {
	cp := inc
	s.current = &cp
	s.popupOpen = true
	s.sheetOpen = mobile
}

// Clear drops the selection and closes every surface, on any device.
func (s *Selection) Clear() {
	s.current = nil
	s.popupOpen = false
	s.sheetOpen = false
}

// ClosePopup closes the desktop popup only; the selection is retained.
// Full deselection always goes through Clear.
func (s *Selection) ClosePopup() {
	s.popupOpen = false
}

// CloseSheet dismisses the mobile detail sheet, which means leaving the
// incident's context altogether, so the selection clears too. The asymmetry
// with ClosePopup is intentional: the sheet is the mobile equivalent of the
// whole view.
func (s *Selection) CloseSheet() {
	s.Clear()
}

func (s *Selection) Incident() (wildfires.Incident, bool) {
	if s.current == nil {
		return wildfires.Incident{}, false
	}
	return *s.current, true
}

func (s *Selection) PopupOpen() bool { return s.popupOpen }

func (s *Selection) SheetOpen() bool { return s.sheetOpen }
