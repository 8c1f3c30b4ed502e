// Package alerts provides proximity alert models and triage logic.
package alerts

import "time"

type NoticeSeverity string

const (
	NoticeInfo    NoticeSeverity = "info"
	NoticeWarning NoticeSeverity = "warning"
	NoticeDanger  NoticeSeverity = "danger"
)

// Notice is a read-only snapshot from the external alert feed. WildfireID is
// an optional foreign key into the incident snapshot; empty when the alert is
// not bound to a specific fire.
type Notice struct {
	ID         string
	WildfireID string
	Title      string
	Message    string
	Severity   NoticeSeverity
	IssuedAt   time.Time
}
