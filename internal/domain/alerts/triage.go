package alerts

// Triage filters the alert stream by the set of notices the user has closed
// this session. The dismissed set is keyed purely by notice id, grows
// monotonically, and is never persisted across sessions. Dismissing never
// deletes the underlying notice, only hides it.
//
// Triage is not safe for concurrent use; the owning coordinator serializes
// access under its own state lock.
type Triage struct {
	dismissed map[string]struct{}
}

func NewTriage() *Triage {
	return &Triage{dismissed: map[string]struct{}{}}
}

// Dismiss hides the notice id for the rest of the session. Irreversible.
func (t *Triage) Dismiss(id string) {
	t.dismissed[id] = struct{}{}
}

func (t *Triage) Dismissed(id string) bool {
	_, ok := t.dismissed[id]
	return ok
}

// Visible returns the stream minus dismissed notices, preserving the stream's
// own order. The stream ordering is authoritative; triage never re-sorts.
func (t *Triage) Visible(stream []Notice) []Notice {
	out := make([]Notice, 0, len(stream))
	for _, n := range stream {
		if _, ok := t.dismissed[n.ID]; ok {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Head returns the single notice to present: the first visible one. At most
// one notice is surfaced at a time (single-banner policy); the next head
// becomes visible once this one is dismissed or acted upon.
func (t *Triage) Head(stream []Notice) (Notice, bool) {
	for _, n := range stream {
		if _, ok := t.dismissed[n.ID]; ok {
			continue
		}
		return n, true
	}
	return Notice{}, false
}
