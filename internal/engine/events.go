package engine

import "sort"

// EventKind names a committed change.
type EventKind string

const (
	Hydrated       EventKind = "hydrated"
	StudyAdded     EventKind = "study.added"
	StudyUpdated   EventKind = "study.updated"
	StudyDeleted   EventKind = "study.deleted"
	VideoAdded     EventKind = "video.added"
	VideoUpdated   EventKind = "video.updated"
	VideoDeleted   EventKind = "video.deleted"
	StudySaved     EventKind = "study.saved"
	StudyUnsaved   EventKind = "study.unsaved"
	VideoSaved     EventKind = "video.saved"
	VideoUnsaved   EventKind = "video.unsaved"
	AdminLoggedIn  EventKind = "admin.logged_in"
	AdminPending   EventKind = "admin.pending_totp"
	AdminLoggedOut EventKind = "admin.logged_out"
)

// Event is delivered to subscribers after a mutation is visible to readers.
type Event struct {
	Kind EventKind
	ID   string // affected study or video id, empty for session events
}

// Subscribe registers fn to receive events. Callbacks run synchronously on
// the goroutine that made the change, in registration order, and must not
// block. The returned func removes the subscription.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()

	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn

	return func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) notify(ev Event) {
	e.subsMu.Lock()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, e.subs[id])
	}
	e.subsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
