package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"discovery/internal/session"
	"discovery/internal/store"
)

// Keys of the three records the engine persists.
const (
	KeyCatalogOverrides = "catalog-overrides"
	KeySavedItems       = "saved-items"
	KeyAdminSession     = "admin-session"
)

// schemaVersion tags every persisted record. Records carrying another
// version are ignored at hydration.
const schemaVersion = 1

type overridesRecord struct {
	Version int `json:"version"`
	store.Overrides
}

type savedRecord struct {
	Version int `json:"version"`
	store.SavedItems
}

type sessionRecord struct {
	Version int `json:"version"`
	session.Data
}

// Hydrate loads persisted state over the seed catalog. Missing, corrupt or
// unreadable records leave the seed state in place; failures are logged and
// reported on Errors. Hydrate should run once, before the engine is shared.
func (e *Engine) Hydrate(ctx context.Context) {
	var (
		overrides overridesRecord
		saved     savedRecord
		sess      sessionRecord
	)
	haveOverrides := e.load(ctx, KeyCatalogOverrides, &overrides, func() int { return overrides.Version })
	haveSaved := e.load(ctx, KeySavedItems, &saved, func() int { return saved.Version })
	haveSession := e.persistSession && e.load(ctx, KeyAdminSession, &sess, func() int { return sess.Version })

	e.mu.Lock()
	if haveOverrides {
		if skipped := e.catalog.ApplyOverrides(overrides.Overrides); skipped > 0 {
			slog.Warn("skipped persisted catalog records", "count", skipped)
		}
	}

	var writes []write
	if haveSaved {
		e.saved.Restore(saved.SavedItems)
		if pruned := e.saved.Prune(e.catalog.HasStudy, e.catalog.HasVideo); pruned > 0 {
			slog.Info("pruned saved items for missing content", "count", pruned)
			writes = append(writes, e.encodeSaved()...)
		}
	}

	restored := false
	if haveSession {
		if restored = e.guard.Restore(sess.Data); !restored {
			slog.Info("discarding persisted admin session")
			writes = append(writes, write{key: KeyAdminSession})
		}
	}
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("catalog hydrated",
		"overrides", haveOverrides,
		"saved", haveSaved,
		"session_restored", restored,
	)
	e.notify(Event{Kind: Hydrated})
}

// load reads and decodes one record. It returns false when the record is
// absent or unusable.
func (e *Engine) load(ctx context.Context, key string, into any, version func() int) bool {
	data, ok, err := e.store.Get(ctx, key)
	if err != nil {
		e.reportError(&PersistenceError{Op: "get", Key: key, Err: err})
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		e.reportError(&PersistenceError{Op: "decode", Key: key, Err: err})
		return false
	}
	if v := version(); v != schemaVersion {
		e.reportError(&PersistenceError{Op: "decode", Key: key, Err: fmt.Errorf("unsupported version %d", v)})
		return false
	}
	return true
}

// encodeOverrides builds the catalog-overrides write. A catalog that
// matches its seed yields a removal. Callers hold e.mu.
func (e *Engine) encodeOverrides() []write {
	o := e.catalog.Overrides()
	if o.IsEmpty() {
		return []write{{key: KeyCatalogOverrides}}
	}
	return e.encode(KeyCatalogOverrides, overridesRecord{Version: schemaVersion, Overrides: o})
}

// encodeSaved builds the saved-items write; an empty index yields a removal.
// Callers hold e.mu.
func (e *Engine) encodeSaved() []write {
	if e.saved.IsEmpty() {
		return []write{{key: KeySavedItems}}
	}
	return e.encode(KeySavedItems, savedRecord{Version: schemaVersion, SavedItems: e.saved.Snapshot()})
}

// encodeSession builds the admin-session write, or nothing when sessions
// are not persisted. Logging out yields a removal. Callers hold e.mu.
func (e *Engine) encodeSession() []write {
	if !e.persistSession {
		return nil
	}
	if !e.guard.IsLoggedIn() {
		return []write{{key: KeyAdminSession}}
	}
	return e.encode(KeyAdminSession, sessionRecord{Version: schemaVersion, Data: e.guard.Snapshot()})
}

// encode marshals v. On failure nothing is written, so the stored record is
// never replaced by a removal.
func (e *Engine) encode(key string, v any) []write {
	data, err := json.Marshal(v)
	if err != nil {
		e.reportError(&PersistenceError{Op: "encode", Key: key, Err: err})
		return nil
	}
	return []write{{key: key, value: data}}
}
