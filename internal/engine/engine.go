// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine is the single owner of the catalog, the saved-items index
// and the admin session. Every mutation is applied to memory under one lock,
// becomes visible to readers immediately, and is then persisted by a
// background writer. Persistence failures never undo a mutation; they are
// logged and delivered on Errors.
package engine

import (
	"log/slog"
	"sync"

	"discovery/internal/kv"
	"discovery/internal/models"
	"discovery/internal/session"
	"discovery/internal/store"
)

// DefaultErrorBuffer is the capacity of the Errors channel.
const DefaultErrorBuffer = 16

// Options tunes an Engine.
type Options struct {
	// PersistSession stores the admin session so it survives restarts.
	PersistSession bool
	// ErrorBuffer sizes the Errors channel. Errors that do not fit are
	// dropped from the channel but still logged.
	ErrorBuffer int
}

// Engine composes the catalog, saved-items index and admin guard.
type Engine struct {
	mu      sync.RWMutex
	catalog *store.Catalog
	saved   *store.SavedIndex
	guard   *session.Guard

	store          kv.Store
	persistSession bool
	w              *writer

	errMu     sync.Mutex
	errs      chan *PersistenceError
	errClosed bool

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New creates an engine over a seeded catalog and starts its writer. Call
// Hydrate to layer persisted state on top and Close when done.
func New(kvStore kv.Store, catalog *store.Catalog, guard *session.Guard, opts Options) *Engine {
	if opts.ErrorBuffer <= 0 {
		opts.ErrorBuffer = DefaultErrorBuffer
	}
	e := &Engine{
		catalog:        catalog,
		saved:          store.NewSavedIndex(),
		guard:          guard,
		store:          kvStore,
		persistSession: opts.PersistSession,
		errs:           make(chan *PersistenceError, opts.ErrorBuffer),
		subs:           make(map[int]func(Event)),
	}
	e.w = newWriter(kvStore, e.reportError)
	return e
}

// Errors delivers persistence failures. The channel is closed by Close.
func (e *Engine) Errors() <-chan *PersistenceError {
	return e.errs
}

// Flush blocks until every write queued so far has been attempted.
func (e *Engine) Flush() {
	e.w.flush()
}

// Close flushes pending writes, stops the writer and closes Errors.
func (e *Engine) Close() error {
	e.w.close()

	e.errMu.Lock()
	defer e.errMu.Unlock()
	if !e.errClosed {
		e.errClosed = true
		close(e.errs)
	}
	return nil
}

func (e *Engine) reportError(err *PersistenceError) {
	slog.Error("persistence failed", "op", err.Op, "key", err.Key, "error", err.Err)

	e.errMu.Lock()
	defer e.errMu.Unlock()
	if e.errClosed {
		return
	}
	select {
	case e.errs <- err:
	default:
		slog.Warn("persistence error channel full, dropping", "key", err.Key)
	}
}

// persist hands writes to the background writer. Callers hold e.mu so
// writes reach the writer in the order their mutations were applied.
func (e *Engine) persist(writes []write) {
	e.w.enqueue(writes...)
}

// --- Catalog queries ---

// Categories returns all categories in seed order.
func (e *Engine) Categories() []models.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.Categories()
}

// CategoryByID returns nil for an unknown id.
func (e *Engine) CategoryByID(id string) *models.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.CategoryByID(id)
}

func (e *Engine) SubCategoriesByCategory(categoryID string) []models.SubCategory {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.SubCategoriesByCategory(categoryID)
}

// SubCategoryByID returns nil for an unknown id.
func (e *Engine) SubCategoryByID(id string) *models.SubCategory {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.SubCategoryByID(id)
}

func (e *Engine) CategoryStats() []models.CategoryStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.CategoryStats()
}

func (e *Engine) SubCategoryItemCount(subCategoryID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.SubCategoryItemCount(subCategoryID)
}

func (e *Engine) Studies() []models.Study {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.Studies()
}

// StudyByID returns nil for an unknown id.
func (e *Engine) StudyByID(id string) *models.Study {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.StudyByID(id)
}

// StudiesByCategory returns studies placed exactly at (categoryID,
// subCategoryID); a nil subCategoryID selects direct children only.
func (e *Engine) StudiesByCategory(categoryID string, subCategoryID *string) []models.Study {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.StudiesByCategory(categoryID, subCategoryID)
}

func (e *Engine) SearchStudies(query, categoryID string) []models.Study {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.SearchStudies(query, categoryID)
}

func (e *Engine) Videos() []models.Video {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.Videos()
}

// VideoByID returns nil for an unknown id.
func (e *Engine) VideoByID(id string) *models.Video {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.VideoByID(id)
}

func (e *Engine) VideosByCategory(categoryID string, subCategoryID *string) []models.Video {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.VideosByCategory(categoryID, subCategoryID)
}

func (e *Engine) SearchVideos(query, categoryID string) []models.Video {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.SearchVideos(query, categoryID)
}

// --- Catalog mutations ---

// AddStudy validates and appends a study.
func (e *Engine) AddStudy(f models.StudyFields) (*models.Study, error) {
	e.mu.Lock()
	s, err := e.catalog.AddStudy(f)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	writes := e.encodeOverrides()
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("study added", "id", s.ID, "category", s.CategoryID)
	e.notify(Event{Kind: StudyAdded, ID: s.ID})
	return s, nil
}

// UpdateStudy merges a patch over an existing study.
func (e *Engine) UpdateStudy(id string, p models.StudyPatch) (*models.Study, error) {
	e.mu.Lock()
	s, err := e.catalog.UpdateStudy(id, p)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	writes := e.encodeOverrides()
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("study updated", "id", id)
	e.notify(Event{Kind: StudyUpdated, ID: id})
	return s, nil
}

// DeleteStudy removes a study and, in the same critical section, its
// saved-items entry.
func (e *Engine) DeleteStudy(id string) error {
	e.mu.Lock()
	if err := e.catalog.DeleteStudy(id); err != nil {
		e.mu.Unlock()
		return err
	}
	writes := e.encodeOverrides()
	if e.saved.UnsaveStudy(id) {
		writes = append(writes, e.encodeSaved()...)
	}
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("study deleted", "id", id)
	e.notify(Event{Kind: StudyDeleted, ID: id})
	return nil
}

// AddVideo validates and appends a video.
func (e *Engine) AddVideo(f models.VideoFields) (*models.Video, error) {
	e.mu.Lock()
	v, err := e.catalog.AddVideo(f)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	writes := e.encodeOverrides()
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("video added", "id", v.ID, "category", v.CategoryID)
	e.notify(Event{Kind: VideoAdded, ID: v.ID})
	return v, nil
}

// UpdateVideo merges a patch over an existing video.
func (e *Engine) UpdateVideo(id string, p models.VideoPatch) (*models.Video, error) {
	e.mu.Lock()
	v, err := e.catalog.UpdateVideo(id, p)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	writes := e.encodeOverrides()
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("video updated", "id", id)
	e.notify(Event{Kind: VideoUpdated, ID: id})
	return v, nil
}

// DeleteVideo removes a video and its saved-items entry.
func (e *Engine) DeleteVideo(id string) error {
	e.mu.Lock()
	if err := e.catalog.DeleteVideo(id); err != nil {
		e.mu.Unlock()
		return err
	}
	writes := e.encodeOverrides()
	if e.saved.UnsaveVideo(id) {
		writes = append(writes, e.encodeSaved()...)
	}
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("video deleted", "id", id)
	e.notify(Event{Kind: VideoDeleted, ID: id})
	return nil
}

// --- Saved items ---

// SaveStudy bookmarks an existing study. Saving twice is a no-op.
func (e *Engine) SaveStudy(id string) error {
	e.mu.Lock()
	if !e.catalog.HasStudy(id) {
		e.mu.Unlock()
		return &store.NotFoundError{Kind: "study", ID: id}
	}
	if !e.saved.SaveStudy(id) {
		e.mu.Unlock()
		return nil
	}
	writes := e.encodeSaved()
	e.persist(writes)
	e.mu.Unlock()

	e.notify(Event{Kind: StudySaved, ID: id})
	return nil
}

// UnsaveStudy removes a bookmark. Unsaving an absent id is a no-op.
func (e *Engine) UnsaveStudy(id string) {
	e.mu.Lock()
	if !e.saved.UnsaveStudy(id) {
		e.mu.Unlock()
		return
	}
	writes := e.encodeSaved()
	e.persist(writes)
	e.mu.Unlock()

	e.notify(Event{Kind: StudyUnsaved, ID: id})
}

// SaveVideo bookmarks an existing video. Saving twice is a no-op.
func (e *Engine) SaveVideo(id string) error {
	e.mu.Lock()
	if !e.catalog.HasVideo(id) {
		e.mu.Unlock()
		return &store.NotFoundError{Kind: "video", ID: id}
	}
	if !e.saved.SaveVideo(id) {
		e.mu.Unlock()
		return nil
	}
	writes := e.encodeSaved()
	e.persist(writes)
	e.mu.Unlock()

	e.notify(Event{Kind: VideoSaved, ID: id})
	return nil
}

// UnsaveVideo removes a bookmark. Unsaving an absent id is a no-op.
func (e *Engine) UnsaveVideo(id string) {
	e.mu.Lock()
	if !e.saved.UnsaveVideo(id) {
		e.mu.Unlock()
		return
	}
	writes := e.encodeSaved()
	e.persist(writes)
	e.mu.Unlock()

	e.notify(Event{Kind: VideoUnsaved, ID: id})
}

func (e *Engine) IsStudySaved(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.saved.IsStudySaved(id)
}

func (e *Engine) IsVideoSaved(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.saved.IsVideoSaved(id)
}

// SavedStudies returns the saved studies in the order they were saved.
func (e *Engine) SavedStudies() []models.Study {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := e.saved.StudyIDs()
	out := make([]models.Study, 0, len(ids))
	for _, id := range ids {
		if s := e.catalog.StudyByID(id); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// SavedVideos returns the saved videos in the order they were saved.
func (e *Engine) SavedVideos() []models.Video {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := e.saved.VideoIDs()
	out := make([]models.Video, 0, len(ids))
	for _, id := range ids {
		if v := e.catalog.VideoByID(id); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// SavedCounts returns how many studies and videos are saved.
func (e *Engine) SavedCounts() (studies, videos int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.saved.StudyIDs()), len(e.saved.VideoIDs())
}

// --- Admin session ---

// Login checks admin credentials. With TOTP configured a correct password
// leaves the session pending until VerifyTOTP succeeds, and any persisted
// session is removed until then.
func (e *Engine) Login(username, password string) error {
	e.mu.Lock()
	if err := e.guard.Login(username, password); err != nil {
		e.mu.Unlock()
		slog.Warn("admin login failed", "username", username)
		return err
	}
	state := e.guard.State()
	writes := e.encodeSession()
	e.persist(writes)
	e.mu.Unlock()

	if state == session.PendingTOTP {
		e.notify(Event{Kind: AdminPending})
		return nil
	}
	slog.Info("admin logged in", "username", username)
	e.notify(Event{Kind: AdminLoggedIn})
	return nil
}

// VerifyTOTP completes a pending login.
func (e *Engine) VerifyTOTP(code string) error {
	e.mu.Lock()
	if err := e.guard.VerifyTOTP(code); err != nil {
		e.mu.Unlock()
		return err
	}
	writes := e.encodeSession()
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("admin logged in", "totp", true)
	e.notify(Event{Kind: AdminLoggedIn})
	return nil
}

// Logout always returns the session to logged out.
func (e *Engine) Logout() {
	e.mu.Lock()
	e.guard.Logout()
	writes := e.encodeSession()
	e.persist(writes)
	e.mu.Unlock()

	slog.Info("admin logged out")
	e.notify(Event{Kind: AdminLoggedOut})
}

func (e *Engine) IsLoggedIn() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.guard.IsLoggedIn()
}

// AdminState returns the current login state.
func (e *Engine) AdminState() session.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.guard.State()
}
