package store

// SavedItems is the serializable form of the saved-items index.
type SavedItems struct {
	Studies []string `json:"studies"`
	Videos  []string `json:"videos"`
}

// SavedIndex tracks bookmarked study and video ids in the order they were
// saved. Saving and unsaving are idempotent.
type SavedIndex struct {
	studies idSet
	videos  idSet
}

// NewSavedIndex returns an empty index.
func NewSavedIndex() *SavedIndex {
	return &SavedIndex{studies: newIDSet(), videos: newIDSet()}
}

// SaveStudy adds a study id. Returns true if the index changed.
func (x *SavedIndex) SaveStudy(id string) bool { return x.studies.add(id) }

// UnsaveStudy removes a study id. Returns true if the index changed.
func (x *SavedIndex) UnsaveStudy(id string) bool { return x.studies.remove(id) }

// SaveVideo adds a video id. Returns true if the index changed.
func (x *SavedIndex) SaveVideo(id string) bool { return x.videos.add(id) }

// UnsaveVideo removes a video id. Returns true if the index changed.
func (x *SavedIndex) UnsaveVideo(id string) bool { return x.videos.remove(id) }

// IsStudySaved reports whether a study id is bookmarked.
func (x *SavedIndex) IsStudySaved(id string) bool { return x.studies.has(id) }

// IsVideoSaved reports whether a video id is bookmarked.
func (x *SavedIndex) IsVideoSaved(id string) bool { return x.videos.has(id) }

// StudyIDs returns saved study ids in saving order.
func (x *SavedIndex) StudyIDs() []string { return x.studies.list() }

// VideoIDs returns saved video ids in saving order.
func (x *SavedIndex) VideoIDs() []string { return x.videos.list() }

// Prune drops ids for which the matching exists func returns false and
// returns how many were dropped.
func (x *SavedIndex) Prune(studyExists, videoExists func(string) bool) int {
	return x.studies.retain(studyExists) + x.videos.retain(videoExists)
}

// Snapshot returns the index contents.
func (x *SavedIndex) Snapshot() SavedItems {
	return SavedItems{Studies: x.studies.list(), Videos: x.videos.list()}
}

// IsEmpty returns true if nothing is saved.
func (x *SavedIndex) IsEmpty() bool {
	return len(x.studies.order) == 0 && len(x.videos.order) == 0
}

// Restore replaces the index contents. Duplicate and empty ids are dropped.
func (x *SavedIndex) Restore(items SavedItems) {
	x.studies = newIDSet()
	x.videos = newIDSet()
	for _, id := range items.Studies {
		if id != "" {
			x.studies.add(id)
		}
	}
	for _, id := range items.Videos {
		if id != "" {
			x.videos.add(id)
		}
	}
}

// idSet is an insertion-ordered set of ids.
type idSet struct {
	order   []string
	members map[string]struct{}
}

func newIDSet() idSet {
	return idSet{members: make(map[string]struct{})}
}

func (s *idSet) add(id string) bool {
	if _, ok := s.members[id]; ok {
		return false
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *idSet) remove(id string) bool {
	if _, ok := s.members[id]; !ok {
		return false
	}
	delete(s.members, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *idSet) has(id string) bool {
	_, ok := s.members[id]
	return ok
}

func (s *idSet) list() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *idSet) retain(keep func(string) bool) int {
	kept := s.order[:0]
	dropped := 0
	for _, id := range s.order {
		if keep(id) {
			kept = append(kept, id)
			continue
		}
		delete(s.members, id)
		dropped++
	}
	s.order = kept
	return dropped
}
