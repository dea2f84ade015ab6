package store

import (
	"log/slog"
	"sort"

	"discovery/internal/models"
)

// Delta records how one content collection differs from the seed: records
// added or edited since seeding, and seed ids that were deleted.
type Delta[T any] struct {
	Upserts []T      `json:"upserts,omitempty"`
	Deleted []string `json:"deleted,omitempty"`
}

// Overrides is the persisted difference between the live catalog and its seed.
type Overrides struct {
	Studies Delta[models.Study] `json:"studies"`
	Videos  Delta[models.Video] `json:"videos"`
}

// IsEmpty returns true if the catalog matches its seed.
func (o Overrides) IsEmpty() bool {
	return len(o.Studies.Upserts) == 0 && len(o.Studies.Deleted) == 0 &&
		len(o.Videos.Upserts) == 0 && len(o.Videos.Deleted) == 0
}

// Overrides computes the current difference from the seed. Upserts follow
// catalog order; deleted ids are sorted.
func (c *Catalog) Overrides() Overrides {
	var o Overrides

	present := make(map[string]struct{}, len(c.studies))
	for _, s := range c.studies {
		present[s.ID] = struct{}{}
		if _, ok := c.touchedStudies[s.ID]; ok {
			o.Studies.Upserts = append(o.Studies.Upserts, s.Clone())
		}
	}
	o.Studies.Deleted = missing(c.seedStudies, present)

	present = make(map[string]struct{}, len(c.videos))
	for _, v := range c.videos {
		present[v.ID] = struct{}{}
		if _, ok := c.touchedVideos[v.ID]; ok {
			o.Videos.Upserts = append(o.Videos.Upserts, v.Clone())
		}
	}
	o.Videos.Deleted = missing(c.seedVideos, present)

	return o
}

// ApplyOverrides replays a persisted delta over the catalog. Deletions are
// applied first, then upserts replace existing records in place or append.
// Upserts that lack an id, fail field validation or break a placement
// invariant are skipped; the number skipped is returned.
func (c *Catalog) ApplyOverrides(o Overrides) int {
	skipped := 0

	for _, id := range o.Studies.Deleted {
		if i := c.studyIndex(id); i >= 0 {
			c.studies = append(c.studies[:i], c.studies[i+1:]...)
		}
	}
	for _, s := range o.Studies.Upserts {
		if s.ID == "" {
			skipped++
			continue
		}
		if err := c.checkPersistedStudy(s); err != nil {
			slog.Warn("skipping persisted study", "id", s.ID, "error", err)
			skipped++
			continue
		}
		if i := c.studyIndex(s.ID); i >= 0 {
			c.studies[i] = s.Clone()
		} else {
			c.studies = append(c.studies, s.Clone())
		}
		c.touchedStudies[s.ID] = struct{}{}
	}

	for _, id := range o.Videos.Deleted {
		if i := c.videoIndex(id); i >= 0 {
			c.videos = append(c.videos[:i], c.videos[i+1:]...)
		}
	}
	for _, v := range o.Videos.Upserts {
		if v.ID == "" {
			skipped++
			continue
		}
		if err := c.checkPersistedVideo(v); err != nil {
			slog.Warn("skipping persisted video", "id", v.ID, "error", err)
			skipped++
			continue
		}
		if i := c.videoIndex(v.ID); i >= 0 {
			c.videos[i] = v.Clone()
		} else {
			c.videos = append(c.videos, v.Clone())
		}
		c.touchedVideos[v.ID] = struct{}{}
	}

	return skipped
}

func (c *Catalog) checkPersistedStudy(s models.Study) error {
	if err := validateStudyText(s.Title, s.Description, s.Content); err != nil {
		return err
	}
	return c.checkPlacement(s.CategoryID, s.SubCategoryID)
}

func (c *Catalog) checkPersistedVideo(v models.Video) error {
	if err := validateVideoFields(textOf(v)); err != nil {
		return err
	}
	return c.checkPlacement(v.CategoryID, v.SubCategoryID)
}

// missing returns the ids in seed that are absent from present, sorted.
func missing(seed, present map[string]struct{}) []string {
	var out []string
	for id := range seed {
		if _, ok := present[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
