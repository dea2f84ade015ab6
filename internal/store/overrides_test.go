package store

import (
	"encoding/json"
	"testing"

	"discovery/internal/models"
)

func TestOverridesEmptyForFreshCatalog(t *testing.T) {
	c := testCatalog(t)
	if o := c.Overrides(); !o.IsEmpty() {
		t.Errorf("expected empty overrides, got %+v", o)
	}
}

func TestOverridesTrackChanges(t *testing.T) {
	c := testCatalog(t)

	added, err := c.AddStudy(models.StudyFields{CategoryID: "prayer", Title: "Fasting", Description: "Why and how", Content: "..."})
	if err != nil {
		t.Fatalf("AddStudy: %v", err)
	}
	if _, err := c.UpdateStudy("study-b", models.StudyPatch{Description: models.StringPtr("Four soils")}); err != nil {
		t.Fatalf("UpdateStudy: %v", err)
	}
	if err := c.DeleteStudy("study-a"); err != nil {
		t.Fatalf("DeleteStudy: %v", err)
	}
	if err := c.DeleteVideo("video-2"); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}

	o := c.Overrides()

	if got := studyIDs(o.Studies.Upserts); !equalIDs(got, []string{"study-b", added.ID}) {
		t.Errorf("study upserts: got %v", got)
	}
	if !equalIDs(o.Studies.Deleted, []string{"study-a"}) {
		t.Errorf("study deletes: got %v", o.Studies.Deleted)
	}
	if !equalIDs(o.Videos.Deleted, []string{"video-2"}) {
		t.Errorf("video deletes: got %v", o.Videos.Deleted)
	}
}

func TestOverridesAddThenDeleteLeavesNoTrace(t *testing.T) {
	c := testCatalog(t)
	s, _ := c.AddStudy(models.StudyFields{CategoryID: "prayer", Title: "T", Description: "D", Content: "C"})
	if err := c.DeleteStudy(s.ID); err != nil {
		t.Fatalf("DeleteStudy: %v", err)
	}
	if o := c.Overrides(); !o.IsEmpty() {
		t.Errorf("expected empty overrides, got %+v", o)
	}
}

func TestOverridesRoundTrip(t *testing.T) {
	c := testCatalog(t)
	if _, err := c.AddStudy(models.StudyFields{CategoryID: "gospels", SubCategoryID: models.StringPtr("parables"), Title: "Lost Coin", Description: "Luke 15:8", Content: "Or what woman..."}); err != nil {
		t.Fatalf("AddStudy: %v", err)
	}
	if _, err := c.UpdateStudy("study-a", models.StudyPatch{Title: models.StringPtr("Beatitudes")}); err != nil {
		t.Fatalf("UpdateStudy: %v", err)
	}
	if _, err := c.AddVideo(models.VideoFields{CategoryID: "prophecy", Title: "Daniel 7", Description: "Four beasts", ThumbnailURL: models.StringPtr("https://img.example.com/d7.png")}); err != nil {
		t.Fatalf("AddVideo: %v", err)
	}
	if err := c.DeleteVideo("video-1"); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}

	blob, err := json.Marshal(c.Overrides())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Overrides
	if err := json.Unmarshal(blob, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	fresh := testCatalog(t)
	if skipped := fresh.ApplyOverrides(decoded); skipped != 0 {
		t.Errorf("skipped %d records", skipped)
	}

	wantStudies := c.Studies()
	gotStudies := fresh.Studies()
	if len(gotStudies) != len(wantStudies) {
		t.Fatalf("studies: got %d, want %d", len(gotStudies), len(wantStudies))
	}
	for i := range wantStudies {
		w, g := wantStudies[i], gotStudies[i]
		if w.ID != g.ID || w.Title != g.Title || w.Description != g.Description ||
			w.Content != g.Content || w.CategoryID != g.CategoryID ||
			!w.CreatedAt.Equal(g.CreatedAt) || !models.InSubCategory(g.SubCategoryID, w.SubCategoryID) {
			t.Errorf("study %d: got %+v, want %+v", i, g, w)
		}
	}

	wantVideos := c.Videos()
	gotVideos := fresh.Videos()
	if len(gotVideos) != len(wantVideos) {
		t.Fatalf("videos: got %d, want %d", len(gotVideos), len(wantVideos))
	}
	for i := range wantVideos {
		if wantVideos[i].ID != gotVideos[i].ID || wantVideos[i].Title != gotVideos[i].Title {
			t.Errorf("video %d: got %+v, want %+v", i, gotVideos[i], wantVideos[i])
		}
	}
}

func TestApplyOverridesSkipsBrokenRecords(t *testing.T) {
	c := testCatalog(t)
	skipped := c.ApplyOverrides(Overrides{
		Studies: Delta[models.Study]{
			Upserts: []models.Study{
				{ID: "", CategoryID: "gospels"},
				{ID: "orphan", CategoryID: "gone"},
				{ID: "ok", CategoryID: "prayer", Title: "T", Description: "D", Content: "C"},
			},
			Deleted: []string{"not-there"},
		},
	})
	if skipped != 2 {
		t.Errorf("skipped: got %d, want 2", skipped)
	}
	if !c.HasStudy("ok") || c.HasStudy("orphan") {
		t.Error("wrong records applied")
	}
	if len(c.Studies()) != 3 {
		t.Errorf("studies: got %d, want 3", len(c.Studies()))
	}
}

func TestApplyOverridesSkipsInvalidFields(t *testing.T) {
	c := testCatalog(t)
	skipped := c.ApplyOverrides(Overrides{
		Studies: Delta[models.Study]{
			Upserts: []models.Study{
				{ID: "study-a", CategoryID: "gospels", Title: "", Description: "D", Content: "C"},
				{ID: "blank", CategoryID: "prayer", Title: "T", Description: "  ", Content: "C"},
			},
		},
		Videos: Delta[models.Video]{
			Upserts: []models.Video{
				{ID: "untitled", CategoryID: "prayer", Description: "D"},
				{ID: "bad-url", CategoryID: "prayer", Title: "T", Description: "D", VideoURL: models.StringPtr("ftp://x")},
				{ID: "fine", CategoryID: "prayer", Title: "T", Description: "D"},
			},
		},
	})
	if skipped != 4 {
		t.Errorf("skipped: got %d, want 4", skipped)
	}
	if s := c.StudyByID("study-a"); s == nil || s.Title != "Sermon on the Mount" {
		t.Errorf("seed study overwritten by invalid record: %+v", s)
	}
	if c.HasStudy("blank") || c.HasVideo("untitled") || c.HasVideo("bad-url") {
		t.Error("invalid records applied")
	}
	if !c.HasVideo("fine") {
		t.Error("valid video not applied")
	}
}
