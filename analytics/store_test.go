package analytics

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "analytics.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRecordAndSummary(t *testing.T) {
	store := newTestStore(t)

	visits := []Visit{
		{VisitorID: "v1", IPHash: "h1", Browser: "Chrome", OS: "Linux", Device: "Desktop", Path: "/", Referrer: "Direct"},
		{VisitorID: "v1", IPHash: "h1", Browser: "Chrome", OS: "Linux", Device: "Desktop", Path: "/blog/a/", Referrer: "Google"},
		{VisitorID: "v2", IPHash: "h2", Browser: "Firefox", OS: "Windows", Device: "Desktop", Path: "/blog/a/", Referrer: "Direct"},
	}
	for _, v := range visits {
		if err := store.RecordVisit(v); err != nil {
			t.Fatalf("RecordVisit() error = %v", err)
		}
	}

	stats, err := store.Summary(30)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if stats.TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3", stats.TotalViews)
	}
	if stats.UniqueVisitors != 2 {
		t.Errorf("UniqueVisitors = %d, want 2", stats.UniqueVisitors)
	}
	if stats.Period != "30d" {
		t.Errorf("Period = %q", stats.Period)
	}

	if len(stats.TopPages) == 0 || stats.TopPages[0].Path != "/blog/a/" || stats.TopPages[0].Views != 2 {
		t.Errorf("TopPages = %v", stats.TopPages)
	}
	if len(stats.BrowserStats) == 0 || stats.BrowserStats[0].Name != "Chrome" {
		t.Errorf("BrowserStats = %v", stats.BrowserStats)
	}
	if len(stats.DailyViews) != 1 || stats.DailyViews[0].Views != 3 {
		t.Errorf("DailyViews = %v", stats.DailyViews)
	}
}

func TestStoreSummaryExcludesOldVisits(t *testing.T) {
	store := newTestStore(t)

	old := Visit{VisitorID: "v1", IPHash: "h1", Browser: "Chrome", OS: "Linux", Device: "Desktop",
		Path: "/", Timestamp: time.Now().UTC().AddDate(0, 0, -60)}
	recent := Visit{VisitorID: "v2", IPHash: "h2", Browser: "Chrome", OS: "Linux", Device: "Desktop", Path: "/"}

	if err := store.RecordVisit(old); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordVisit(recent); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Summary(30)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalViews != 1 {
		t.Errorf("TotalViews = %d, want 1", stats.TotalViews)
	}
}

func TestStoreRecordBotVisit(t *testing.T) {
	store := newTestStore(t)

	err := store.RecordBotVisit(BotVisit{BotName: "Googlebot", IPHash: "h", UserAgent: "Googlebot/2.1", Path: "/"})
	if err != nil {
		t.Fatalf("RecordBotVisit() error = %v", err)
	}

	// Bot visits stay out of the human stats.
	stats, err := store.Summary(30)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalViews != 0 {
		t.Errorf("TotalViews = %d, want 0", stats.TotalViews)
	}
}

func TestStoreSettings(t *testing.T) {
	store := newTestStore(t)

	val, err := store.GetSetting("missing")
	if err != nil {
		t.Fatal(err)
	}
	if val != "" {
		t.Errorf("GetSetting(missing) = %q, want empty", val)
	}

	if err := store.SetSetting("hash_salt", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetSetting("hash_salt", "def"); err != nil {
		t.Fatal(err)
	}

	val, err = store.GetSetting("hash_salt")
	if err != nil {
		t.Fatal(err)
	}
	if val != "def" {
		t.Errorf("GetSetting() = %q, want def", val)
	}
}

func TestStoreDeleteOlderThan(t *testing.T) {
	store := newTestStore(t)

	stale := time.Now().UTC().AddDate(0, 0, -400)
	if err := store.RecordVisit(Visit{VisitorID: "v", IPHash: "h", Browser: "b", OS: "o", Device: "d", Path: "/", Timestamp: stale}); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordBotVisit(BotVisit{BotName: "b", IPHash: "h", UserAgent: "ua", Path: "/", Timestamp: stale}); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordVisit(Visit{VisitorID: "v", IPHash: "h", Browser: "b", OS: "o", Device: "d", Path: "/"}); err != nil {
		t.Fatal(err)
	}

	removed, err := store.DeleteOlderThan(365)
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}
