package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Splash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Particles: 500, SpeedP90: 1.0})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Particles: 500, SpeedP90: 4.0})
	if !hasBookmark(bookmarks, BookmarkSplash) {
		t.Error("expected splash bookmark")
	}
}

func TestBookmarkDetector_SplashNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{SpeedP90: 1.0})

	if hasBookmark(bd.Check(WindowStats{SpeedP90: 10}), BookmarkSplash) {
		t.Error("splash reported with only one window of history")
	}
}

func TestBookmarkDetector_SettledOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 600), Particles: 300, SpeedMean: 0.1})
		if hasBookmark(bookmarks, BookmarkSettled) {
			count++
			if i != settledWindows-1 {
				t.Errorf("settled at window %d, want %d", i, settledWindows-1)
			}
		}
	}
	if count != 1 {
		t.Errorf("settled reported %d times, want 1", count)
	}
}

func TestBookmarkDetector_NetworkCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Springs: 400})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2400, Springs: 150})
	if !hasBookmark(bookmarks, BookmarkNetworkCollapse) {
		t.Error("expected network_collapse bookmark")
	}

	// Peak was reset to the collapsed count
	if hasBookmark(bd.Check(WindowStats{Springs: 140}), BookmarkNetworkCollapse) {
		t.Error("collapse reported again without a new peak")
	}
}

func TestBookmarkDetector_EscapeEdgeTriggered(t *testing.T) {
	bd := NewBookmarkDetector(10)

	seq := []struct {
		escaped int
		want    bool
	}{
		{0, false},
		{50, true},
		{60, false},
		{0, false},
		{40, true},
	}
	for i, s := range seq {
		got := hasBookmark(bd.Check(WindowStats{Particles: 2000, Escaped: s.escaped}), BookmarkEscape)
		if got != s.want {
			t.Errorf("window %d: escape = %v, want %v", i, got, s.want)
		}
	}
}
