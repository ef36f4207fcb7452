package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSplash          BookmarkType = "splash"
	BookmarkSettled         BookmarkType = "settled"
	BookmarkNetworkCollapse BookmarkType = "network_collapse"
	BookmarkEscape          BookmarkType = "escape"
)

// Thresholds for bookmark detection.
const (
	splashFactor       = 2.0  // p90 speed vs rolling average
	splashMinSpeed     = 1.0  // ignore splashes in a nearly still fluid
	settledSpeed       = 0.25 // mean speed below which a window counts as settled
	settledWindows     = 5
	collapseDrop       = 0.30 // spring loss from recent peak
	collapseMinSprings = 20
	escapeFraction     = 0.01
	escapeMinCount     = 5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the fluid's evolution.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentSpringPeak    int
	settledWindowsCount int
	escaping            bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	checks := []func(WindowStats) *Bookmark{
		bd.checkSplash,
		bd.checkSettled,
		bd.checkNetworkCollapse,
		bd.checkEscape,
	}
	for _, check := range checks {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	if stats.Springs > bd.recentSpringPeak {
		bd.recentSpringPeak = stats.Springs
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkSplash fires when the fast tail of the speed distribution jumps
// above twice its rolling average.
func (bd *BookmarkDetector) checkSplash(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SpeedP90
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SpeedP90 > avg*splashFactor && stats.SpeedP90 > splashMinSpeed {
		return &Bookmark{
			Type:        BookmarkSplash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Speed p90 %.2f is %.1fx average (%.2f)", stats.SpeedP90, stats.SpeedP90/avg, avg),
		}
	}
	return nil
}

// checkSettled fires once when the fluid has been nearly still for
// settledWindows consecutive windows.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Particles == 0 || stats.SpeedMean >= settledSpeed {
		bd.settledWindowsCount = 0
		return nil
	}

	bd.settledWindowsCount++
	if bd.settledWindowsCount == settledWindows {
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d particles settled, mean speed %.3f over %d windows", stats.Particles, stats.SpeedMean, settledWindows),
		}
	}
	return nil
}

// checkNetworkCollapse fires when the spring count drops sharply from its
// recent peak.
func (bd *BookmarkDetector) checkNetworkCollapse(stats WindowStats) *Bookmark {
	if bd.recentSpringPeak < collapseMinSprings {
		return nil
	}

	drop := 1.0 - float64(stats.Springs)/float64(bd.recentSpringPeak)
	if drop > collapseDrop {
		oldPeak := bd.recentSpringPeak
		bd.recentSpringPeak = stats.Springs

		return &Bookmark{
			Type:        BookmarkNetworkCollapse,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Springs dropped %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Springs),
		}
	}
	return nil
}

// checkEscape fires when a noticeable share of particles first ends up
// outside the domain.
func (bd *BookmarkDetector) checkEscape(stats WindowStats) *Bookmark {
	limit := int(float64(stats.Particles) * escapeFraction)
	if limit < escapeMinCount {
		limit = escapeMinCount
	}

	if stats.Escaped < limit {
		bd.escaping = false
		return nil
	}
	if bd.escaping {
		return nil
	}

	bd.escaping = true
	return &Bookmark{
		Type:        BookmarkEscape,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d particles outside the domain", stats.Escaped, stats.Particles),
	}
}
