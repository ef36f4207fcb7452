package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/slosh/config"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		WorldWidth:  1280,
		WorldHeight: 800,
		Tick:        1000,
		Material:    config.Default().Material,
		Particles: []ParticleState{
			{X: 10, Y: 20, VelX: 0.5, VelY: -0.3, Springs: []SpringState{{Neighbor: 1, RestLength: 12.5}}},
			{X: 22, Y: 20},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkSplash,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	snapshot := testSnapshot()

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if loaded.Material != snapshot.Material {
		t.Errorf("Material mismatch: got %+v", loaded.Material)
	}
	if len(loaded.Particles) != 2 {
		t.Fatalf("Particles count mismatch: got %d, want 2", len(loaded.Particles))
	}
	if sp := loaded.Particles[0].Springs; len(sp) != 1 || sp[0].RestLength != 12.5 {
		t.Errorf("springs = %+v", sp)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkSplash {
		t.Errorf("Bookmark = %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkNetworkCollapse, Tick: 5000},
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_5000_network_collapse.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_3000.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}
}

func TestLoadSnapshotRejectsBadSprings(t *testing.T) {
	tests := []struct {
		name     string
		neighbor int32
	}{
		{"self", 0},
		{"past the end", 2},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := testSnapshot()
			snapshot.Particles[0].Springs[0].Neighbor = tt.neighbor

			path, err := SaveSnapshot(snapshot, t.TempDir())
			if err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}
			if _, err := LoadSnapshot(path); err == nil || !strings.Contains(err.Error(), "out of range") {
				t.Errorf("LoadSnapshot error = %v, want out of range", err)
			}
		})
	}
}

func TestLoadSnapshotVersionMismatch(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Version = SnapshotVersion + 1

	path, err := SaveSnapshot(snapshot, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version mismatch error")
	}
}
