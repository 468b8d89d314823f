package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/star/daynight/internal/timesource"
)

var base = time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

// writeEach writes one snapshot per scene, advancing clock a minute between
// writes.
func writeEach(t *testing.T, s *Store, clock *timesource.ManualClock, scenes ...time.Time) []Snapshot {
	t.Helper()
	var out []Snapshot
	for i, scene := range scenes {
		snap, err := s.Write([]byte(strconv.Itoa(i)), scene)
		if err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		out = append(out, snap)
		clock.Advance(time.Minute)
	}
	return out
}

func TestStore_WriteAndLoadLatest(t *testing.T) {
	clock := timesource.NewManualClock(base)
	s := NewStore(t.TempDir(), ".svg", 5, clock)

	scenes := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}
	writeEach(t, s, clock, scenes...)

	data, snap, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if string(data) != "2" {
		t.Errorf("LoadLatest data = %q, want %q", data, "2")
	}
	if want := base.Add(2 * time.Minute); !snap.Written.Equal(want) {
		t.Errorf("LoadLatest written = %v, want %v", snap.Written, want)
	}
	if !snap.Scene.Equal(scenes[2]) {
		t.Errorf("LoadLatest scene = %v, want %v", snap.Scene, scenes[2])
	}
}

func TestStore_PrunesOldestWrites(t *testing.T) {
	clock := timesource.NewManualClock(base)
	s := NewStore(t.TempDir(), "svg", 3, clock)

	var scenes []time.Time
	for i := 0; i < 7; i++ {
		scenes = append(scenes, base.Add(time.Duration(i)*time.Hour))
	}
	writeEach(t, s, clock, scenes...)

	snaps, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("kept %d snapshots, want 3", len(snaps))
	}
	for i, snap := range snaps {
		if want := base.Add(time.Duration(4+i) * time.Minute); !snap.Written.Equal(want) {
			t.Errorf("snapshot %d written = %v, want %v", i, snap.Written, want)
		}
	}
}

func TestStore_OlderSceneWrittenLastSurvives(t *testing.T) {
	clock := timesource.NewManualClock(base)
	s := NewStore(t.TempDir(), ".svg", 2, clock)

	old := time.Date(2001, 1, 1, 12, 0, 0, 0, time.UTC)
	snaps := writeEach(t, s, clock, base, base.Add(time.Hour), old)
	last := snaps[len(snaps)-1]

	if _, err := os.Stat(filepath.Join(s.dir, last.Name)); err != nil {
		t.Fatalf("just-written snapshot missing: %v", err)
	}
	data, snap, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if string(data) != "2" || snap.Name != last.Name {
		t.Errorf("LoadLatest = %q (%s), want the 2001 snapshot %s", data, snap.Name, last.Name)
	}
	if !snap.Scene.Equal(old) {
		t.Errorf("LoadLatest scene = %v, want %v", snap.Scene, old)
	}
}

func TestStore_PreEpochScene(t *testing.T) {
	clock := timesource.NewManualClock(base)
	s := NewStore(t.TempDir(), ".svg", 5, clock)

	landing := time.Date(1969, 7, 20, 20, 17, 0, 0, time.UTC)
	snap, err := s.Write([]byte("moon"), landing)
	if err != nil {
		t.Fatalf("Write(%v): %v", landing, err)
	}
	if !snap.Scene.Equal(landing) {
		t.Errorf("scene = %v, want %v", snap.Scene, landing)
	}

	_, got, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if !got.Scene.Equal(landing) {
		t.Errorf("listed scene = %v, want %v", got.Scene, landing)
	}
}

func TestStore_ClockStepBackKeepsWriteOrder(t *testing.T) {
	clock := timesource.NewManualClock(base)
	s := NewStore(t.TempDir(), ".txt", 10, clock)

	writeEach(t, s, clock, base)
	clock.Set(base.Add(-time.Hour))
	for i := 1; i < 4; i++ {
		if _, err := s.Write([]byte(strconv.Itoa(i)), base); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}
	data, _, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if string(data) != "3" {
		t.Errorf("LoadLatest data = %q, want %q", data, "3")
	}
}

func TestStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.svg", "terminator_bogus.svg", "terminator_01HZZZZZZZZZZZZZZZZZZZZZZZ.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "terminator_sub.svg"), 0755); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir, ".svg", 5, nil)
	snaps, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("List = %+v, want none", snaps)
	}
}

func TestStore_Empty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing"), ".svg", 5, nil)
	if _, _, err := s.LoadLatest(); !errors.Is(err, ErrNoSnapshots) {
		t.Errorf("LoadLatest on empty store = %v, want ErrNoSnapshots", err)
	}
}
