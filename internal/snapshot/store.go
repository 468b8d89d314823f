// Package snapshot keeps rendered maps on disk, newest write last, pruning
// beyond a fixed count.
package snapshot

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/star/daynight/internal/metrics"
	"github.com/star/daynight/internal/timesource"
)

const (
	filePrefix  = "terminator_"
	sceneLayout = "20060102T150405Z"
)

// ErrNoSnapshots is returned by LoadLatest when the directory holds none.
var ErrNoSnapshots = errors.New("no snapshots found")

// Snapshot describes one stored file. Files are ordered by ID, which is
// stamped with the write time; Scene is only carried in the name.
type Snapshot struct {
	ID      ulid.ULID
	Name    string
	Written time.Time // millisecond precision
	Scene   time.Time // zero when the name carries no parseable scene stamp
}

// Store manages snapshot files in one directory.
type Store struct {
	dir     string
	ext     string
	maxKeep int
	clock   timesource.Clock

	mu      sync.Mutex
	entropy io.Reader
	lastMs  uint64
}

// NewStore creates a Store for files with extension ext (".svg", ".txt")
// that keeps at most maxKeep files. clock stamps writes; nil means the
// system clock.
func NewStore(dir, ext string, maxKeep int, clock timesource.Clock) *Store {
	if maxKeep <= 0 {
		maxKeep = 5
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if clock == nil {
		clock = timesource.SystemClock{}
	}
	return &Store{
		dir:     dir,
		ext:     ext,
		maxKeep: maxKeep,
		clock:   clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Write saves data drawn for scene and prunes the oldest writes. The file
// just written is always the newest, whatever instant it shows.
func (s *Store) Write(data []byte, scene time.Time) (Snapshot, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Snapshot{}, fmt.Errorf("creating snapshot dir: %w", err)
	}

	id, err := s.nextID()
	if err != nil {
		return Snapshot{}, fmt.Errorf("generating snapshot id: %w", err)
	}

	scene = scene.UTC()
	snap := Snapshot{
		ID:      id,
		Name:    filePrefix + id.String() + "_" + scene.Format(sceneLayout) + s.ext,
		Written: ulid.Time(id.Time()),
		Scene:   scene.Truncate(time.Second),
	}
	if err := os.WriteFile(filepath.Join(s.dir, snap.Name), data, 0644); err != nil {
		return Snapshot{}, fmt.Errorf("writing snapshot: %w", err)
	}
	metrics.IncSnapshotsWritten()

	return snap, s.prune()
}

// nextID returns a ULID for the current write. The timestamp never moves
// backwards, so a clock stepping back cannot make a new file look old.
func (s *Store) nextID() (ulid.ULID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := ulid.Timestamp(s.clock.Now())
	if ms < s.lastMs {
		ms = s.lastMs
	}
	id, err := ulid.New(ms, s.entropy)
	if err != nil {
		return ulid.ULID{}, err
	}
	s.lastMs = ms
	return id, nil
}

// List returns stored snapshots, oldest write first.
func (s *Store) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing snapshot dir: %w", err)
	}

	var snaps []Snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, s.ext) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), s.ext)
		idPart, scenePart, _ := strings.Cut(raw, "_")
		id, err := ulid.ParseStrict(idPart)
		if err != nil {
			continue
		}
		snap := Snapshot{ID: id, Name: name, Written: ulid.Time(id.Time())}
		if scene, err := time.Parse(sceneLayout, scenePart); err == nil {
			snap.Scene = scene
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].ID.Compare(snaps[j].ID) < 0
	})
	return snaps, nil
}

// LoadLatest reads the most recently written snapshot.
func (s *Store) LoadLatest() ([]byte, Snapshot, error) {
	snaps, err := s.List()
	if err != nil {
		return nil, Snapshot{}, err
	}
	if len(snaps) == 0 {
		return nil, Snapshot{}, ErrNoSnapshots
	}

	latest := snaps[len(snaps)-1]
	data, err := os.ReadFile(filepath.Join(s.dir, latest.Name))
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, latest, nil
}

func (s *Store) prune() error {
	snaps, err := s.List()
	if err != nil {
		return err
	}
	if len(snaps) <= s.maxKeep {
		return nil
	}

	stale := snaps[:len(snaps)-s.maxKeep]
	for _, snap := range stale {
		if err := os.Remove(filepath.Join(s.dir, snap.Name)); err != nil {
			return fmt.Errorf("pruning snapshot %s: %w", snap.Name, err)
		}
	}
	metrics.AddSnapshotsPruned(len(stale))
	return nil
}
