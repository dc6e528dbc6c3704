package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/studio/internal/renderstate"
)

var (
	// ErrNotFound indicates a missing bookmark or recording.
	ErrNotFound = errors.New("storage: not found")

	// ErrInvalidName indicates a name that cannot be used as a file name.
	ErrInvalidName = errors.New("storage: invalid name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

type Store struct {
	baseDir string
	log     *slog.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, log: slog.Default()}
}

// WithLogger returns a copy of the store that logs through l.
func (s *Store) WithLogger(l *slog.Logger) *Store {
	c := *s
	c.log = l
	return &c
}

func (s *Store) Init() error {
	for _, dir := range []string{s.bookmarkDir(), s.recordingDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) bookmarkDir() string  { return filepath.Join(s.baseDir, "bookmarks") }
func (s *Store) recordingDir() string { return filepath.Join(s.baseDir, "recordings") }

func checkName(name string) error {
	if !validName.MatchString(name) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Bookmark is a named view state.
type Bookmark struct {
	Name      string                `json:"name"`
	Scene     string                `json:"scene"`
	Timestamp time.Time             `json:"timestamp"`
	View      renderstate.ViewState `json:"view"`
}

// SaveBookmark stores v under name, replacing any bookmark with that name.
func (s *Store) SaveBookmark(name, scene string, v renderstate.ViewState) (*Bookmark, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.bookmarkDir(), 0755); err != nil {
		return nil, err
	}

	b := &Bookmark{Name: name, Scene: scene, Timestamp: time.Now(), View: v}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(s.bookmarkDir(), name+".json"), data, 0644); err != nil {
		return nil, err
	}
	s.log.Debug("bookmark saved", "name", name, "scene", scene)
	return b, nil
}

func (s *Store) LoadBookmark(name string) (*Bookmark, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.bookmarkDir(), name+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: bookmark %q", ErrNotFound, name)
		}
		return nil, err
	}

	var b Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("storage: bookmark %q: %w", name, err)
	}
	if err := b.View.Validate(); err != nil {
		return nil, fmt.Errorf("storage: bookmark %q: %w", name, err)
	}
	return &b, nil
}

// ListBookmarks returns all readable bookmarks sorted by name. Unreadable
// files are skipped.
func (s *Store) ListBookmarks() ([]Bookmark, error) {
	entries, err := os.ReadDir(s.bookmarkDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []Bookmark{}, nil
		}
		return nil, err
	}

	out := make([]Bookmark, 0, len(entries))
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".json")
		if entry.IsDir() || !ok {
			continue
		}
		b, err := s.LoadBookmark(name)
		if err != nil {
			s.log.Warn("skipping bookmark", "file", entry.Name(), "err", err)
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) DeleteBookmark(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.bookmarkDir(), name+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: bookmark %q", ErrNotFound, name)
	}
	return err
}

// RecordingMetadata describes a saved recording.
type RecordingMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Scene     string    `json:"scene"`
	Timestamp time.Time `json:"timestamp"`
	Samples   int       `json:"samples"`
	Duration  float64   `json:"duration"`
}

// SaveRecording writes samples as CSV next to a JSON metadata file and
// returns the recording id.
func (s *Store) SaveRecording(name, scene string, samples []renderstate.ViewState) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	now := time.Now()
	id := fmt.Sprintf("%s_%d", name, now.UnixMilli())
	dir := filepath.Join(s.recordingDir(), id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := RecordingMetadata{
		ID:        id,
		Name:      name,
		Scene:     scene,
		Timestamp: now,
		Samples:   len(samples),
	}
	if n := len(samples); n > 0 {
		meta.Duration = float64(samples[n-1].Time - samples[0].Time)
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(Columns); err != nil {
		return "", err
	}
	for _, v := range samples {
		if err := w.Write(EncodeRow(v)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	s.log.Debug("recording saved", "id", id, "samples", len(samples))
	return id, nil
}

func (s *Store) ListRecordings() ([]RecordingMetadata, error) {
	entries, err := os.ReadDir(s.recordingDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []RecordingMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RecordingMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.loadMetadata(entry.Name())
		if err != nil {
			s.log.Warn("skipping recording", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) loadMetadata(id string) (*RecordingMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.recordingDir(), id, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: recording %q", ErrNotFound, id)
		}
		return nil, err
	}
	var meta RecordingMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecording returns a recording's metadata and samples.
func (s *Store) LoadRecording(id string) (*RecordingMetadata, []renderstate.ViewState, error) {
	if err := checkName(id); err != nil {
		return nil, nil, err
	}
	meta, err := s.loadMetadata(id)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.recordingDir(), id, "samples.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return meta, []renderstate.ViewState{}, nil
	}

	samples := make([]renderstate.ViewState, 0, len(records)-1)
	for i, rec := range records[1:] {
		v, err := DecodeRow(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: recording %q row %d: %w", id, i+1, err)
		}
		samples = append(samples, v)
	}
	return meta, samples, nil
}
