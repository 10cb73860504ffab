// Package output writes normalized songs to the front-end data directory.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sheetsync/internal/logger"
	"sheetsync/internal/models"
	"sheetsync/pkg/utils"
)

// ErrWriteFailed wraps any filesystem failure while publishing output.
var ErrWriteFailed = errors.New("output write failed")

// Entry is one song scheduled for writing.
type Entry struct {
	Song     *models.Song
	Title    string
	Slug     string
	Filename string
}

// Collision records two titles that map to the same file.
type Collision struct {
	Filename string
	Kept     string
	Replaced string
}

// Plan is the resolved set of files for a group of songs.
type Plan struct {
	Entries    []Entry
	Skipped    []string
	Collisions []Collision
}

// Filenames returns the sorted, de-duplicated file names in the plan.
func (p *Plan) Filenames() []string {
	names := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		names = append(names, e.Filename)
	}

	sort.Strings(names)

	return names
}

// NewPlan resolves file names for songs. Titles are visited in sorted order;
// when two titles share a slug the later one wins.
func NewPlan(songs map[string]*models.Song) *Plan {
	titles := make([]string, 0, len(songs))
	for title := range songs {
		titles = append(titles, title)
	}

	sort.Strings(titles)

	plan := &Plan{}
	bySlug := make(map[string]int)

	for _, title := range titles {
		slug := utils.Slugify(title)
		if slug == "" {
			plan.Skipped = append(plan.Skipped, title)
			continue
		}

		entry := Entry{
			Song:     songs[title],
			Title:    title,
			Slug:     slug,
			Filename: slug + ".json",
		}

		if idx, ok := bySlug[slug]; ok {
			plan.Collisions = append(plan.Collisions, Collision{
				Filename: entry.Filename,
				Kept:     title,
				Replaced: plan.Entries[idx].Title,
			})
			plan.Entries[idx] = entry

			continue
		}

		bySlug[slug] = len(plan.Entries)
		plan.Entries = append(plan.Entries, entry)
	}

	return plan
}

// Result summarizes one write pass.
type Result struct {
	Files      []string
	Pruned     []string
	Skipped    []string
	Collisions []Collision
}

// Options configures a Writer.
type Options struct {
	Now          func() time.Time
	DataDir      string
	ManifestPath string
	PruneStale   bool
}

// Writer publishes per-song JSON files and the manifest.
type Writer struct {
	now          func() time.Time
	log          *logger.Logger
	dataDir      string
	manifestPath string
	pruneStale   bool
}

// NewWriter creates a writer. A nil Now uses time.Now.
func NewWriter(opts Options, log *logger.Logger) *Writer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Writer{
		now:          now,
		log:          log,
		dataDir:      opts.DataDir,
		manifestPath: opts.ManifestPath,
		pruneStale:   opts.PruneStale,
	}
}

// Write writes every planned song and then the manifest.
// Any filesystem failure aborts the pass.
func (w *Writer) Write(songs map[string]*models.Song) (*Result, error) {
	plan := NewPlan(songs)

	for _, title := range plan.Skipped {
		w.log.Warn("Skipping song with empty file name", "title", title)
	}

	for _, c := range plan.Collisions {
		w.log.Warn("Songs share a file name, later title wins",
			"file", c.Filename, "kept", c.Kept, "replaced", c.Replaced)
	}

	if err := os.MkdirAll(w.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data dir %s: %w", ErrWriteFailed, w.dataDir, err)
	}

	for _, e := range plan.Entries {
		if err := w.writeSong(e); err != nil {
			return nil, err
		}

		w.log.Debug("Wrote song file", "file", e.Filename, "title", e.Title)
	}

	files := plan.Filenames()

	result := &Result{
		Files:      files,
		Skipped:    plan.Skipped,
		Collisions: plan.Collisions,
	}

	if w.pruneStale {
		pruned, err := w.prune(files)
		if err != nil {
			return nil, err
		}

		result.Pruned = pruned
	}

	if err := w.WriteManifest(files); err != nil {
		return nil, err
	}

	return result, nil
}

// WriteManifest renders and writes the manifest for files.
func (w *Writer) WriteManifest(files []string) error {
	data, err := RenderManifest(files, w.now())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(w.manifestPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating manifest dir: %w", ErrWriteFailed, err)
		}
	}

	if err := os.WriteFile(w.manifestPath, data, 0644); err != nil {
		return fmt.Errorf("%w: writing manifest %s: %w", ErrWriteFailed, w.manifestPath, err)
	}

	w.log.Info("Updated song manifest", "path", w.manifestPath, "songs", len(files))

	return nil
}

func (w *Writer) writeSong(e Entry) error {
	data, err := EncodeSong(e.Song)
	if err != nil {
		return fmt.Errorf("%w: encoding %q: %w", ErrWriteFailed, e.Title, err)
	}

	path := filepath.Join(w.dataDir, e.Filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrWriteFailed, path, err)
	}

	return nil
}

func (w *Writer) prune(keep []string) ([]string, error) {
	wanted := make(map[string]bool, len(keep))
	for _, name := range keep {
		wanted[name] = true
	}

	entries, err := os.ReadDir(w.dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing data dir: %w", ErrWriteFailed, err)
	}

	var pruned []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || wanted[name] {
			continue
		}

		if err := os.Remove(filepath.Join(w.dataDir, name)); err != nil {
			return nil, fmt.Errorf("%w: removing stale %s: %w", ErrWriteFailed, name, err)
		}

		w.log.Info("Removed stale song file", "file", name)

		pruned = append(pruned, name)
	}

	return pruned, nil
}

// EncodeSong renders a song in the front-end file format: two-space
// indentation, no HTML escaping, trailing newline.
func EncodeSong(song *models.Song) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(song.File()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
