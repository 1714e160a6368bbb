// Package persist saves and restores the user's watch list across debug
// sessions. The on-disk format is a small JSON document; reading is
// tolerant of unknown fields and malformed entries so a hand-edited file
// degrades to skipped entries rather than a lost list.
package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/pcullen/watchpanel/internal/watch"
)

// formatVersion is bumped on incompatible layout changes.
const formatVersion = 1

// SavedWatch is one persisted watch entry.
type SavedWatch struct {
	Text     string
	Expanded bool
}

// Load reads a persisted watch list. A missing file yields an empty list.
// Entries without text are skipped.
func Load(path string) ([]SavedWatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading watch list %s: %w", path, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("watch list %s is not valid JSON", path)
	}

	var out []SavedWatch
	for _, item := range gjson.GetBytes(data, "watches").Array() {
		text := item.Get("text").String()
		if text == "" {
			continue
		}
		out = append(out, SavedWatch{
			Text:     text,
			Expanded: item.Get("expanded").Bool(),
		})
	}
	return out, nil
}

// Save writes a watch list, creating parent directories as needed.
func Save(path string, watches []SavedWatch) error {
	doc := []byte(`{"watches":[]}`)

	doc, err := sjson.SetBytes(doc, "version", formatVersion)
	if err != nil {
		return fmt.Errorf("encoding watch list: %w", err)
	}

	for _, w := range watches {
		entry, err := sjson.SetBytes([]byte(`{}`), "text", w.Text)
		if err != nil {
			return fmt.Errorf("encoding watch entry: %w", err)
		}
		entry, err = sjson.SetBytes(entry, "expanded", w.Expanded)
		if err != nil {
			return fmt.Errorf("encoding watch entry: %w", err)
		}
		doc, err = sjson.SetRawBytes(doc, "watches.-1", entry)
		if err != nil {
			return fmt.Errorf("encoding watch list: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating watch list directory: %w", err)
		}
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("writing watch list %s: %w", path, err)
	}
	return nil
}

// Snapshot captures the store's current expressions in display order.
func Snapshot(store *watch.Store) []SavedWatch {
	exprs := store.Expressions()
	out := make([]SavedWatch, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, SavedWatch{
			Text:     e.Text,
			Expanded: e.Expanded,
		})
	}
	return out
}
