package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pcullen/watchpanel/internal/watch"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Watch.InsertPosition != "append" {
		t.Errorf("InsertPosition = %s, expected append", cfg.Watch.InsertPosition)
	}
	if cfg.Panel.Indent != 2 {
		t.Errorf("Indent = %d, expected 2", cfg.Panel.Indent)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpanel.toml")
	content := `
[watch]
default_expanded = true
insert_position = "prepend"

[panel]
indent = 4
show_types = false

[persist]
path = "/tmp/watches.json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Watch.DefaultExpanded {
		t.Error("DefaultExpanded = false, expected true")
	}
	if cfg.Watch.InsertPosition != "prepend" {
		t.Errorf("InsertPosition = %s, expected prepend", cfg.Watch.InsertPosition)
	}
	if cfg.Panel.Indent != 4 {
		t.Errorf("Indent = %d, expected 4", cfg.Panel.Indent)
	}
	if cfg.Panel.ShowTypes {
		t.Error("ShowTypes = true, expected false")
	}
	if cfg.Persist.Path != "/tmp/watches.json" {
		t.Errorf("Persist.Path = %s", cfg.Persist.Path)
	}
	// Absent keys keep defaults.
	if !cfg.Watch.RefreshOnStop {
		t.Error("RefreshOnStop lost its default")
	}
}

func TestLoad_InvalidInsertPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpanel.toml")
	os.WriteFile(path, []byte("[watch]\ninsert_position = \"middle\"\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for insert_position")
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpanel.toml")
	os.WriteFile(path, []byte("[watch\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Position(t *testing.T) {
	cfg := Default()
	if cfg.Position() != watch.Append {
		t.Error("default position should be append")
	}
	cfg.Watch.InsertPosition = "prepend"
	if cfg.Position() != watch.Prepend {
		t.Error("expected prepend position")
	}
}

// waitFor polls a condition with a timeout.
func waitFor(condition func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watchpanel.toml")
	if err := os.WriteFile(path, []byte("[panel]\nindent = 2\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	updates := make(chan Config, 4)
	w, err := NewWatcher(path, func(cfg Config) { updates <- cfg }, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[panel]\nindent = 8\n"), 0o644); err != nil {
		t.Fatalf("rewriting config: %v", err)
	}

	var got Config
	received := waitFor(func() bool {
		select {
		case got = <-updates:
			return got.Panel.Indent == 8
		default:
			return false
		}
	}, 2*time.Second)

	if !received {
		t.Fatal("watcher did not deliver reloaded config")
	}
}
