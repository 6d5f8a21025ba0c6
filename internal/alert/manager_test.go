package alert

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root string, m Manifest) string {
	t.Helper()

	pluginDir := filepath.Join(root, m.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	pluginDir := writeManifest(t, tmpDir, Manifest{
		Name:        "desktop-notify",
		Version:     "1.0.0",
		Description: "Desktop notifications for engagement alerts",
		Executable:  "notify",
		Events:      []string{EventBadSign, EventSessionEnd},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "desktop-notify" {
		t.Errorf("plugin name = %q, want %q", plugin.Manifest.Name, "desktop-notify")
	}
	if plugin.Path != pluginDir {
		t.Errorf("plugin path = %q, want %q", plugin.Path, pluginDir)
	}
	if plugin.Executable != filepath.Join(pluginDir, "notify") {
		t.Errorf("executable = %q, want inside plugin dir", plugin.Executable)
	}
	if !plugin.Handles(EventBadSign) {
		t.Error("plugin should handle bad_sign events")
	}
}

func TestManager_Subscribers(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{
		Name:       "badsign-only",
		Version:    "1.0.0",
		Executable: "run",
		Events:     []string{EventBadSign},
	})
	writeManifest(t, tmpDir, Manifest{
		Name:       "session-only",
		Version:    "1.0.0",
		Executable: "run",
		Events:     []string{EventSessionEnd},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	subs := manager.Subscribers(EventBadSign)
	if len(subs) != 1 {
		t.Fatalf("expected 1 bad_sign subscriber, got %d", len(subs))
	}
	if subs[0].Manifest.Name != "badsign-only" {
		t.Errorf("subscriber = %q, want %q", subs[0].Manifest.Name, "badsign-only")
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{
		Name:       "my-plugin",
		Version:    "2.0.0",
		Executable: "my-plugin-bin",
		Events:     []string{EventBadSign},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugin, err := manager.Get("my-plugin")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if plugin.Manifest.Version != "2.0.0" {
		t.Errorf("version = %q, want %q", plugin.Manifest.Version, "2.0.0")
	}

	if _, err := manager.Get("nonexistent"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get(nonexistent) err = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_Discover_SkipsInvalidManifests(t *testing.T) {
	tmpDir := t.TempDir()

	badDir := filepath.Join(tmpDir, "bad-plugin")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte("not valid json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	// Missing executable field is also skipped.
	writeManifest(t, tmpDir, Manifest{Name: "no-exec", Version: "1.0.0"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}

	if plugins := manager.List(); len(plugins) != 0 {
		t.Fatalf("expected 0 plugins, got %d", len(plugins))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager("/path/that/does/not/exist")

	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on non-existent dir: %v", err)
	}
	if plugins := manager.List(); len(plugins) != 0 {
		t.Fatalf("expected 0 plugins, got %d", len(plugins))
	}
}
