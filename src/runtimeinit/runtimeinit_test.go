package runtimeinit

import (
	"os"
	"path/filepath"
	"testing"

	"screen-magnifier/src/config"
	"screen-magnifier/src/settings"
)

func TestBootstrapLoadsSettingsFromOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("zoom_factor: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var loggedWith *config.Config
	rt, err := Bootstrap(Options{
		LoadOptions:  config.LoadOptions{SettingsPathOverride: path},
		SetupLogging: func(cfg *config.Config) { loggedWith = cfg },
	})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if loggedWith != rt.Config {
		t.Error("logging was not set up with the loaded config")
	}
	if rt.Store.Path() != path {
		t.Errorf("store path = %q, expected %q", rt.Store.Path(), path)
	}
	if rt.Settings.ZoomFactor != 4 {
		t.Errorf("zoom = %v, expected 4", rt.Settings.ZoomFactor)
	}
	if rt.Settings.FrameWidth != settings.Defaults().FrameWidth {
		t.Errorf("frame width = %v, expected default", rt.Settings.FrameWidth)
	}
	if rt.ClipboardReady {
		t.Error("clipboard initialised without being asked")
	}
}

func TestBootstrapToleratesCorruptSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte(": : :\n\t- ["), 0o644); err != nil {
		t.Fatal(err)
	}
	rt, err := Bootstrap(Options{LoadOptions: config.LoadOptions{SettingsPathOverride: path}})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if rt.Settings != settings.Defaults() {
		t.Errorf("settings = %+v, expected defaults", rt.Settings)
	}
}
