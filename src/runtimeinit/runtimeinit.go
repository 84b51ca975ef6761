package runtimeinit

import (
	"fmt"
	"log"

	"screen-magnifier/src/clipboard"
	"screen-magnifier/src/config"
	"screen-magnifier/src/settings"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(cfg *config.Config)
	// InitClipboard is off for processes that only delegate to a resident instance.
	InitClipboard bool
}

// Runtime is what Bootstrap hands to the caller.
type Runtime struct {
	Config   *config.Config
	Store    settings.Store
	Settings settings.Settings
	// ClipboardReady is false when the clipboard could not be initialised;
	// snapshots are then unavailable but the magnifier still runs.
	ClipboardReady bool
}

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg)
	}
	if cfg.EnvPath != "" {
		log.Printf("Loaded configuration from %s", cfg.EnvPath)
	}

	store := settings.Open(cfg.SettingsPath)
	s, err := settings.Load(store)
	if err != nil {
		// A corrupt settings file must not keep the magnifier from starting.
		log.Printf("Using default settings: %v", err)
	}
	log.Printf("Settings from %s: zoom=%g frame=%g window=%+v", store.Path(), s.ZoomFactor, s.FrameWidth, s.Window)

	rt := &Runtime{Config: cfg, Store: store, Settings: s}
	if opts.InitClipboard {
		if err := clipboard.Init(); err != nil {
			log.Printf("Clipboard unavailable, snapshots disabled: %v", err)
		} else {
			rt.ClipboardReady = true
		}
	}
	return rt, nil
}
