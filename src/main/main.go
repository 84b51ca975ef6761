package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"screen-magnifier/src/clipboard"
	"screen-magnifier/src/config"
	"screen-magnifier/src/cursor"
	"screen-magnifier/src/eventloop"
	"screen-magnifier/src/geom"
	"screen-magnifier/src/hotkey"
	"screen-magnifier/src/logutil"
	"screen-magnifier/src/overlay"
	"screen-magnifier/src/runtimeinit"
	"screen-magnifier/src/screenshot"
	"screen-magnifier/src/settings"
	"screen-magnifier/src/singleinstance"
	"screen-magnifier/src/tray"
	"screen-magnifier/src/worker"
)

const appTitle = "Magnifier"

type mainOptions struct {
	settingsPath string
	verbose      bool
	noTray       bool
	snapshot     bool
	quit         bool
}

func main() {
	// Native window and tray loops expect to stay on the main thread.
	runtime.LockOSThread()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"magnifier"}
	}

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "magnifier",
		Short:         "Screen magnifier that follows the pointer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.snapshot && opts.quit {
				return errors.New("--snapshot and --quit are mutually exclusive")
			}
			return runWithOptions(cmd.Context(), *opts)
		},
	}

	cmd.Flags().StringVar(&opts.settingsPath, "settings", "", "Settings file (.env, .yaml or .yml); overrides SETTINGS_PATH")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().BoolVar(&opts.noTray, "no-tray", false, "Run without a tray icon")
	cmd.Flags().BoolVar(&opts.snapshot, "snapshot", false, "Ask the running magnifier to copy its view to the clipboard")
	cmd.Flags().BoolVar(&opts.quit, "quit", false, "Ask the running magnifier to exit")

	return cmd
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	longFlags := []string{"settings", "verbose", "no-tray", "snapshot", "quit"}
	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range longFlags {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}

func runWithOptions(ctx context.Context, opts mainOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.snapshot || opts.quit {
		return runDelegated(ctx, opts)
	}
	return runResident(ctx, opts)
}

// runDelegated forwards a command to the resident magnifier and exits.
func runDelegated(ctx context.Context, opts mainOptions) error {
	logutil.Setup(logutil.Options{Verbose: opts.verbose})
	cfg, err := config.LoadWithOptions(config.LoadOptions{SettingsPathOverride: opts.settingsPath})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cmd := singleinstance.CommandSnapshot
	if opts.quit {
		cmd = singleinstance.CommandQuit
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	port := cfg.SingleInstancePort
	detect := func(ctx context.Context) bool { return singleinstance.DetectResident(ctx, port) }
	return handleDelegation(ctx, detect, singleinstance.NewClient(port), cmd)
}

func handleDelegation(ctx context.Context, detect func(context.Context) bool, client singleinstance.Client, cmd string) error {
	if !detect(ctx) {
		return errors.New("no running magnifier found")
	}
	delegated, reply, err := client.Send(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%s failed: %w", strings.ToLower(cmd), err)
	}
	if !delegated {
		return errors.New("no running magnifier found")
	}
	log.Printf("Delegated %s to resident: %s", cmd, reply)
	return nil
}

func runResident(parent context.Context, opts mainOptions) error {
	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			SettingsPathOverride: opts.settingsPath,
			DisableTray:          opts.noTray,
		},
		SetupLogging: func(cfg *config.Config) {
			logutil.Setup(logutil.Options{File: cfg.EnableFileLogging, Verbose: opts.verbose})
		},
		InitClipboard: true,
	})
	if err != nil {
		return err
	}
	cfg := rt.Config
	displays := screenshot.NewDisplays()
	logMonitorConfiguration(displays)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := singleinstance.NewServer(cfg.SingleInstancePort)
	if err := srv.Start(ctx); err != nil {
		if errors.Is(err, singleinstance.ErrAlreadyRunning) && cfg.EnableTray {
			tray.ShowMessage(appTitle, "A magnifier is already running.", true)
		}
		return fmt.Errorf("single instance: %w", err)
	}
	defer srv.Close()
	log.Printf("Single instance lock held on port %d", srv.Port())

	s := rt.Settings
	s.Window = placeOnScreen(s.Window, displays)

	win, err := overlay.New(overlay.Options{Title: appTitle, Geometry: s.Window})
	if err != nil {
		return fmt.Errorf("create magnifier window: %w", err)
	}
	defer win.Close()

	deps := eventloop.Deps{
		Pointer: cursor.Pointer{},
		Screens: displays,
		Sampler: screenshot.Capturer{},
		Window:  win,
	}
	if glyphs, err := cursor.NewGlyphSource(); err != nil {
		log.Printf("Cursor glyph unavailable, drawing no pointer: %v", err)
	} else {
		defer glyphs.Close()
		deps.Glyphs = glyphs
	}
	var pool *worker.Pool
	if rt.ClipboardReady {
		pool = worker.New(1, clipboard.SnapshotHandler)
		defer pool.Close()
		deps.Snapshots = pool
	}
	if cfg.EnableTray {
		deps.Status = tray.Status
	}

	loop := eventloop.New(s, deps)

	hk := hotkey.NewListener()
	requestSnapshot := func() { loop.RequestSnapshot() }
	registerHotkey(hk, cfg.QuitHotkey, loop.Quit)
	if pool != nil {
		registerHotkey(hk, cfg.SnapshotHotkey, requestSnapshot)
	}
	hk.Start()
	defer hk.Stop()

	go serveDelegated(ctx, srv, loop)

	var loopErr error
	if cfg.EnableTray {
		done := make(chan struct{})
		go func() {
			defer close(done)
			loopErr = loop.Run(ctx)
			tray.Quit()
		}()
		menu := tray.Menu{
			Title:   appTitle,
			Tooltip: tray.ZoomTooltip(s.ZoomFactor),
			OnQuit:  loop.Quit,
		}
		if pool != nil {
			menu.OnSnapshot = requestSnapshot
		}
		tray.Run(menu)
		loop.Quit()
		<-done
	} else {
		loopErr = loop.Run(ctx)
	}

	final := loop.Settings()
	if err := settings.Save(rt.Store, final); err != nil {
		log.Printf("Failed to save settings: %v", err)
	} else {
		log.Printf("Saved settings to %s: window=%+v", rt.Store.Path(), final.Window)
	}
	return loopErr
}

func registerHotkey(l *hotkey.Listener, combo string, fn func()) {
	if strings.TrimSpace(combo) == "" {
		return
	}
	if err := l.Register(combo, fn); err != nil {
		log.Printf("Hotkey %q disabled: %v", combo, err)
	}
}

// controller is the part of the event loop delegated commands drive.
type controller interface {
	RequestSnapshot() bool
	Quit()
}

func serveDelegated(ctx context.Context, srv singleinstance.Server, c controller) {
	for {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		handleRequest(conn, c)
	}
}

func handleRequest(conn singleinstance.Conn, c controller) {
	defer conn.Close()
	switch cmd := conn.Request().Command; cmd {
	case singleinstance.CommandSnapshot:
		if !c.RequestSnapshot() {
			_ = conn.RespondError(singleinstance.ReplyBusy)
			return
		}
		_ = conn.RespondSuccess("snapshot requested")
	case singleinstance.CommandQuit:
		_ = conn.RespondSuccess("quitting")
		c.Quit()
	default:
		_ = conn.RespondError("unknown command " + cmd)
	}
}

// monitorLister reports the bounds of every active display.
type monitorLister interface {
	All() []geom.Rect
}

func logMonitorConfiguration(displays monitorLister) {
	all := displays.All()
	log.Printf("MONITOR: detected %d monitors", len(all))
	for i, r := range all {
		log.Printf("MONITOR: %d at x:%d y:%d w:%d h:%d", i, r.X, r.Y, r.Width, r.Height)
	}
	logVirtualScreen()
}

// primaryLocator finds screens, with a fallback for windows on none.
type primaryLocator interface {
	ScreenAt(p geom.Point) (geom.Rect, bool)
	Primary() (geom.Rect, bool)
}

// placeOnScreen keeps r if its centre is on a screen. Otherwise r moves to
// the primary screen's origin, shrunk to fit if needed.
func placeOnScreen(r geom.Rect, screens primaryLocator) geom.Rect {
	if _, ok := screens.ScreenAt(r.Center()); ok {
		return r
	}
	primary, ok := screens.Primary()
	if !ok {
		return r
	}
	log.Printf("Saved window %+v is off screen, moving to primary %+v", r, primary)
	r.X, r.Y = primary.X, primary.Y
	if r.Width > primary.Width {
		r.Width = primary.Width
	}
	if r.Height > primary.Height {
		r.Height = primary.Height
	}
	return r
}
