package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/pathifier"
	"github.com/fwojciec/pathifier/bubbletea"
	"github.com/fwojciec/pathifier/capture"
	"github.com/fwojciec/pathifier/clipboard"
	"github.com/fwojciec/pathifier/fs"
	"github.com/fwojciec/pathifier/jsonl"
	"github.com/fwojciec/pathifier/lipgloss"
	"github.com/fwojciec/pathifier/watcher"
	"github.com/rs/zerolog"
)

const usage = `usage: pathifier [command] [flags]

Commands:
  ui          Open the terminal shell (default)
  capture     Save the clipboard image and copy its path
  list        List stored images, newest first
  copy PATH   Copy the resolved form of PATH
  history     Show recent capture and copy outcomes
  settings    Print the effective settings (-save persists them)

Run 'pathifier <command> -h' for flags.`

// App encapsulates the application logic for testing.
type App struct {
	Stdout   io.Writer
	Service  pathifier.Service
	Settings pathifier.SettingsStore
	Journal  pathifier.Journal
	Shell    func(ctx context.Context) error
}

// Capture saves the clipboard image and prints the path written back to the
// clipboard.
func (a *App) Capture(ctx context.Context) error {
	res, err := a.Service.Capture(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Stdout, res.Path)
	return err
}

// List prints the stored images, most recently modified first.
func (a *App) List(ctx context.Context) error {
	images, err := a.Service.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.Stdout, 0, 0, 2, ' ', 0)
	for _, img := range images {
		fmt.Fprintf(w, "%s\t%s\t%s\n", img.Name(), img.ModTime.Format(time.DateTime), img.Path)
	}
	return w.Flush()
}

// Copy copies the resolved form of path and prints it.
func (a *App) Copy(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("usage: pathifier copy PATH")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	res, err := a.Service.CopyPath(ctx, abs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Stdout, res.Path)
	return err
}

// History prints the last limit journal entries, oldest first. A limit of
// zero prints every entry.
func (a *App) History(limit int) error {
	entries, err := a.Journal.Load()
	if err != nil {
		return err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	w := tabwriter.NewWriter(a.Stdout, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		detail := e.Path
		if e.Outcome == pathifier.OutcomeFailed {
			detail = e.Stage + ": " + e.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.At.Local().Format(time.DateTime), e.Operation, e.Outcome, detail)
	}
	return w.Flush()
}

// ShowSettings prints the settings in effect as JSON. With save set they are
// also written to the settings file.
func (a *App) ShowSettings(save bool) error {
	s := a.Service.Settings()
	if save {
		if err := a.Settings.Save(s); err != nil {
			return err
		}
	}
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// UI runs the terminal shell until the user quits.
func (a *App) UI(ctx context.Context) error {
	return a.Shell(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Main parses args, wires the application and runs the selected command.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := "ui"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	flags := flag.NewFlagSet("pathifier "+cmd, flag.ContinueOnError)
	flags.SetOutput(stderr)
	var cfg config
	cfg.register(flags)

	var limit int
	var save bool
	switch cmd {
	case "ui", "capture", "list", "copy":
	case "history":
		flags.IntVar(&limit, "n", 20, "number of entries to show, 0 for all")
	case "settings":
		flags.BoolVar(&save, "save", false, "write the effective settings to the settings file")
	case "help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	flags.Visit(func(f *flag.Flag) { cfg.set(f.Name) })

	logger, closeLog, err := newLogger(cmd, cfg.logLevel, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	app, err := newApp(cfg, stdout, logger)
	if err != nil {
		return err
	}

	switch cmd {
	case "capture":
		return app.Capture(ctx)
	case "list":
		return app.List(ctx)
	case "copy":
		return app.Copy(ctx, flags.Arg(0))
	case "history":
		return app.History(limit)
	case "settings":
		return app.ShowSettings(save)
	default:
		return app.UI(ctx)
	}
}

// config holds the flags shared by every command.
type config struct {
	path     string
	dir      string
	max      int
	wsl      bool
	logLevel string
	given    map[string]bool
}

func (c *config) register(flags *flag.FlagSet) {
	flags.StringVar(&c.path, "config", fs.DefaultSettingsPath(), "settings file path")
	flags.StringVar(&c.dir, "dir", "", "image directory for this run")
	flags.IntVar(&c.max, "max", 0, "image capacity for this run")
	flags.BoolVar(&c.wsl, "wsl", false, "copy WSL paths for this run (Windows only)")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func (c *config) set(name string) {
	if c.given == nil {
		c.given = make(map[string]bool)
	}
	c.given[name] = true
}

// apply overrides s with the flags given on the command line.
func (c *config) apply(s pathifier.Settings) pathifier.Settings {
	if c.given["dir"] {
		s.SaveDirectory = c.dir
	}
	if c.given["max"] {
		s.MaxImages = c.max
	}
	if c.given["wsl"] {
		s.WSLMode = c.wsl
	}
	return s
}

// newLogger writes to stderr for one-shot commands and to a log file while
// the shell owns the terminal.
func newLogger(cmd, level string, stderr io.Writer) (zerolog.Logger, func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}

	if cmd != "ui" {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}).
			Level(lvl).With().Timestamp().Logger()
		return logger, func() {}, nil
	}

	path := fs.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

func newApp(cfg config, stdout io.Writer, logger zerolog.Logger) (*App, error) {
	settingsFile := fs.NewSettingsFile(cfg.path, fs.DefaultSettings())
	settings, err := settingsFile.Load()
	if err != nil {
		logger.Warn().Err(err).Str("path", settingsFile.Path()).Msg("loading settings, using defaults")
	}
	settings = cfg.apply(settings)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	store, err := fs.NewStore(settings.SaveDirectory, settings.MaxImages, fs.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	journal := jsonl.NewJournal(fs.DefaultJournalPath(), jsonl.WithLogger(logger))
	platform := pathifier.DetectPlatform(runtime.GOOS)
	svc := capture.New(clipboard.NewSystem(), store,
		capture.WithPlatform(platform),
		capture.WithSettings(settings),
		capture.WithJournal(journal),
		capture.WithLogger(logger),
	)

	return &App{
		Stdout:   stdout,
		Service:  svc,
		Settings: settingsFile,
		Journal:  journal,
		Shell: func(ctx context.Context) error {
			changes, err := watcher.New(watcher.WithLogger(logger)).Watch(ctx, store.Dir())
			if err != nil {
				logger.Warn().Err(err).Str("dir", store.Dir()).Msg("watching image directory")
			}
			return bubbletea.Run(ctx, svc,
				bubbletea.WithPlatform(platform),
				bubbletea.WithSettingsStore(settingsFile),
				bubbletea.WithChanges(changes),
				bubbletea.WithThemeFunc(lipgloss.ThemeFunc()),
				bubbletea.WithLogger(logger),
			)
		},
	}, nil
}
