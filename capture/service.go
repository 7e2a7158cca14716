// Package capture orchestrates clipboard capture and path copy requests.
package capture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/pathifier"
	"github.com/rs/zerolog"
)

// Compile-time interface verification.
var _ pathifier.Service = (*Service)(nil)

// Service runs capture and copy requests one at a time. A request holds the
// service lock from its first clipboard access to its last, so requests
// never interleave.
type Service struct {
	mu sync.Mutex

	clipboard pathifier.Clipboard
	store     pathifier.ImageStore
	journal   pathifier.Journal
	platform  pathifier.Platform
	logger    zerolog.Logger
	now       func() time.Time

	settingsMu sync.RWMutex
	settings   pathifier.Settings

	state atomic.Int32
}

// Option configures a Service.
type Option func(*Service)

// WithPlatform sets the host capabilities used to pick the path mode.
func WithPlatform(p pathifier.Platform) Option {
	return func(s *Service) {
		s.platform = p
	}
}

// WithSettings sets the initial settings. The store is assumed to be
// configured with the same directory and capacity already.
func WithSettings(settings pathifier.Settings) Option {
	return func(s *Service) {
		s.settings = settings
	}
}

// WithJournal records every request outcome in j.
func WithJournal(j pathifier.Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithLogger sets the logger for request outcomes.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock sets the time source for journal entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New returns a Service reading from cb and persisting into store.
func New(cb pathifier.Clipboard, store pathifier.ImageStore, opts ...Option) *Service {
	s := &Service{
		clipboard: cb,
		store:     store,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the stage of the request in flight, or StageIdle.
func (s *Service) State() pathifier.Stage {
	return pathifier.Stage(s.state.Load())
}

func (s *Service) setState(stage pathifier.Stage) {
	s.state.Store(int32(stage))
}

// Settings returns the settings currently in effect.
func (s *Service) Settings() pathifier.Settings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

// UpdateSettings validates settings, forwards the directory and capacity to
// the store and replaces the path mode for later requests.
func (s *Service) UpdateSettings(settings pathifier.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	if err := s.store.UpdateSettings(settings.SaveDirectory, settings.MaxImages); err != nil {
		return err
	}
	s.settings = settings
	return nil
}

// List returns the stored images, most recently modified first.
func (s *Service) List(ctx context.Context) ([]pathifier.StoredImage, error) {
	return s.store.List(ctx)
}

// Capture stores the clipboard image and replaces the clipboard with its
// resolved path. ErrNoImage is returned untagged; it is a negative result
// and nothing is written.
func (s *Service) Capture(ctx context.Context) (pathifier.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.setState(pathifier.StageIdle)

	mode := s.platform.PathMode(s.Settings())

	s.setState(pathifier.StageReadingClipboard)
	b, err := s.clipboard.ReadImage(ctx)
	if errors.Is(err, pathifier.ErrNoImage) {
		s.logger.Info().Msg("no image on clipboard")
		s.record(pathifier.JournalEntry{Operation: pathifier.OpCapture, Outcome: pathifier.OutcomeNoImage})
		return pathifier.Result{}, err
	}
	if err != nil {
		return pathifier.Result{}, s.fail(pathifier.OpCapture, pathifier.StageReadingClipboard, "", err)
	}

	s.setState(pathifier.StagePersisting)
	img, err := s.store.Save(ctx, b)
	if err != nil {
		return pathifier.Result{}, s.fail(pathifier.OpCapture, pathifier.StagePersisting, "", err)
	}

	path := pathifier.Resolve(img.Path, mode)
	s.setState(pathifier.StageWritingResult)
	if err := s.clipboard.WriteText(ctx, path); err != nil {
		return pathifier.Result{}, s.fail(pathifier.OpCapture, pathifier.StageWritingResult, img.Path, err)
	}

	s.logger.Info().Str("source", img.Path).Str("path", path).Int("width", b.Width).Int("height", b.Height).Msg("image captured")
	s.record(pathifier.JournalEntry{
		Operation: pathifier.OpCapture,
		Outcome:   pathifier.OutcomeOK,
		Source:    img.Path,
		Path:      path,
	})
	return pathifier.Result{Image: img, Path: path}, nil
}

// CopyPath replaces the clipboard with the resolved form of path.
func (s *Service) CopyPath(ctx context.Context, path string) (pathifier.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.setState(pathifier.StageIdle)

	resolved := pathifier.Resolve(path, s.platform.PathMode(s.Settings()))

	s.setState(pathifier.StageWritingResult)
	if err := s.clipboard.WriteText(ctx, resolved); err != nil {
		return pathifier.Result{}, s.fail(pathifier.OpCopy, pathifier.StageWritingResult, path, err)
	}

	s.logger.Info().Str("source", path).Str("path", resolved).Msg("path copied")
	s.record(pathifier.JournalEntry{
		Operation: pathifier.OpCopy,
		Outcome:   pathifier.OutcomeOK,
		Source:    path,
		Path:      resolved,
	})
	return pathifier.Result{Path: resolved}, nil
}

// fail moves the service into StageFailed and returns err tagged with stage.
func (s *Service) fail(op pathifier.Operation, stage pathifier.Stage, source string, err error) error {
	s.setState(pathifier.StageFailed)
	s.logger.Error().Err(err).Str("op", string(op)).Stringer("stage", stage).Msg("request failed")
	s.record(pathifier.JournalEntry{
		Operation: op,
		Outcome:   pathifier.OutcomeFailed,
		Stage:     stage.String(),
		Source:    source,
		Error:     err.Error(),
	})
	return &pathifier.StageError{Stage: stage, Err: err}
}

// record appends e to the journal. Journal failures never fail a request.
func (s *Service) record(e pathifier.JournalEntry) {
	if s.journal == nil {
		return
	}
	e.At = s.now()
	if err := s.journal.Append(e); err != nil {
		s.logger.Warn().Err(err).Msg("recording journal entry")
	}
}
