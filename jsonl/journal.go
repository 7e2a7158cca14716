// Package jsonl records request outcomes as JSON Lines.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/pathifier"
	"github.com/rs/zerolog"
)

// Compile-time interface verification.
var _ pathifier.Journal = (*Journal)(nil)

// maxLineSize bounds a single journal line. Entries are a few hundred bytes;
// the limit only guards against reading an unrelated file.
const maxLineSize = 1 << 20

// Journal appends entries to a JSONL file, one entry per line.
type Journal struct {
	mu     sync.Mutex
	path   string
	logger zerolog.Logger
}

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the logger that reports skipped lines.
func WithLogger(l zerolog.Logger) Option {
	return func(j *Journal) {
		j.logger = l
	}
}

// NewJournal returns a journal stored at path.
func NewJournal(path string, opts ...Option) *Journal {
	j := &Journal{path: path, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// Append adds e to the end of the journal, creating parent directories if needed.
func (j *Journal) Append(e pathifier.JournalEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	// Start on a fresh line if a previous append was cut short.
	if info, err := f.Stat(); err == nil && info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err == nil && last[0] != '\n' {
			data = append([]byte{'\n'}, data...)
		}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads every entry, oldest first. Returns nil if the file doesn't exist.
// Lines that do not parse, such as one cut short by a crash during Append,
// are logged and skipped.
func (j *Journal) Load() ([]pathifier.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []pathifier.JournalEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var e pathifier.JournalEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			j.logger.Warn().Err(err).Str("path", j.path).Int("line", lineNum).Msg("skipping malformed journal line")
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
