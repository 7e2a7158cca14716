package jsonl_test

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/pathifier"
	"github.com/fwojciec/pathifier/jsonl"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_Append(t *testing.T) {
	t.Parallel()

	t.Run("creates file and parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "history.jsonl")
		j := jsonl.NewJournal(path)

		err := j.Append(pathifier.JournalEntry{
			At:        time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
			Operation: pathifier.OpCapture,
			Outcome:   pathifier.OutcomeOK,
			Source:    "/data/img_0001.png",
			Path:      "/data/img_0001.png",
		})
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"op":"capture"`)
		assert.Contains(t, string(content), `"outcome":"ok"`)
		assert.NotContains(t, string(content), `"error"`)
		assert.Equal(t, byte('\n'), content[len(content)-1])
	})

	t.Run("appends to existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "history.jsonl")
		existing := `{"at":"2026-01-01T00:00:00Z","op":"copy","outcome":"ok","path":"/a.png"}` + "\n"
		require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))
		j := jsonl.NewJournal(path)

		require.NoError(t, j.Append(pathifier.JournalEntry{Operation: pathifier.OpCapture, Outcome: pathifier.OutcomeNoImage}))

		entries, err := j.Load()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "/a.png", entries[0].Path)
		assert.Equal(t, pathifier.OutcomeNoImage, entries[1].Outcome)
	})

	t.Run("concurrent appends keep lines intact", func(t *testing.T) {
		t.Parallel()

		j := jsonl.NewJournal(filepath.Join(t.TempDir(), "history.jsonl"))

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, j.Append(pathifier.JournalEntry{Operation: pathifier.OpCopy, Outcome: pathifier.OutcomeOK}))
			}()
		}
		wg.Wait()

		entries, err := j.Load()
		require.NoError(t, err)
		assert.Len(t, entries, 20)
	})
}

func TestJournal_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns nil", func(t *testing.T) {
		t.Parallel()

		j := jsonl.NewJournal(filepath.Join(t.TempDir(), "missing.jsonl"))

		entries, err := j.Load()
		require.NoError(t, err)
		assert.Nil(t, entries)
	})

	t.Run("round trips entries", func(t *testing.T) {
		t.Parallel()

		j := jsonl.NewJournal(filepath.Join(t.TempDir(), "history.jsonl"))
		want := pathifier.JournalEntry{
			At:        time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
			Operation: pathifier.OpCapture,
			Outcome:   pathifier.OutcomeFailed,
			Stage:     "persisting",
			Error:     "persistence failed: disk full",
		}
		require.NoError(t, j.Append(want))

		entries, err := j.Load()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, want, entries[0])
	})

	t.Run("skips blank lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "history.jsonl")
		content := `{"op":"copy","outcome":"ok"}` + "\n\n   \n" + `{"op":"capture","outcome":"no_image"}` + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		entries, err := jsonl.NewJournal(path).Load()
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("skips malformed lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "history.jsonl")
		content := `{"op":"copy","outcome":"ok"}` + "\n" + `{not json}` + "\n" +
			`{"op":"capture","outcome":"ok"}` + "\n" + `{"op":"capture","outc`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		var logs bytes.Buffer
		entries, err := jsonl.NewJournal(path, jsonl.WithLogger(zerolog.New(&logs))).Load()

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, pathifier.OpCopy, entries[0].Operation)
		assert.Equal(t, pathifier.OpCapture, entries[1].Operation)
		assert.Contains(t, logs.String(), `"line":2`)
		assert.Contains(t, logs.String(), `"line":4`)
	})

	t.Run("appends after a truncated line", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "history.jsonl")
		require.NoError(t, os.WriteFile(path, []byte(`{"op":"copy","outc`), 0o644))
		j := jsonl.NewJournal(path)

		require.NoError(t, j.Append(pathifier.JournalEntry{Operation: pathifier.OpCapture, Outcome: pathifier.OutcomeOK}))

		entries, err := j.Load()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, pathifier.OutcomeOK, entries[0].Outcome)
	})
}
