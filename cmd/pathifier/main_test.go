package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/pathifier"
	main "github.com/fwojciec/pathifier/cmd/pathifier"
	"github.com/fwojciec/pathifier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Capture(t *testing.T) {
	t.Parallel()

	t.Run("prints the copied path", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		app := &main.App{
			Stdout: &out,
			Service: &mock.Service{
				CaptureFn: func(ctx context.Context) (pathifier.Result, error) {
					return pathifier.Result{Path: "/mnt/c/img/img_0001.png"}, nil
				},
			},
		}

		require.NoError(t, app.Capture(context.Background()))
		assert.Equal(t, "/mnt/c/img/img_0001.png\n", out.String())
	})

	t.Run("no image is returned and nothing printed", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		app := &main.App{
			Stdout: &out,
			Service: &mock.Service{
				CaptureFn: func(ctx context.Context) (pathifier.Result, error) {
					return pathifier.Result{}, pathifier.ErrNoImage
				},
			},
		}

		err := app.Capture(context.Background())

		assert.ErrorIs(t, err, pathifier.ErrNoImage)
		assert.Empty(t, out.String())
	})
}

func TestApp_List(t *testing.T) {
	t.Parallel()

	mtime := time.Date(2026, 3, 1, 12, 30, 0, 0, time.Local)
	var out bytes.Buffer
	app := &main.App{
		Stdout: &out,
		Service: &mock.Service{
			ListFn: func(ctx context.Context) ([]pathifier.StoredImage, error) {
				return []pathifier.StoredImage{
					{Path: "/data/img_0002.png", Number: 2, Ext: "png", ModTime: mtime},
					{Path: "/data/img_0001.png", Number: 1, Ext: "png", ModTime: mtime.Add(-time.Minute)},
				}, nil
			},
		},
	}

	require.NoError(t, app.List(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "img_0002.png"))
	assert.Contains(t, lines[0], "2026-03-01 12:30:00")
	assert.True(t, strings.HasSuffix(lines[1], "/data/img_0001.png"))
}

func TestApp_Copy(t *testing.T) {
	t.Parallel()

	t.Run("passes an absolute path", func(t *testing.T) {
		t.Parallel()

		var got string
		var out bytes.Buffer
		app := &main.App{
			Stdout: &out,
			Service: &mock.Service{
				CopyPathFn: func(ctx context.Context, path string) (pathifier.Result, error) {
					got = path
					return pathifier.Result{Path: path}, nil
				},
			},
		}

		require.NoError(t, app.Copy(context.Background(), "img_0001.png"))
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, "img_0001.png", filepath.Base(got))
		assert.Equal(t, got+"\n", out.String())
	})

	t.Run("requires a path", func(t *testing.T) {
		t.Parallel()

		app := &main.App{Service: &mock.Service{}}

		assert.Error(t, app.Copy(context.Background(), ""))
	})

	t.Run("propagates service errors", func(t *testing.T) {
		t.Parallel()

		wantErr := &pathifier.StageError{Stage: pathifier.StageWritingResult, Err: pathifier.ErrClipboardUnavailable}
		app := &main.App{
			Stdout: &bytes.Buffer{},
			Service: &mock.Service{
				CopyPathFn: func(ctx context.Context, path string) (pathifier.Result, error) {
					return pathifier.Result{}, wantErr
				},
			},
		}

		err := app.Copy(context.Background(), "/tmp/x.png")
		assert.ErrorIs(t, err, pathifier.ErrClipboardUnavailable)
	})
}

func TestApp_History(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []pathifier.JournalEntry{
		{At: at, Operation: pathifier.OpCapture, Outcome: pathifier.OutcomeNoImage},
		{At: at.Add(time.Second), Operation: pathifier.OpCapture, Outcome: pathifier.OutcomeOK, Path: "/data/img_0001.png"},
		{At: at.Add(2 * time.Second), Operation: pathifier.OpCopy, Outcome: pathifier.OutcomeFailed, Stage: "writing result", Error: "clipboard unavailable"},
	}
	newApp := func(out *bytes.Buffer) *main.App {
		return &main.App{
			Stdout: out,
			Journal: &mock.Journal{
				LoadFn: func() ([]pathifier.JournalEntry, error) { return entries, nil },
			},
		}
	}

	t.Run("limit keeps the newest entries", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, newApp(&out).History(2))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "/data/img_0001.png")
		assert.Contains(t, lines[1], "writing result: clipboard unavailable")
	})

	t.Run("zero shows everything", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, newApp(&out).History(0))

		assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)
		assert.Contains(t, out.String(), "no_image")
	})

	t.Run("load error", func(t *testing.T) {
		t.Parallel()

		loadErr := errors.New("line 3: unexpected end of JSON input")
		app := &main.App{
			Stdout: &bytes.Buffer{},
			Journal: &mock.Journal{
				LoadFn: func() ([]pathifier.JournalEntry, error) { return nil, loadErr },
			},
		}

		assert.Equal(t, loadErr, app.History(10))
	})
}

func TestApp_ShowSettings(t *testing.T) {
	t.Parallel()

	settings := pathifier.Settings{
		SaveDirectory: "/data/images",
		MaxImages:     5,
		ThumbnailSize: 100,
		Theme:         pathifier.ThemeLight,
	}

	var saved []pathifier.Settings
	var out bytes.Buffer
	app := &main.App{
		Stdout: &out,
		Service: &mock.Service{
			SettingsFn: func() pathifier.Settings { return settings },
		},
		Settings: &mock.SettingsStore{
			SaveFn: func(s pathifier.Settings) error {
				saved = append(saved, s)
				return nil
			},
		},
	}

	require.NoError(t, app.ShowSettings(false))
	assert.Empty(t, saved)

	var got pathifier.Settings
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, settings, got)

	out.Reset()
	require.NoError(t, app.ShowSettings(true))
	assert.Equal(t, []pathifier.Settings{settings}, saved)
}

func TestApp_UI(t *testing.T) {
	t.Parallel()

	shellErr := errors.New("terminal error")
	app := &main.App{
		Shell: func(ctx context.Context) error { return shellErr },
	}

	assert.Equal(t, shellErr, app.UI(context.Background()))
}

func TestMain_Settings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "settings.json")
	imageDir := filepath.Join(dir, "images")

	var out, errOut bytes.Buffer
	err := main.Main(context.Background(),
		[]string{"settings", "-config", configPath, "-dir", imageDir, "-max", "7", "-save"},
		&out, &errOut)
	require.NoError(t, err)

	var got pathifier.Settings
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 7, got.MaxImages)
	assert.Equal(t, imageDir, got.SaveDirectory)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	var persisted pathifier.Settings
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, got, persisted)
}

func TestMain_List(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imageDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(imageDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(imageDir, "img_0001.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(imageDir, "notes.txt"), []byte("text"), 0o644))

	var out, errOut bytes.Buffer
	err := main.Main(context.Background(),
		[]string{"list", "-config", filepath.Join(dir, "settings.json"), "-dir", imageDir},
		&out, &errOut)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "img_0001.png")
	assert.NotContains(t, out.String(), "notes.txt")
}

func TestMain_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args func(dir string) []string
		want string
	}{
		{"unknown command", func(string) []string { return []string{"frobnicate"} }, `unknown command "frobnicate"`},
		{"invalid log level", func(string) []string { return []string{"list", "-log-level", "loud"} }, "invalid -log-level"},
		{"invalid capacity", func(dir string) []string {
			return []string{"settings", "-config", filepath.Join(dir, "settings.json"), "-max", "0"}
		}, "invalid settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out, errOut bytes.Buffer
			err := main.Main(context.Background(), tt.args(t.TempDir()), &out, &errOut)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMain_Help(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	require.NoError(t, main.Main(context.Background(), []string{"help"}, &out, &errOut))
	assert.Contains(t, out.String(), "capture")
}
