package mock

import (
	"context"

	"github.com/fwojciec/pathifier"
)

// Compile-time interface verification.
var (
	_ pathifier.ImageStore    = (*ImageStore)(nil)
	_ pathifier.SettingsStore = (*SettingsStore)(nil)
	_ pathifier.Journal       = (*Journal)(nil)
)

// ImageStore is a mock implementation of pathifier.ImageStore.
type ImageStore struct {
	SaveFn           func(ctx context.Context, b pathifier.Bitmap) (pathifier.StoredImage, error)
	ListFn           func(ctx context.Context) ([]pathifier.StoredImage, error)
	UpdateSettingsFn func(dir string, maxImages int) error
}

func (s *ImageStore) Save(ctx context.Context, b pathifier.Bitmap) (pathifier.StoredImage, error) {
	return s.SaveFn(ctx, b)
}

func (s *ImageStore) List(ctx context.Context) ([]pathifier.StoredImage, error) {
	return s.ListFn(ctx)
}

func (s *ImageStore) UpdateSettings(dir string, maxImages int) error {
	return s.UpdateSettingsFn(dir, maxImages)
}

// SettingsStore is a mock implementation of pathifier.SettingsStore.
type SettingsStore struct {
	LoadFn func() (pathifier.Settings, error)
	SaveFn func(s pathifier.Settings) error
}

func (s *SettingsStore) Load() (pathifier.Settings, error) {
	return s.LoadFn()
}

func (s *SettingsStore) Save(settings pathifier.Settings) error {
	return s.SaveFn(settings)
}

// Journal is a mock implementation of pathifier.Journal.
type Journal struct {
	AppendFn func(e pathifier.JournalEntry) error
	LoadFn   func() ([]pathifier.JournalEntry, error)
}

func (j *Journal) Append(e pathifier.JournalEntry) error {
	return j.AppendFn(e)
}

func (j *Journal) Load() ([]pathifier.JournalEntry, error) {
	return j.LoadFn()
}
