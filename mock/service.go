package mock

import (
	"context"

	"github.com/fwojciec/pathifier"
)

// Compile-time interface verification.
var _ pathifier.Service = (*Service)(nil)

// Service is a mock implementation of pathifier.Service.
type Service struct {
	CaptureFn        func(ctx context.Context) (pathifier.Result, error)
	CopyPathFn       func(ctx context.Context, path string) (pathifier.Result, error)
	ListFn           func(ctx context.Context) ([]pathifier.StoredImage, error)
	UpdateSettingsFn func(s pathifier.Settings) error
	SettingsFn       func() pathifier.Settings
}

func (s *Service) Capture(ctx context.Context) (pathifier.Result, error) {
	return s.CaptureFn(ctx)
}

func (s *Service) CopyPath(ctx context.Context, path string) (pathifier.Result, error) {
	return s.CopyPathFn(ctx, path)
}

func (s *Service) List(ctx context.Context) ([]pathifier.StoredImage, error) {
	return s.ListFn(ctx)
}

func (s *Service) UpdateSettings(settings pathifier.Settings) error {
	return s.UpdateSettingsFn(settings)
}

func (s *Service) Settings() pathifier.Settings {
	return s.SettingsFn()
}
