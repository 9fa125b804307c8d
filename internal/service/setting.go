package service

import (
	"context"
	"errors"

	"github.com/erlandv/writenex/internal/model"
	"github.com/erlandv/writenex/internal/store"
)

// NewSettingService creates a new SettingService.
func NewSettingService(store store.Store) *SettingService {
	return &SettingService{store: store}
}

// SettingService is a thin key-value layer, e.g. for the last active
// document id.
type SettingService struct {
	store store.Store
}

// SaveSetting upserts a key-value pair.
func (s *SettingService) SaveSetting(ctx context.Context, key, value string) error {
	return s.store.PutSetting(ctx, &model.Setting{ID: key, Value: value})
}

// GetSetting returns the value for a key, or the empty string when the
// key has never been written. Absence is a normal outcome, not an error.
func (s *SettingService) GetSetting(ctx context.Context, key string) (string, error) {
	setting, err := s.store.GetSetting(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
