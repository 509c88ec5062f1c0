package snapshot

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/settings"
)

type settingsRepository struct {
	store  core.KVStore
	logger core.Logger
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(store core.KVStore, logger core.Logger) *settingsRepository {
	return &settingsRepository{store: store, logger: logger}
}

// QueryPreferences reads each preference from its own key, falling back to the defaults.
func (repo *settingsRepository) QueryPreferences(ctx context.Context) (settings.Preferences, error) {
	prefs := settings.Defaults()
	fields := []struct {
		key string
		dst interface{}
	}{
		{core.KeyTheme, &prefs.Theme},
		{core.KeyDarkMode, &prefs.DarkMode},
		{core.KeyFontSize, &prefs.FontSize},
		{core.KeySoundEnabled, &prefs.SoundEnabled},
	}
	defaults := settings.Defaults()
	for _, fld := range fields {
		if err := core.LoadJSON(ctx, repo.store, repo.logger, fld.key, fld.dst); err != nil {
			return settings.Preferences{}, err
		}
	}
	// malformed values are reset to zero by LoadJSON
	if prefs.Theme == "" {
		prefs.Theme = defaults.Theme
	}
	if prefs.FontSize == "" {
		prefs.FontSize = defaults.FontSize
	}
	return prefs, nil
}

func (repo *settingsRepository) SavePreferences(ctx context.Context, prefs settings.Preferences) error {
	values := []struct {
		key string
		src interface{}
	}{
		{core.KeyTheme, prefs.Theme},
		{core.KeyDarkMode, prefs.DarkMode},
		{core.KeyFontSize, prefs.FontSize},
		{core.KeySoundEnabled, prefs.SoundEnabled},
	}
	for _, v := range values {
		if err := core.SaveJSON(ctx, repo.store, v.key, v.src); err != nil {
			return errors.Wrap(err, "saving preferences")
		}
	}
	return nil
}
