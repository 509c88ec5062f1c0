package settings

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

const (
	DefaultTheme    = "emerald"
	DefaultFontSize = "medium"
)

// Preferences are the UI preferences of the dashboard.
type Preferences struct {
	Theme        string `json:"theme"`
	DarkMode     bool   `json:"darkMode"`
	FontSize     string `json:"fontSize"`
	SoundEnabled bool   `json:"soundEnabled"`
}

func Defaults() Preferences {
	return Preferences{Theme: DefaultTheme, FontSize: DefaultFontSize, SoundEnabled: true}
}

// UpdatePreferences defines what preferences may be changed. Nil or blank fields keep their value.
type UpdatePreferences struct {
	Theme        *string `json:"theme" validate:"omitempty,oneof=emerald purple amber teal gray"`
	DarkMode     *bool   `json:"darkMode"`
	FontSize     *string `json:"fontSize" validate:"omitempty,oneof=small medium large"`
	SoundEnabled *bool   `json:"soundEnabled"`
}

func (up *UpdatePreferences) Validate(validate *validator.Validate) error {
	clean := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := core.CleanString(*s, true /* lower */)
		if v == "" {
			return nil
		}
		return &v
	}
	up.Theme = clean(up.Theme)
	up.FontSize = clean(up.FontSize)
	return validate.Struct(up)
}

type (
	// Repository stores each preference under its own key. Missing ones come back with their defaults.
	Repository interface {
		QueryPreferences(ctx context.Context) (Preferences, error)
		SavePreferences(ctx context.Context, prefs Preferences) error
	}

	Service struct {
		mu       sync.Mutex
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Get(ctx context.Context) (Preferences, error) {
	prefs, err := svc.repo.QueryPreferences(ctx)
	return prefs, errors.Wrap(err, "querying preferences")
}

func (svc *Service) Update(ctx context.Context, up UpdatePreferences) (Preferences, error) {
	if err := up.Validate(svc.validate); err != nil {
		return Preferences{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	prefs, err := svc.repo.QueryPreferences(ctx)
	if err != nil {
		return Preferences{}, errors.Wrap(err, "querying preferences")
	}
	if up.Theme != nil {
		prefs.Theme = *up.Theme
	}
	if up.DarkMode != nil {
		prefs.DarkMode = *up.DarkMode
	}
	if up.FontSize != nil {
		prefs.FontSize = *up.FontSize
	}
	if up.SoundEnabled != nil {
		prefs.SoundEnabled = *up.SoundEnabled
	}
	if err = svc.repo.SavePreferences(ctx, prefs); err != nil {
		return Preferences{}, errors.Wrap(err, "saving preferences")
	}
	return prefs, nil
}
