// Package prefs applies user preferences with a local-first policy:
// every change lands in the local store immediately and is mirrored to
// the remote profile on a best-effort basis. A failed mirror is logged
// and never reverts the local value.
package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/larder-dev/larder/internal/localstore"
	"github.com/larder-dev/larder/internal/model"
)

// Setting keys in the local store.
const (
	KeyTheme           = "theme"
	KeyLanguage        = "language"
	KeyNotifyLowStock  = "notify_low_stock"
	KeyNotifyReminders = "notify_reminders"
)

// Defaults applied when a key has never been set.
const (
	DefaultTheme    = "auto"
	DefaultLanguage = "pt"
)

// Themes accepted by SetTheme.
var validThemes = map[string]bool{"auto": true, "dark": true, "light": true}

// Languages accepted by SetLanguage.
var validLanguages = map[string]bool{"pt": true, "en": true}

// Remote mirrors preference changes to the user's profile.
type Remote interface {
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.UserProfile, error)
}

// Manager reads and writes preferences.
type Manager struct {
	store  *localstore.Store
	remote Remote
}

// New creates a preference manager. remote may be nil for offline use.
func New(store *localstore.Store, remote Remote) *Manager {
	return &Manager{store: store, remote: remote}
}

// Theme returns the active theme preference.
func (m *Manager) Theme(ctx context.Context) string {
	value, ok, err := m.store.Setting(ctx, KeyTheme)
	if err != nil || !ok {
		return DefaultTheme
	}
	return value
}

// SetTheme stores the theme locally and mirrors it to the profile.
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	if !validThemes[theme] {
		return fmt.Errorf("invalid theme %q: must be auto, dark or light", theme)
	}

	if err := m.store.SetSetting(ctx, KeyTheme, theme); err != nil {
		return err
	}

	m.mirror(ctx, model.ProfilePatch{Theme: &theme})
	return nil
}

// Language returns the active language preference.
func (m *Manager) Language(ctx context.Context) string {
	value, ok, err := m.store.Setting(ctx, KeyLanguage)
	if err != nil || !ok {
		return DefaultLanguage
	}
	return value
}

// SetLanguage stores the language locally and mirrors it to the profile.
func (m *Manager) SetLanguage(ctx context.Context, language string) error {
	if !validLanguages[language] {
		return fmt.Errorf("invalid language %q: must be pt or en", language)
	}

	if err := m.store.SetSetting(ctx, KeyLanguage, language); err != nil {
		return err
	}

	m.mirror(ctx, model.ProfilePatch{Language: &language})
	return nil
}

// LowStockAlerts reports whether low-stock warnings are enabled. Alerts
// are on by default.
func (m *Manager) LowStockAlerts() bool {
	enabled, err := m.store.BoolSetting(context.Background(), KeyNotifyLowStock, true)
	if err != nil {
		slog.Warn("failed to read low-stock toggle, defaulting to enabled", "error", err)
		return true
	}
	return enabled
}

// SetLowStockAlerts toggles low-stock warnings. Purely local.
func (m *Manager) SetLowStockAlerts(ctx context.Context, enabled bool) error {
	return m.store.SetBoolSetting(ctx, KeyNotifyLowStock, enabled)
}

// RemindersEnabled reports whether purchase reminders are enabled.
func (m *Manager) RemindersEnabled(ctx context.Context) bool {
	enabled, err := m.store.BoolSetting(ctx, KeyNotifyReminders, true)
	if err != nil {
		return true
	}
	return enabled
}

// SetRemindersEnabled toggles purchase reminders. Purely local.
func (m *Manager) SetRemindersEnabled(ctx context.Context, enabled bool) error {
	return m.store.SetBoolSetting(ctx, KeyNotifyReminders, enabled)
}

// AdoptProfile seeds local preferences from a freshly loaded profile when
// the keys have never been set locally. Local values win otherwise.
func (m *Manager) AdoptProfile(ctx context.Context, profile *model.UserProfile) {
	if profile == nil {
		return
	}

	if profile.Theme != "" && validThemes[profile.Theme] {
		if _, ok, _ := m.store.Setting(ctx, KeyTheme); !ok {
			if err := m.store.SetSetting(ctx, KeyTheme, profile.Theme); err != nil {
				slog.Warn("failed to seed theme from profile", "error", err)
			}
		}
	}

	if profile.Language != "" && validLanguages[profile.Language] {
		if _, ok, _ := m.store.Setting(ctx, KeyLanguage); !ok {
			if err := m.store.SetSetting(ctx, KeyLanguage, profile.Language); err != nil {
				slog.Warn("failed to seed language from profile", "error", err)
			}
		}
	}
}

// mirror pushes a patch to the remote profile. Failure is logged only;
// the local value already stands.
func (m *Manager) mirror(ctx context.Context, patch model.ProfilePatch) {
	if m.remote == nil {
		return
	}

	if _, err := m.remote.UpdateProfile(ctx, patch); err != nil {
		slog.Warn("failed to mirror preference to profile", "error", err)
	}
}
