package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larder-dev/larder/internal/localstore"
	"github.com/larder-dev/larder/internal/model"
)

type fakeRemote struct {
	err     error
	patches []model.ProfilePatch
}

func (f *fakeRemote) UpdateProfile(_ context.Context, patch model.ProfilePatch) (*model.UserProfile, error) {
	f.patches = append(f.patches, patch)
	if f.err != nil {
		return nil, f.err
	}
	return &model.UserProfile{}, nil
}

func newTestManager(t *testing.T, remote Remote) *Manager {
	t.Helper()

	store, err := localstore.New(filepath.Join(t.TempDir(), "larder.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	require.NoError(t, store.Migrate(context.Background()))

	return New(store, remote)
}

func TestThemeDefaultsToAuto(t *testing.T) {
	m := newTestManager(t, nil)

	assert.Equal(t, "auto", m.Theme(context.Background()))
}

func TestSetThemePersistsAndMirrors(t *testing.T) {
	remote := &fakeRemote{}
	m := newTestManager(t, remote)
	ctx := context.Background()

	require.NoError(t, m.SetTheme(ctx, "dark"))

	assert.Equal(t, "dark", m.Theme(ctx))
	require.Len(t, remote.patches, 1)
	require.NotNil(t, remote.patches[0].Theme)
	assert.Equal(t, "dark", *remote.patches[0].Theme)
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	m := newTestManager(t, nil)

	err := m.SetTheme(context.Background(), "solarized")
	assert.Error(t, err)
}

func TestMirrorFailureKeepsLocalValue(t *testing.T) {
	remote := &fakeRemote{err: errors.New("server unavailable")}
	m := newTestManager(t, remote)
	ctx := context.Background()

	require.NoError(t, m.SetLanguage(ctx, "en"))

	assert.Equal(t, "en", m.Language(ctx), "local value must survive a failed mirror")
	assert.Len(t, remote.patches, 1)
}

func TestLowStockAlertsDefaultOnAndToggle(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	assert.True(t, m.LowStockAlerts())

	require.NoError(t, m.SetLowStockAlerts(ctx, false))
	assert.False(t, m.LowStockAlerts())

	require.NoError(t, m.SetLowStockAlerts(ctx, true))
	assert.True(t, m.LowStockAlerts())
}

func TestAdoptProfileSeedsOnlyUnsetKeys(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	require.NoError(t, m.SetTheme(ctx, "light"))

	m.AdoptProfile(ctx, &model.UserProfile{Theme: "dark", Language: "en"})

	assert.Equal(t, "light", m.Theme(ctx), "local theme must win over profile")
	assert.Equal(t, "en", m.Language(ctx), "unset language should seed from profile")
}

func TestRemindersToggle(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	assert.True(t, m.RemindersEnabled(ctx))

	require.NoError(t, m.SetRemindersEnabled(ctx, false))
	assert.False(t, m.RemindersEnabled(ctx))
}
