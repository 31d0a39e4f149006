package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/larder-dev/larder/internal/api"
	"github.com/larder-dev/larder/internal/config"
	"github.com/larder-dev/larder/internal/localstore"
	"github.com/larder-dev/larder/internal/prefs"
	"github.com/larder-dev/larder/internal/reconcile"
	"github.com/larder-dev/larder/internal/session"
	"github.com/larder-dev/larder/internal/state"
)

// dataDir resolves the local data directory from config, falling back to
// the platform default.
func dataDir() (string, error) {
	if dir := viper.GetString("data.dir"); dir != "" {
		return config.ExpandPath(dir), nil
	}
	return config.DefaultDataDir()
}

// initSession opens the credential store.
func initSession() (*session.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return session.NewStore(dir), nil
}

// initClient builds the gateway over the stored credential.
func initClient() (*api.Client, *session.Store, error) {
	sess, err := initSession()
	if err != nil {
		return nil, nil, err
	}
	return api.New(viper.GetString("server.url"), sess), sess, nil
}

// initLocalStore opens and migrates the local settings store.
func initLocalStore(ctx context.Context) (*localstore.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	store, err := localstore.New(filepath.Join(dir, "larder.db"))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// initPrefs wires the preference manager with its remote mirror.
func initPrefs(ctx context.Context) (*prefs.Manager, *localstore.Store, error) {
	client, _, err := initClient()
	if err != nil {
		return nil, nil, err
	}

	store, err := initLocalStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	return prefs.New(store, client), store, nil
}

// initPipeline assembles the full client stack for one-shot commands.
func initPipeline(ctx context.Context, opts ...reconcile.Option) (*reconcile.Pipeline, *api.Client, *localstore.Store, error) {
	client, _, err := initClient()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := initLocalStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	settings := prefs.New(store, client)
	opts = append([]reconcile.Option{reconcile.WithSettings(settings)}, opts...)
	pipeline := reconcile.New(client, state.NewStore(), opts...)

	return pipeline, client, store, nil
}
