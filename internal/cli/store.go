package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/farmbook/internal/farm"
	"github.com/mesh-intelligence/farmbook/internal/memstore"
	"github.com/mesh-intelligence/farmbook/internal/recordapi"
	"github.com/mesh-intelligence/farmbook/pkg/sqlite"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// session is an open record store with the services over it.
type session struct {
	v     *viper.Viper
	cfg   types.Config
	store types.RecordStore
	svc   *farm.Services
	close func() error
}

// openStore creates the record store selected by cfg. The returned close
// function releases it.
func openStore(cfg types.Config, log *zap.Logger) (types.RecordStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case types.BackendMemory:
		return memstore.New(), noop, nil
	case types.BackendSQLite:
		store, err := sqlite.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("attach backend: %w", err)
		}
		return store, store.Close, nil
	case types.BackendRemote:
		client, err := recordapi.NewClient(cfg.Remote, recordapi.WithLogger(log.Named("recordapi")))
		if err != nil {
			return nil, nil, usagef("remote backend: %s", err)
		}
		return client, noop, nil
	}
	return nil, nil, usagef("unknown backend %q", cfg.Backend)
}

// open loads configuration and opens the configured store.
func (a *app) open() (*session, error) {
	_, v, err := a.config()
	if err != nil {
		return nil, err
	}
	cfg, err := a.storeConfig(v)
	if err != nil {
		return nil, err
	}
	store, closeFn, err := openStore(cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.log.Debug("record store opened",
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir),
		zap.String("base_url", cfg.Remote.BaseURL))
	return &session{
		v:     v,
		cfg:   cfg,
		store: store,
		svc:   farm.NewServices(store, farm.WithLogger(a.log), farm.WithClock(a.now)),
		close: closeFn,
	}, nil
}

// withSession runs fn against a freshly opened store and closes it after.
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := a.open()
	if err != nil {
		return err
	}
	runErr := fn(cmd.Context(), s)
	if err := s.close(); err != nil && runErr == nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return runErr
}
