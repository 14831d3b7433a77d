package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/silvatech/forestctl/internal/registry"
	"github.com/silvatech/forestctl/internal/store"
)

// initStore opens the configured database and applies migrations.
func initStore(ctx context.Context) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, eris.Wrap(err, "create store directory")
	}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initSession opens the store and resumes the project session. The
// caller owns the returned store and must close it.
func initSession(ctx context.Context) (*registry.Registry, *store.SQLiteStore, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(st)
	if err := reg.Init(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}
	return reg, st, nil
}

// currentOperator resolves the operator name recorded on new captures:
// the project's operator if set, otherwise the device-wide setting.
func currentOperator(ctx context.Context, reg *registry.Registry, st store.Store) string {
	if reg.Current() != nil && reg.Current().Operator != "" {
		return reg.Current().Operator
	}
	operator, err := st.GetSetting(ctx, "operator", "")
	if err != nil {
		return ""
	}
	return operator
}
