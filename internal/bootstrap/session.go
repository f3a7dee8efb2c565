package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"storeadmin/internal/auth"
	"storeadmin/internal/config"
	jsonrepo "storeadmin/internal/repository/json"
	"storeadmin/internal/repository/sqlite"
)

// BuildTokenStore opens the durable token slot. The returned close func is
// never nil.
func BuildTokenStore(ctx context.Context, profile *config.Config, log *slog.Logger) (auth.TokenStore, func() error, error) {
	noop := func() error { return nil }

	switch profile.Session.Backend {
	case "memory":
		return auth.NewMemoryTokens(), noop, nil

	case "file":
		return jsonrepo.NewTokenFile(profile.Session.Path, log), noop, nil

	case "sqlite":
		if dir := filepath.Dir(profile.Session.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, noop, fmt.Errorf("session dir: %w", err)
			}
		}
		st, err := sqlite.Open(ctx, profile.Session.Path, log)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown session.backend=%q (expected file|sqlite|memory)", profile.Session.Backend)
	}
}
