package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"storeadmin/internal/auth"
	"storeadmin/internal/repository"
)

type Repo struct {
	Path string
	Log  *slog.Logger
}

func New(path string, log *slog.Logger) *Repo {
	if log == nil {
		log = slog.Default()
	}
	return &Repo{Path: path, Log: log}
}

func (r *Repo) SaveReport(ctx context.Context, res repository.AuditReport) error {
	if err := r.saveAny(ctx, res, 0o644); err != nil {
		return err
	}
	r.Log.Info("audit report saved", "path", r.Path, "unavailable", res.Unavailable)
	return nil
}

// TokenFile is a Repo used as the durable token slot.
type TokenFile struct {
	repo *Repo
}

func NewTokenFile(path string, log *slog.Logger) *TokenFile {
	return &TokenFile{repo: New(path, log)}
}

func (t *TokenFile) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(t.repo.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", auth.ErrNoToken
	}
	if err != nil {
		return "", err
	}

	var s repository.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return "", fmt.Errorf("session file %s: %w", t.repo.Path, err)
	}
	if s.Token == "" {
		return "", auth.ErrNoToken
	}
	return s.Token, nil
}

func (t *TokenFile) Save(ctx context.Context, token string) error {
	return t.repo.saveAny(ctx, repository.Session{
		Token:   token,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}, 0o600)
}

func (t *TokenFile) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(t.repo.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (r *Repo) saveAny(ctx context.Context, v any, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Path == "" {
		return fmt.Errorf("jsonfile repo: empty path")
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	dir := filepath.Dir(r.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := r.Path + ".tmp"
	if err := os.WriteFile(tmp, b, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, r.Path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
