package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/auth"
	"storeadmin/internal/client/transport"
	"storeadmin/internal/config"
	"storeadmin/internal/images"
	"storeadmin/internal/metrics"
	"storeadmin/internal/store"
	"storeadmin/internal/submit"
)

// App is the wired set of stores one process works with.
type App struct {
	Config     *config.Config
	Backend    backend.Service
	Resolver   *images.Resolver
	Auth       *auth.Store
	Categories *store.Categories
	Items      *store.Items
	Submit     *submit.Store
	// nil when metrics are disabled
	Metrics *metrics.Metrics

	closeTokens func() error
}

func Build(ctx context.Context, profile *config.Config, log *slog.Logger) (*App, error) {
	var m *metrics.Metrics
	if profile.Metrics.Enabled {
		m = metrics.New(profile.Metrics.Namespace)
	}

	proxyFn, err := ProxyFunc(profile, log)
	if err != nil {
		return nil, err
	}

	var observer transport.Observer
	if m != nil {
		observer = m
	}
	tr, err := BuildTransport(profile, proxyFn, observer, log)
	if err != nil {
		return nil, err
	}

	var imgRec images.Recorder
	var storeRec store.Recorder
	if m != nil {
		imgRec, storeRec = m, m
	}
	resolver, err := BuildResolver(ctx, profile, proxyFn, imgRec, log)
	if err != nil {
		return nil, err
	}

	tokens, closeTokens, err := BuildTokenStore(ctx, profile, log)
	if err != nil {
		return nil, err
	}

	svc := backend.New(tr, profile.Backend.BaseURL, log)
	authStore := auth.New(svc, tokens, log)

	opts := store.Options{
		PerPage:      profile.Pagination.PerPage,
		LastCallWins: profile.Stores.LastCallWins,
		Resolver:     resolver,
		Recorder:     storeRec,
		Logger:       log,
	}

	return &App{
		Config:      profile,
		Backend:     svc,
		Resolver:    resolver,
		Auth:        authStore,
		Categories:  store.NewCategoryStore(svc, opts),
		Items:       store.NewItemStore(svc, opts),
		Submit:      submit.New(svc, authStore, time.Duration(profile.HTTP.UploadTimeoutSeconds)*time.Second, log),
		Metrics:     m,
		closeTokens: closeTokens,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.closeTokens == nil {
		return nil
	}
	return a.closeTokens()
}
