package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"storeadmin/internal/client"
	"storeadmin/internal/client/proxy"
	"storeadmin/internal/client/transport"
	"storeadmin/internal/config"
)

// ProxyFunc resolves the proxy section of profile once so the backend and the
// image clients share the same selector.
func ProxyFunc(profile *config.Config, log *slog.Logger) (proxy.Func, error) {
	fn, err := client.ProxyFunc(proxy.Config{
		Mode:   profile.Proxy.Mode,
		List:   profile.Proxy.List,
		Bypass: profile.Proxy.Bypass,
	}, log)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		log.Warn("proxy OFF", "mode", profile.Proxy.Mode)
	} else {
		log.Info("proxy ON", "mode", profile.Proxy.Mode, "list_len", len(profile.Proxy.List))
	}
	return fn, nil
}

// BuildTransport assembles the layered transport backend calls go through.
// observer may be nil.
func BuildTransport(profile *config.Config, proxyFn proxy.Func, observer transport.Observer, log *slog.Logger) (transport.Transport, error) {
	log.Info("profile",
		"env", profile.Env,
		"backend", profile.Backend.BaseURL,
		"retries", profile.HTTP.Retries,
		"workers", profile.HTTP.Workers,
		"breaker", profile.HTTP.Breaker.Enabled,
	)

	// uploads get their own deadline from the submit store; the client-wide
	// timeout must not cut them shorter
	timeout := time.Duration(max(profile.HTTP.TimeoutSeconds, profile.HTTP.UploadTimeoutSeconds)) * time.Second
	httpClient := client.NewHTTPClientWithProxy(timeout, proxyFn)

	opts := client.Options{
		HTTPClient: httpClient,
		Retries:    profile.HTTP.Retries,
		Workers:    profile.HTTP.Workers,
		Logger:     log,
	}
	if observer != nil {
		opts.Observer = observer
	}
	if profile.HTTP.Breaker.Enabled {
		opts.Breaker = &transport.BreakerOptions{
			Name:        "backend",
			MaxFailures: uint32(profile.HTTP.Breaker.MaxFailures),
			OpenTimeout: time.Duration(profile.HTTP.Breaker.OpenTimeoutSeconds) * time.Second,
		}
	}
	return client.Build(opts)
}

// imageHTTPClient is the plain client for image availability checks. Storage
// outages must not trip the backend breaker, so it bypasses the layered
// transport. It has no client timeout: a check outliving the caller's wait
// still finishes and fills the cache, bounded by the resolver's own limit.
func imageHTTPClient(proxyFn proxy.Func) *http.Client {
	return client.NewHTTPClientWithProxy(0, proxyFn)
}
