package client

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"storeadmin/internal/client/httpc"
	"storeadmin/internal/client/proxy"
	"storeadmin/internal/client/transport"
)

type Transport = transport.Transport

type Options struct {
	HTTPClient *http.Client
	Retries    int
	Workers    int

	BaseDelay time.Duration
	MaxDelay  time.Duration

	Breaker  *transport.BreakerOptions
	Observer transport.Observer

	Logger *slog.Logger
}

func Build(opts Options) (Transport, error) {
	return transport.Build(transport.Options{
		HTTPClient:  opts.HTTPClient,
		Retries:     opts.Retries,
		Concurrency: opts.Workers,
		BaseDelay:   opts.BaseDelay,
		MaxDelay:    opts.MaxDelay,
		Breaker:     opts.Breaker,
		Observer:    opts.Observer,
		Logger:      opts.Logger,
	})
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return httpc.New(timeout)
}

func NewHTTPClientWithProxy(timeout time.Duration, proxyFunc func(*http.Request) (*url.URL, error)) *http.Client {
	return httpc.NewWithProxy(timeout, proxyFunc)
}

func ProxyFunc(cfg proxy.Config, log *slog.Logger) (proxy.Func, error) {
	return proxy.FromConfig(cfg, log)
}
