package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

type Mode string

const (
	ModeDisabled Mode = "disabled"
	// HTTP_PROXY / HTTPS_PROXY / NO_PROXY
	ModeEnv Mode = "env"
	// round robin over a fixed list
	ModeList Mode = "list"
)

type Config struct {
	Mode string
	List []string
	// hosts that never go through the list proxies
	Bypass []string
}

// Func is the shape net/http.Transport expects.
type Func = func(*http.Request) (*url.URL, error)

// FromConfig returns the proxy selector for cfg. A nil Func means direct
// connections.
func FromConfig(cfg Config, log *slog.Logger) (Func, error) {
	if log == nil {
		log = slog.Default()
	}
	mode := Mode(strings.ToLower(strings.TrimSpace(cfg.Mode)))
	if mode == "" {
		mode = ModeEnv
	}

	switch mode {
	case ModeDisabled:
		return nil, nil

	case ModeEnv:
		return http.ProxyFromEnvironment, nil

	case ModeList:
		urls, err := parseList(cfg.List)
		if err != nil {
			return nil, err
		}
		log.Info("proxy enabled", "mode", "list", "count", len(urls))
		return listFunc(urls, cfg.Bypass, log), nil

	default:
		return nil, fmt.Errorf("unknown proxy.mode=%q (expected disabled|env|list)", cfg.Mode)
	}
}

func parseList(list []string) ([]*url.URL, error) {
	out := make([]*url.URL, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "://") {
			s = "http://" + s
		}
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("proxy %q: %w", s, err)
		}
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("proxy list is empty")
	}
	return out, nil
}

func listFunc(urls []*url.URL, bypass []string, log *slog.Logger) Func {
	skip := make(map[string]struct{}, len(bypass))
	for _, h := range bypass {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			skip[h] = struct{}{}
		}
	}
	var idx atomic.Uint64

	return func(req *http.Request) (*url.URL, error) {
		if _, ok := skip[strings.ToLower(req.URL.Hostname())]; ok {
			return nil, nil
		}
		u := urls[int((idx.Add(1)-1)%uint64(len(urls)))]
		log.Debug("proxy selected", "host", u.Host, "target", req.URL.Host)
		return u, nil
	}
}
