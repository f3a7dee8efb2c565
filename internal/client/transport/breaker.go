package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without touching the network while the breaker
// rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

var errServerStatus = errors.New("server error status")

type BreakerOptions struct {
	Name string
	// consecutive failures (transport errors and 5xx) that open the breaker
	MaxFailures uint32
	// how long the breaker stays open before letting probes through
	OpenTimeout time.Duration
	// probes allowed while half-open
	HalfOpenRequests uint32
}

type BreakerTransport struct {
	Base Transport
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerTransport(base Transport, o BreakerOptions, log *slog.Logger) *BreakerTransport {
	if log == nil {
		log = slog.Default()
	}
	if o.Name == "" {
		o.Name = "backend"
	}
	if o.MaxFailures == 0 {
		o.MaxFailures = 5
	}
	if o.OpenTimeout <= 0 {
		o.OpenTimeout = 30 * time.Second
	}
	if o.HalfOpenRequests == 0 {
		o.HalfOpenRequests = 1
	}

	st := gobreaker.Settings{
		Name:        o.Name,
		MaxRequests: o.HalfOpenRequests,
		Timeout:     o.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= o.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// a caller that gave up says nothing about the backend
		IsSuccessful: func(err error) bool {
			var ab *abandoned
			return err == nil || errors.As(err, &ab)
		},
	}

	return &BreakerTransport{Base: base, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *BreakerTransport) State() gobreaker.State { return b.cb.State() }

func (b *BreakerTransport) Do(req *http.Request) (*http.Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		resp, err := b.Base.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, &abandoned{err: err}
			}
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, errServerStatus
		}
		return resp, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.URL.Host, ErrCircuitOpen, err)
	}
	if errors.Is(err, errServerStatus) {
		return out.(*http.Response), nil
	}
	var ab *abandoned
	if errors.As(err, &ab) {
		return nil, ab.err
	}
	if err != nil {
		return nil, err
	}
	return out.(*http.Response), nil
}

type abandoned struct{ err error }

func (a *abandoned) Error() string { return a.err.Error() }
func (a *abandoned) Unwrap() error { return a.err }
