package images

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storeadmin/internal/domain/models"
)

const (
	DefaultCheckTimeout = 5 * time.Second
	// upper bound for a probe that outlives its caller
	defaultProbeLimit = time.Minute
)

// Recorder receives check outcomes; *metrics.Metrics implements it.
type Recorder interface {
	ImageCheck(result string)
	ImageCacheHit()
}

type Options struct {
	StorageBase  string
	Cache        *Cache
	Prober       Prober
	CheckTimeout time.Duration
	ProbeLimit   time.Duration
	Workers      int
	Recorder     Recorder
	Logger       *slog.Logger
}

// Resolver turns stored image paths into URLs and tracks which of them load.
type Resolver struct {
	base       string
	cache      *Cache
	prober     Prober
	timeout    time.Duration
	probeLimit time.Duration
	workers    int
	rec        Recorder
	log        *slog.Logger
}

func NewResolver(o Options) *Resolver {
	if o.Cache == nil {
		o.Cache = NewCache()
	}
	if o.CheckTimeout <= 0 {
		o.CheckTimeout = DefaultCheckTimeout
	}
	if o.ProbeLimit <= 0 {
		o.ProbeLimit = defaultProbeLimit
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &Resolver{
		base:       strings.TrimRight(o.StorageBase, "/"),
		cache:      o.Cache,
		prober:     o.Prober,
		timeout:    o.CheckTimeout,
		probeLimit: o.ProbeLimit,
		workers:    o.Workers,
		rec:        o.Recorder,
		log:        o.Logger,
	}
}

func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve returns absolute URLs unchanged and prefixes the rest with the
// storage base.
func (r *Resolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return r.base + path
	}
	return r.base + "/" + path
}

// CheckAvailability reports whether url loads. Cached URLs answer true without
// a probe. A probe still running when the check timeout fires is left to
// finish and may populate the cache afterwards.
func (r *Resolver) CheckAvailability(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}
	if r.cache.Has(url) {
		r.record("", true)
		return true
	}
	if r.prober == nil {
		return false
	}

	done := make(chan bool, 1)
	go func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.probeLimit)
		defer cancel()

		err := r.prober.Probe(pctx, url)
		if err != nil {
			r.log.Debug("image unavailable", "url", url, "err", err)
			done <- false
			return
		}
		r.cache.Set(url, url)
		done <- true
	}()

	t := time.NewTimer(r.timeout)
	defer t.Stop()

	select {
	case ok := <-done:
		if ok {
			r.record("available", false)
		} else {
			r.record("unavailable", false)
		}
		return ok
	case <-t.C:
		r.log.Debug("image check timed out", "url", url, "timeout", r.timeout.String())
		r.record("timeout", false)
		return false
	case <-ctx.Done():
		r.record("timeout", false)
		return false
	}
}

func (r *Resolver) record(result string, hit bool) {
	if r.rec == nil {
		return
	}
	if hit {
		r.rec.ImageCacheHit()
		return
	}
	r.rec.ImageCheck(result)
}

func (r *Resolver) Placeholder(id int) string { return Placeholder(id) }

// URLFor is the resolved URL of the entity's first image, "" when it has none.
func (r *Resolver) URLFor(e models.Imaged) string {
	img, ok := models.PrimaryImage(e)
	if !ok {
		return ""
	}
	return r.Resolve(img.URL)
}

// DisplayURL answers from the cache only: the image URL when it is known to
// load, the entity's gradient otherwise.
func (r *Resolver) DisplayURL(e models.Imaged) string {
	u := r.URLFor(e)
	if u != "" {
		if v, ok := r.cache.Get(u); ok {
			return v
		}
	}
	return Placeholder(e.EntityID())
}

// DisplayURLWithFallback checks the image now and falls back to the gradient.
func (r *Resolver) DisplayURLWithFallback(ctx context.Context, e models.Imaged) string {
	u := r.URLFor(e)
	if u != "" && r.CheckAvailability(ctx, u) {
		return u
	}
	return Placeholder(e.EntityID())
}

func (r *Resolver) ClearCache() {
	r.cache.Clear()
}
