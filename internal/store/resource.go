// Package store keeps the current page of a backend resource in memory
// together with its pagination, loading flag and last error message.
package store

import (
	"context"
	"log/slog"
	"sync"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
	"storeadmin/internal/images"
	"storeadmin/internal/pagination"
)

// Filter narrows a list fetch. The zero value means no filter.
type Filter struct {
	CategoryID int
}

type Fetcher[T any] func(ctx context.Context, page, perPage int, f Filter) (backend.Page[T], error)

// Recorder receives store events; *metrics.Metrics implements it.
type Recorder interface {
	StaleResponse(store string)
	Fetch(store, outcome string)
}

type Options struct {
	PerPage int
	// apply every response, even one that was overtaken by a newer fetch
	LastCallWins bool
	Resolver     *images.Resolver
	Recorder     Recorder
	Logger       *slog.Logger
}

// Resource is the state of one paginated list. It is safe for concurrent use.
type Resource[T models.Imaged] struct {
	*pagination.Controller

	name     string
	loadMsg  string
	fetcher  Fetcher[T]
	perPage  int
	lastWins bool
	resolver *images.Resolver
	rec      Recorder
	log      *slog.Logger

	mu         sync.RWMutex
	items      []T
	pagination models.Pagination
	filter     Filter
	inflight   int
	errMsg     string
	gen        uint64
}

func newResource[T models.Imaged](name, loadMsg string, fetcher Fetcher[T], o Options) *Resource[T] {
	if o.PerPage <= 0 {
		o.PerPage = models.DefaultPerPage
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Resolver == nil {
		o.Resolver = images.NewResolver(images.Options{Logger: o.Logger})
	}

	p := models.DefaultPagination()
	p.PerPage = o.PerPage

	r := &Resource[T]{
		name:       name,
		loadMsg:    loadMsg,
		fetcher:    fetcher,
		perPage:    o.PerPage,
		lastWins:   o.LastCallWins,
		resolver:   o.Resolver,
		rec:        o.Recorder,
		log:        o.Logger.With("store", name),
		items:      []T{},
		pagination: p,
	}
	r.Controller = pagination.New(r.Pagination, func(ctx context.Context, page, perPage int) {
		r.fetch(ctx, page, perPage, r.Filter())
	})
	return r
}

// Fetch loads one unfiltered page. Failures end up in ErrorMessage.
func (r *Resource[T]) Fetch(ctx context.Context, page, perPage int) {
	r.fetch(ctx, page, perPage, Filter{})
}

func (r *Resource[T]) fetch(ctx context.Context, page, perPage int, f Filter) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = r.perPage
	}

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.inflight++
	r.errMsg = ""
	r.filter = f
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inflight--
		r.mu.Unlock()
	}()

	res, err := r.fetcher(ctx, page, perPage, f)

	r.mu.Lock()
	if !r.lastWins && gen != r.gen {
		latest := r.gen
		r.mu.Unlock()
		r.log.Warn("stale response dropped", "generation", gen, "latest", latest, "page", page)
		r.record(func(rec Recorder) { rec.StaleResponse(r.name) })
		return
	}
	if err != nil {
		r.errMsg = apperr.UserMessage(err, r.loadMsg)
		r.mu.Unlock()
		apperr.Report(r.log, "fetch "+r.name, err)
		r.record(func(rec Recorder) { rec.Fetch(r.name, "error") })
		return
	}
	r.items = res.Items
	r.pagination = res.Pagination
	r.mu.Unlock()

	r.log.Debug("page loaded", "page", res.Pagination.CurrentPage, "count", len(res.Items), "shape", res.Shape.String())
	r.record(func(rec Recorder) { rec.Fetch(r.name, "ok") })

	r.preload(ctx, res.Items)
}

// preload warms the image cache; its outcome never reaches the store state.
func (r *Resource[T]) preload(ctx context.Context, items []T) {
	urls := images.EntityImageURLs(r.resolver, items)
	if len(urls) == 0 {
		return
	}
	res := r.resolver.Sweep(ctx, urls)
	r.log.Debug("image preload", "checked", res.Checked, "available", res.Available, "unavailable", len(res.Unavailable))
}

func (r *Resource[T]) record(f func(Recorder)) {
	if r.rec != nil {
		f(r.rec)
	}
}

// List returns a copy of the current page.
func (r *Resource[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Resource[T]) Pagination() models.Pagination {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pagination
}

func (r *Resource[T]) Filter() Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter
}

// Count is the total reported by the backend, not the page length.
func (r *Resource[T]) Count() int { return r.Pagination().Total }

func (r *Resource[T]) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inflight > 0
}

func (r *Resource[T]) ErrorMessage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.errMsg
}

func (r *Resource[T]) ClearError() {
	r.mu.Lock()
	r.errMsg = ""
	r.mu.Unlock()
}

func (r *Resource[T]) ByID(id int) (T, bool) {
	return r.Find(func(e T) bool { return e.EntityID() == id })
}

func (r *Resource[T]) Find(pred func(T) bool) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.items {
		if pred(e) {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// Images of the entity id on the current page; never nil.
func (r *Resource[T]) Images(id int) []models.Image {
	e, ok := r.ByID(id)
	if !ok || len(e.ImageList()) == 0 {
		return []models.Image{}
	}
	return e.ImageList()
}

// ImageURL is the resolved URL of the entity's first image, "" when unknown.
func (r *Resource[T]) ImageURL(id int) string {
	e, ok := r.ByID(id)
	if !ok {
		return ""
	}
	return r.resolver.URLFor(e)
}

func (r *Resource[T]) DisplayURL(id int) string {
	e, ok := r.ByID(id)
	if !ok {
		return images.Placeholder(id)
	}
	return r.resolver.DisplayURL(e)
}

func (r *Resource[T]) DisplayURLWithFallback(ctx context.Context, id int) string {
	e, ok := r.ByID(id)
	if !ok {
		return images.Placeholder(id)
	}
	return r.resolver.DisplayURLWithFallback(ctx, e)
}

func (r *Resource[T]) Placeholder(id int) string { return images.Placeholder(id) }

func (r *Resource[T]) ClearImageCache() { r.resolver.ClearCache() }

// Snapshot is a consistent view of the store for rendering.
type Snapshot[T any] struct {
	Items        []T               `json:"items"`
	Pagination   models.Pagination `json:"pagination"`
	HasNextPage  bool              `json:"has_next_page"`
	HasPrevPage  bool              `json:"has_prev_page"`
	Loading      bool              `json:"loading"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]T, len(r.items))
	copy(items, r.items)
	return Snapshot[T]{
		Items:        items,
		Pagination:   r.pagination,
		HasNextPage:  r.pagination.HasNext(),
		HasPrevPage:  r.pagination.HasPrev(),
		Loading:      r.inflight > 0,
		ErrorMessage: r.errMsg,
	}
}
