package store

import (
	"context"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
)

type Categories struct {
	*Resource[models.Category]
	svc backend.Service
}

func NewCategoryStore(svc backend.Service, o Options) *Categories {
	fetch := func(ctx context.Context, page, perPage int, _ Filter) (backend.Page[models.Category], error) {
		return svc.ListCategories(ctx, page, perPage)
	}
	return &Categories{
		Resource: newResource("categories", apperr.MsgLoadCategories, fetch, o),
		svc:      svc,
	}
}

// FetchByID loads one category without touching the current page and warms
// the cache for its first image.
func (c *Categories) FetchByID(ctx context.Context, id int) (models.Category, bool) {
	r := c.Resource

	r.mu.Lock()
	r.inflight++
	r.errMsg = ""
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inflight--
		r.mu.Unlock()
	}()

	cat, err := c.svc.GetCategory(ctx, id)
	if err != nil {
		r.mu.Lock()
		r.errMsg = apperr.UserMessage(err, apperr.MsgLoadCategory)
		r.mu.Unlock()
		apperr.Report(r.log, "fetch category", err)
		return models.Category{}, false
	}

	if u := r.resolver.URLFor(cat); u != "" {
		r.resolver.CheckAvailability(ctx, u)
	}
	return cat, true
}
