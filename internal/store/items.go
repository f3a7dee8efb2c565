package store

import (
	"context"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
)

type Items struct {
	*Resource[models.Item]
}

func NewItemStore(svc backend.Service, o Options) *Items {
	fetch := func(ctx context.Context, page, perPage int, f Filter) (backend.Page[models.Item], error) {
		if f.CategoryID > 0 {
			return svc.ListCategoryItems(ctx, f.CategoryID, page, perPage)
		}
		return svc.ListItems(ctx, page, perPage)
	}
	return &Items{Resource: newResource("items", apperr.MsgLoadItems, fetch, o)}
}

// FetchByCategory loads a page of one category's items. Page navigation keeps
// the category until the next unfiltered Fetch.
func (s *Items) FetchByCategory(ctx context.Context, categoryID, page, perPage int) {
	s.fetch(ctx, page, perPage, Filter{CategoryID: categoryID})
}

// ByCategory filters the current page.
func (s *Items) ByCategory(categoryID int) []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Item, 0, len(s.items))
	for _, it := range s.items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out
}
