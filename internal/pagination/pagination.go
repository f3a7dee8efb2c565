// Package pagination turns page navigation into re-fetches of a paginated
// store. Every navigation either issues exactly one fetch or none at all.
package pagination

import (
	"context"

	"storeadmin/internal/domain/models"
)

type FetchFunc func(ctx context.Context, page, perPage int)

type Controller struct {
	state func() models.Pagination
	fetch FetchFunc
}

// New wires a controller to the current pagination of a store and to the
// store's fetch.
func New(state func() models.Pagination, fetch FetchFunc) *Controller {
	return &Controller{state: state, fetch: fetch}
}

func (c *Controller) HasNextPage() bool { return c.state().HasNext() }
func (c *Controller) HasPrevPage() bool { return c.state().HasPrev() }

// NextPage fetches current+1. It reports whether a fetch was issued.
func (c *Controller) NextPage(ctx context.Context) bool {
	p := c.state()
	if !p.HasNext() {
		return false
	}
	c.fetch(ctx, p.CurrentPage+1, p.PerPage)
	return true
}

func (c *Controller) PrevPage(ctx context.Context) bool {
	p := c.state()
	if !p.HasPrev() {
		return false
	}
	c.fetch(ctx, p.CurrentPage-1, p.PerPage)
	return true
}

// GoToPage ignores pages outside [1, last_page].
func (c *Controller) GoToPage(ctx context.Context, n int) bool {
	p := c.state()
	if !p.Contains(n) {
		return false
	}
	c.fetch(ctx, n, p.PerPage)
	return true
}

// ChangePerPage always starts over from page 1. Non-positive sizes are ignored.
func (c *Controller) ChangePerPage(ctx context.Context, k int) bool {
	if k <= 0 {
		return false
	}
	c.fetch(ctx, 1, k)
	return true
}
