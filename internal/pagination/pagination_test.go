package pagination

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"storeadmin/internal/domain/models"
)

type call struct{ page, perPage int }

type fakeStore struct {
	p     models.Pagination
	calls []call
}

func (f *fakeStore) controller() *Controller {
	return New(
		func() models.Pagination { return f.p },
		func(_ context.Context, page, perPage int) {
			f.calls = append(f.calls, call{page, perPage})
			f.p.CurrentPage = page
			f.p.PerPage = perPage
		},
	)
}

func TestController_GoToPage_OutOfRange(t *testing.T) {
	f := &fakeStore{p: models.Pagination{CurrentPage: 2, LastPage: 3, PerPage: 5, Total: 15}}
	c := f.controller()
	ctx := context.Background()

	for _, n := range []int{0, -1, 4, 100} {
		assert.False(t, c.GoToPage(ctx, n), "page %d", n)
	}
	assert.Empty(t, f.calls)

	assert.True(t, c.GoToPage(ctx, 3))
	assert.Equal(t, []call{{3, 5}}, f.calls)
}

func TestController_NextPrev(t *testing.T) {
	t.Run("single page issues nothing", func(t *testing.T) {
		f := &fakeStore{p: models.DefaultPagination()}
		c := f.controller()

		assert.False(t, c.HasNextPage())
		assert.False(t, c.HasPrevPage())
		assert.False(t, c.NextPage(context.Background()))
		assert.False(t, c.PrevPage(context.Background()))
		assert.Empty(t, f.calls)
	})

	t.Run("walks forward and back", func(t *testing.T) {
		f := &fakeStore{p: models.Pagination{CurrentPage: 1, LastPage: 2, PerPage: 5, Total: 7}}
		c := f.controller()
		ctx := context.Background()

		assert.True(t, c.NextPage(ctx))
		assert.False(t, c.NextPage(ctx))
		assert.True(t, c.PrevPage(ctx))
		assert.Equal(t, []call{{2, 5}, {1, 5}}, f.calls)
	})
}

func TestController_ChangePerPage_ResetsToFirst(t *testing.T) {
	f := &fakeStore{p: models.Pagination{CurrentPage: 4, LastPage: 6, PerPage: 5, Total: 30}}
	c := f.controller()

	assert.True(t, c.ChangePerPage(context.Background(), 10))
	assert.False(t, c.ChangePerPage(context.Background(), 0))

	assert.Equal(t, []call{{1, 10}}, f.calls)
}

func TestController_HasFlags(t *testing.T) {
	f := &fakeStore{}
	c := f.controller()

	for cur := 1; cur <= 3; cur++ {
		for last := 1; last <= 3; last++ {
			f.p = models.Pagination{CurrentPage: cur, LastPage: last}
			assert.Equal(t, cur < last, c.HasNextPage())
			assert.Equal(t, cur > 1, c.HasPrevPage())
		}
	}
}
