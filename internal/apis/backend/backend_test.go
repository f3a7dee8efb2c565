package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/apis/backend/responses"
	"storeadmin/internal/domain/models"
)

func TestService_DefaultHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
		assert.NoError(t, err)
		_, _ = io.WriteString(w, `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`)
	}))
	defer srv.Close()

	s := New(srv.Client(), srv.URL, nil)
	p, err := s.ListCategories(context.Background(), 1, 5)

	require.NoError(t, err)
	assert.Equal(t, responses.ShapeArray, p.Shape)
	assert.Equal(t, models.Pagination{CurrentPage: 1, LastPage: 1, PerPage: 2, Total: 2}, p.Pagination)
	assert.Len(t, p.Items, 2)
}

func TestService_ListCategoryItems_Paginated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/3", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":[{"id":10,"price":"5.00","category_id":3}],"current_page":2,"last_page":2,"per_page":1,"total":2}`)
	}))
	defer srv.Close()

	s := New(srv.Client(), srv.URL, nil)
	p, err := s.ListCategoryItems(context.Background(), 3, 2, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, p.Pagination.CurrentPage)
	require.Len(t, p.Items, 1)
	assert.Equal(t, 3, p.Items[0].CategoryID)
	assert.Equal(t, "5", p.Items[0].Price.String())
}
