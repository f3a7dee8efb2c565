package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/apis/backend/endpoints"
	"storeadmin/internal/apis/backend/responses"
	"storeadmin/internal/apperr"
	"storeadmin/internal/client/transport"
	"storeadmin/internal/domain/models"
	"storeadmin/internal/images"
	"storeadmin/internal/logger"
)

type fakeBackend struct {
	lastCategoryID int
	lastPage       int
	lastPerPage    int
}

func (f *fakeBackend) ListCategories(_ context.Context, page, perPage int) (backend.Page[models.Category], error) {
	f.lastPage, f.lastPerPage = page, perPage
	return backend.Page[models.Category]{
		Items:      []models.Category{{ID: 3, Name: "Tea"}},
		Pagination: models.Pagination{CurrentPage: page, LastPage: 2, PerPage: perPage, Total: 6},
		Shape:      responses.ShapePaginated,
	}, nil
}

func (f *fakeBackend) GetCategory(_ context.Context, id int) (models.Category, error) {
	if id == 404 {
		return models.Category{}, &apperr.Error{Kind: apperr.KindServerRejected, Status: 404, Message: "not found"}
	}
	return models.Category{ID: id, Name: "Tea"}, nil
}

func (f *fakeBackend) ListItems(_ context.Context, page, perPage int) (backend.Page[models.Item], error) {
	f.lastCategoryID = 0
	return backend.Page[models.Item]{Items: []models.Item{{ID: 1}}, Pagination: models.Unpaginated(1), Shape: responses.ShapeArray}, nil
}

func (f *fakeBackend) ListCategoryItems(_ context.Context, categoryID, page, perPage int) (backend.Page[models.Item], error) {
	f.lastCategoryID = categoryID
	return backend.Page[models.Item]{Items: []models.Item{{ID: 2, CategoryID: categoryID}}, Pagination: models.Unpaginated(1), Shape: responses.ShapeNested}, nil
}

type fakeCreator struct {
	got models.CategoryCreate
	err error
}

func (f *fakeCreator) CreateCategory(_ context.Context, in models.CategoryCreate) (models.CategoryCreated, error) {
	f.got = in
	if f.err != nil {
		return models.CategoryCreated{}, f.err
	}
	return models.CategoryCreated{ID: 9, Name: in.Name}, nil
}

type fakeSession struct {
	authed bool
	user   models.User
	// returned as the login failure cause when set
	loginErr error
}

func (f *fakeSession) Login(_ context.Context, c models.Credentials) bool {
	if f.loginErr != nil || c.Password != "secret" {
		return false
	}
	f.authed, f.user = true, models.User{ID: 1, Email: c.Email}
	return true
}
func (f *fakeSession) LastError() error { return f.loginErr }
func (f *fakeSession) Logout(context.Context) { f.authed = false }
func (f *fakeSession) IsAuthenticated() bool  { return f.authed }
func (f *fakeSession) User() (models.User, bool) {
	return f.user, f.authed
}
func (f *fakeSession) ErrorMessage() string {
	if f.authed {
		return ""
	}
	return "Invalid credentials"
}

func newTestServer(t *testing.T, creator *fakeCreator) (*fakeBackend, *fakeSession, http.Handler) {
	t.Helper()
	be := &fakeBackend{}
	sess := &fakeSession{}
	srv := New(logger.Discard(), []string{"http://localhost:5173"})
	srv.RegisterRoutes(Deps{
		Categories: be,
		Creator:    creator,
		Items:      be,
		Session:    sess,
		Resolver:   images.NewResolver(images.Options{Logger: logger.Discard()}),
		Metrics:    http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		PerPage:    5,
	})
	return be, sess, srv.Handler()
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCategories_ListUsesPageParams(t *testing.T) {
	be, _, h := newTestServer(t, &fakeCreator{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/categories?page=2&perpage=3", nil))
	require.Equal(t, 200, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, 2, be.lastPage)
	assert.Equal(t, 3, be.lastPerPage)

	var body struct {
		Shape      string            `json:"shape"`
		Pagination models.Pagination `json:"pagination"`
		Categories []struct {
			ID         int    `json:"id"`
			DisplayURL string `json:"display_url"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "paginated", body.Shape)
	assert.Equal(t, 2, body.Pagination.LastPage)
	require.Len(t, body.Categories, 1)
	assert.Equal(t, images.Placeholder(3), body.Categories[0].DisplayURL)
}

func TestCategories_BadQuery(t *testing.T) {
	_, _, h := newTestServer(t, &fakeCreator{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/categories?page=zero", nil))
	assert.Equal(t, 400, rec.Code)

	rec = do(h, httptest.NewRequest(http.MethodPut, "/categories", nil))
	assert.Equal(t, 405, rec.Code)
}

func TestCategories_GetOne(t *testing.T) {
	_, _, h := newTestServer(t, &fakeCreator{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/categories/7", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/categories/abc", nil))
	assert.Equal(t, 400, rec.Code)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/categories/404", nil))
	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestItems_CategoryFilter(t *testing.T) {
	be, _, h := newTestServer(t, &fakeCreator{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/items?categoryID=4", nil))
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, 4, be.lastCategoryID)
	assert.Contains(t, rec.Body.String(), `"shape":"nested"`)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/items", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"shape":"array"`)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/items?categoryID=-1", nil))
	assert.Equal(t, 400, rec.Code)
}

func multipartRequest(t *testing.T, name string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("description", "Leaf tea"))
	if withImage {
		fw, err := mw.CreateFormFile("image", "tea.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/categories", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCategories_Create(t *testing.T) {
	creator := &fakeCreator{}
	_, _, h := newTestServer(t, creator)

	rec := do(h, multipartRequest(t, "Tea", true))
	require.Equal(t, 201, rec.Code)
	assert.Equal(t, "Tea", creator.got.Name)
	assert.Equal(t, "tea.png", creator.got.FileName)
	assert.Contains(t, rec.Body.String(), `"id":9`)
}

func TestCategories_CreateErrorCodes(t *testing.T) {
	creator := &fakeCreator{err: apperr.New(apperr.KindClient, apperr.CodeUnauthorized, apperr.MsgUnauthorized)}
	_, _, h := newTestServer(t, creator)

	rec := do(h, multipartRequest(t, "Tea", true))
	require.Equal(t, 401, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, apperr.MsgUnauthorized, body.Error.Message)

	rec = do(h, httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBufferString("name=x")))
	assert.Equal(t, 400, rec.Code)
}

func TestSession_LoginLogout(t *testing.T) {
	_, sess, h := newTestServer(t, &fakeCreator{})

	rec := do(h, httptest.NewRequest(http.MethodPost, "/session", bytes.NewBufferString(`{"email":"a@b.c","password":"bad"}`)))
	assert.Equal(t, 401, rec.Code)
	assert.False(t, sess.authed)

	rec = do(h, httptest.NewRequest(http.MethodPost, "/session", bytes.NewBufferString(`{"email":"a@b.c","password":"secret"}`)))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)

	rec = do(h, httptest.NewRequest(http.MethodDelete, "/session", nil))
	assert.Equal(t, 204, rec.Code)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestServer_CORSAndMetrics(t *testing.T) {
	_, _, h := newTestServer(t, &fakeCreator{})

	req := httptest.NewRequest(http.MethodOptions, "/categories", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := do(h, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}

func TestSession_LoginFailureStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"bad credentials", &endpoints.APIError{Status: 401, Message: "Неверные учетные данные"}, 401, "UNAUTHORIZED"},
		{"backend down", &endpoints.APIError{Status: 500}, 502, "HTTP_500"},
		{"no answer", context.DeadlineExceeded, 503, "NO_RESPONSE"},
		{"breaker open", fmt.Errorf("POST /login: %w", transport.ErrCircuitOpen), 503, "NETWORK_ERROR"},
		{"validation", apperr.New(apperr.KindClient, apperr.CodeValidation, apperr.MsgValidation), 422, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, sess, h := newTestServer(t, &fakeCreator{})
			sess.loginErr = tc.err

			rec := do(h, httptest.NewRequest(http.MethodPost, "/session", bytes.NewBufferString(`{"email":"a@b.c","password":"secret"}`)))
			assert.Equal(t, tc.status, rec.Code)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}
