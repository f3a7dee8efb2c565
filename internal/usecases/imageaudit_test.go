package usecases

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/images"
	"storeadmin/internal/logger"
	"storeadmin/internal/store"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestImageAudit_WalksPagesAndReportsBroken(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	}))
	t.Cleanup(storage.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/categories":
			page := r.URL.Query().Get("page")
			img := "ok.png"
			if page == "2" {
				img = "missing.png"
			}
			fmt.Fprintf(w, `{"data":[{"id":%s,"name":"cat %s","images":[{"id":1,"url":%q}]}],"current_page":%s,"last_page":2,"per_page":1,"total":2}`,
				page, page, img, page)
		case "/items":
			fmt.Fprintf(w, `[{"id":10,"name":"Green","price":"1.50","category_id":1,"images":[{"id":2,"url":%q}]}]`, storage.URL+"/ok.png")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(api.Close)

	log := logger.Discard()
	resolver := images.NewResolver(images.Options{
		StorageBase: storage.URL,
		Prober:      &images.HTTPProber{Doer: storage.Client(), Log: log},
		Logger:      log,
	})
	svc := backend.New(api.Client(), api.URL, log)
	opts := store.Options{PerPage: 1, Resolver: resolver, Logger: log}

	audit := NewImageAuditService(store.NewCategoryStore(svc, opts), store.NewItemStore(svc, opts), resolver, api.URL, log, 1, 10)
	rep, err := audit.Run(context.Background(), storage.URL)
	require.NoError(t, err)

	require.NotNil(t, rep.Categories)
	assert.Equal(t, 2, rep.Categories.Pages)
	require.Len(t, rep.Categories.Entities, 2)
	assert.Equal(t, storage.URL+"/ok.png", rep.Categories.Entities[0].Display)
	assert.Equal(t, images.Placeholder(2), rep.Categories.Entities[1].Display)
	assert.Equal(t, []string{storage.URL + "/missing.png"}, rep.Categories.Entities[1].Unavailable)

	require.NotNil(t, rep.Items)
	assert.Equal(t, 1, rep.Items.Pages)
	assert.Equal(t, 1, rep.Items.Sweep.Available)

	assert.Equal(t, 1, rep.Unavailable)
}

func TestImageAudit_StopsOnFetchError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	t.Cleanup(api.Close)

	log := logger.Discard()
	resolver := images.NewResolver(images.Options{Logger: log})
	svc := backend.New(api.Client(), api.URL, log)

	audit := NewImageAuditService(store.NewCategoryStore(svc, store.Options{Resolver: resolver, Logger: log}), nil, resolver, api.URL, log, 5, 10)
	_, err := audit.Run(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
