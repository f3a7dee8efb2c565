package categories

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
	"storeadmin/internal/http-server/query"
	"storeadmin/internal/http-server/respond"
	"storeadmin/internal/images"
)

type Lister interface {
	ListCategories(ctx context.Context, page, perPage int) (backend.Page[models.Category], error)
	GetCategory(ctx context.Context, id int) (models.Category, error)
}

// Creator is satisfied by *submit.Store.
type Creator interface {
	CreateCategory(ctx context.Context, in models.CategoryCreate) (models.CategoryCreated, error)
}

type Options struct {
	Log      *slog.Logger
	Lister   Lister
	Creator  Creator
	Resolver *images.Resolver
	PerPage  int
	Timeout  time.Duration
	// request body cap for uploads, bytes
	MaxUpload int64
}

type View struct {
	models.Category
	DisplayURL string `json:"display_url"`
}

func defaults(opts *Options) *slog.Logger {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PerPage <= 0 {
		opts.PerPage = models.DefaultPerPage
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = 10 << 20
	}
	if opts.Log == nil {
		return slog.Default()
	}
	return opts.Log
}

// NewHandler serves /categories: GET lists a page, POST creates a category.
func NewHandler(opts Options) http.HandlerFunc {
	list := NewGetHandler(opts)
	create := NewCreateHandler(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			respond.WriteError(w, 405, "method_not_allowed", "GET or POST only")
		}
	}
}

func NewGetHandler(opts Options) http.HandlerFunc {
	log := defaults(&opts)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.WriteError(w, 405, "method_not_allowed", "GET only")
			return
		}
		if opts.Lister == nil {
			log.Error("categories handler misconfigured: lister is nil")
			respond.WriteInternalError(w)
			return
		}

		page, perPage, err := query.Page(r, opts.PerPage)
		if err != nil {
			respond.WriteError(w, 400, "bad_request", err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		res, err := opts.Lister.ListCategories(ctx, page, perPage)
		if err != nil {
			apperr.Report(log, "list categories", err)
			respond.WriteReadError(w, err, apperr.MsgLoadCategories)
			return
		}

		respond.WriteJSON(w, 200, map[string]any{
			"fetched_at": time.Now().UTC().Format(time.RFC3339),
			"shape":      res.Shape.String(),
			"pagination": res.Pagination,
			"categories": views(ctx, opts.Resolver, res.Items),
		})
	}
}

// NewGetOneHandler serves /categories/{id}.
func NewGetOneHandler(opts Options) http.HandlerFunc {
	log := defaults(&opts)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.WriteError(w, 405, "method_not_allowed", "GET only")
			return
		}
		if opts.Lister == nil {
			log.Error("category handler misconfigured: lister is nil")
			respond.WriteInternalError(w)
			return
		}

		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil || id <= 0 {
			respond.WriteError(w, 400, "bad_request", "id must be a positive integer")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		c, err := opts.Lister.GetCategory(ctx, id)
		if err != nil {
			apperr.Report(log, "get category", err)
			respond.WriteReadError(w, err, apperr.MsgLoadCategory)
			return
		}

		respond.WriteJSON(w, 200, views(ctx, opts.Resolver, []models.Category{c})[0])
	}
}

func NewCreateHandler(opts Options) http.HandlerFunc {
	log := defaults(&opts)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respond.WriteError(w, 405, "method_not_allowed", "POST only")
			return
		}
		if opts.Creator == nil {
			log.Error("create handler misconfigured: creator is nil")
			respond.WriteInternalError(w)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxUpload)
		if err := r.ParseMultipartForm(opts.MaxUpload); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
				respond.WriteError(w, 413, string(apperr.CodeFileTooLarge), apperr.MsgFileTooLarge)
				return
			}
			respond.WriteError(w, 400, "bad_request", "multipart form expected")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		in := models.CategoryCreate{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
		}
		if f, hdr, err := r.FormFile("image"); err == nil {
			defer f.Close()
			in.FileName = hdr.Filename
			in.Image = f
		}

		created, err := opts.Creator.CreateCategory(r.Context(), in)
		if err != nil {
			respond.WriteSubmitError(w, err)
			return
		}
		respond.WriteJSON(w, 201, created)
	}
}

// views checks the images of cs before building display URLs so a listing
// never points at a broken picture.
func views(ctx context.Context, res *images.Resolver, cs []models.Category) []View {
	out := make([]View, 0, len(cs))
	if res != nil {
		res.Sweep(ctx, images.EntityImageURLs(res, cs))
	}
	for _, c := range cs {
		v := View{Category: c}
		if res != nil {
			v.DisplayURL = res.DisplayURL(c)
		} else {
			v.DisplayURL = images.Placeholder(c.ID)
		}
		out = append(out, v)
	}
	return out
}
