package items

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"storeadmin/internal/apis/backend"
	"storeadmin/internal/apperr"
	"storeadmin/internal/domain/models"
	"storeadmin/internal/http-server/query"
	"storeadmin/internal/http-server/respond"
	"storeadmin/internal/images"
)

type Lister interface {
	ListItems(ctx context.Context, page, perPage int) (backend.Page[models.Item], error)
	ListCategoryItems(ctx context.Context, categoryID, page, perPage int) (backend.Page[models.Item], error)
}

type Options struct {
	Log      *slog.Logger
	Items    Lister
	Resolver *images.Resolver
	PerPage  int
	Timeout  time.Duration
}

type View struct {
	models.Item
	DisplayURL string `json:"display_url"`
}

func NewGetHandler(opts Options) http.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PerPage <= 0 {
		opts.PerPage = models.DefaultPerPage
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.WriteError(w, 405, "method_not_allowed", "GET only")
			return
		}
		if opts.Items == nil {
			log.Error("items handler misconfigured: lister is nil")
			respond.WriteInternalError(w)
			return
		}

		page, perPage, err := query.Page(r, opts.PerPage)
		if err != nil {
			respond.WriteError(w, 400, "bad_request", err.Error())
			return
		}

		categoryID, present, err := query.IntAny(r, "categoryID", "categoryid", "category_id")
		if err != nil {
			respond.WriteError(w, 400, "bad_request", err.Error())
			return
		}
		if present && categoryID <= 0 {
			respond.WriteError(w, 400, "bad_request", "categoryID must be > 0")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		var res backend.Page[models.Item]
		if present {
			res, err = opts.Items.ListCategoryItems(ctx, categoryID, page, perPage)
		} else {
			res, err = opts.Items.ListItems(ctx, page, perPage)
		}
		if err != nil {
			apperr.Report(log, "list items", err)
			respond.WriteReadError(w, err, apperr.MsgLoadItems)
			return
		}

		out := make([]View, 0, len(res.Items))
		if opts.Resolver != nil {
			opts.Resolver.Sweep(ctx, images.EntityImageURLs(opts.Resolver, res.Items))
		}
		for _, it := range res.Items {
			v := View{Item: it, DisplayURL: images.Placeholder(it.ID)}
			if opts.Resolver != nil {
				v.DisplayURL = opts.Resolver.DisplayURL(it)
			}
			out = append(out, v)
		}

		body := map[string]any{
			"fetched_at": time.Now().UTC().Format(time.RFC3339),
			"shape":      res.Shape.String(),
			"pagination": res.Pagination,
			"items":      out,
		}
		if present {
			body["category_id"] = categoryID
		}
		respond.WriteJSON(w, 200, body)
	}
}
