package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storeadmin/internal/domain/models"
	"storeadmin/internal/images"
	"storeadmin/internal/repository"
	"storeadmin/internal/store"
)

// ImageAuditService walks every page of the category and item lists and
// reports which stored images do not load.
type ImageAuditService struct {
	categories *store.Categories
	items      *store.Items
	resolver   *images.Resolver
	backendURL string
	log        *slog.Logger
	perPage    int
	maxPages   int
}

func NewImageAuditService(
	categories *store.Categories,
	items *store.Items,
	resolver *images.Resolver,
	backendURL string,
	logger *slog.Logger,
	perPage int,
	maxPages int,
) *ImageAuditService {
	if logger == nil {
		logger = slog.Default()
	}
	if perPage <= 0 {
		perPage = models.DefaultPerPage
	}
	if maxPages <= 0 {
		maxPages = 500
	}
	return &ImageAuditService{
		categories: categories,
		items:      items,
		resolver:   resolver,
		backendURL: backendURL,
		log:        logger,
		perPage:    perPage,
		maxPages:   maxPages,
	}
}

func (s *ImageAuditService) Run(ctx context.Context, storageURL string) (repository.AuditReport, error) {
	rep := repository.AuditReport{
		FetchedAt:  time.Now().UTC().Format(time.RFC3339),
		BackendURL: s.backendURL,
		StorageURL: storageURL,
	}

	if s.categories != nil {
		sec, err := walk(ctx, s, s.categories.Resource, func(c models.Category) string { return c.Name })
		if err != nil {
			return rep, fmt.Errorf("categories: %w", err)
		}
		rep.Categories = sec
		rep.Unavailable += len(sec.Sweep.Unavailable)
	}

	if s.items != nil {
		sec, err := walk(ctx, s, s.items.Resource, func(it models.Item) string { return it.Name })
		if err != nil {
			return rep, fmt.Errorf("items: %w", err)
		}
		rep.Items = sec
		rep.Unavailable += len(sec.Sweep.Unavailable)
	}

	s.log.Info("image audit done", "unavailable", rep.Unavailable)
	return rep, nil
}

func walk[T models.Imaged](ctx context.Context, s *ImageAuditService, res *store.Resource[T], name func(T) string) (*repository.Section, error) {
	var all []T
	pages := 0

	res.Fetch(ctx, 1, s.perPage)
	for {
		if msg := res.ErrorMessage(); msg != "" {
			return nil, fmt.Errorf("page %d: %s", pages+1, msg)
		}
		pages++
		all = append(all, res.List()...)
		s.log.Debug("audit page", "page", pages, "count", len(all))

		if pages >= s.maxPages {
			s.log.Warn("audit stopped at max pages", "max_pages", s.maxPages)
			break
		}
		if !res.NextPage(ctx) {
			break
		}
	}

	// the stores already probed every page on load; this pass is served
	// from the cache except for what failed
	sweep := s.resolver.Sweep(ctx, images.EntityImageURLs(s.resolver, all))
	broken := make(map[string]struct{}, len(sweep.Unavailable))
	for _, u := range sweep.Unavailable {
		broken[u] = struct{}{}
	}

	sec := &repository.Section{Pages: pages, Sweep: sweep, Entities: make([]repository.EntityImages, 0, len(all))}
	for _, e := range all {
		ei := repository.EntityImages{
			ID:      e.EntityID(),
			Name:    name(e),
			Images:  []string{},
			Display: s.resolver.DisplayURL(e),
		}
		for _, img := range e.ImageList() {
			u := s.resolver.Resolve(img.URL)
			if u == "" {
				continue
			}
			ei.Images = append(ei.Images, u)
			if _, bad := broken[u]; bad {
				ei.Unavailable = append(ei.Unavailable, u)
			}
		}
		sec.Entities = append(sec.Entities, ei)
	}
	return sec, nil
}
