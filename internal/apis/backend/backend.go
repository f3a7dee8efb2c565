package backend

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"storeadmin/internal/apis/backend/endpoints"
	"storeadmin/internal/apis/backend/mapper"
	"storeadmin/internal/apis/backend/responses"
	"storeadmin/internal/client"
	"storeadmin/internal/domain/models"
)

// Page is one page of a list call, already in domain types.
type Page[T any] struct {
	Items      []T
	Pagination models.Pagination
	// wire layout the page arrived in
	Shape responses.Shape
}

type Service interface {
	Login(ctx context.Context, creds models.Credentials) (string, models.User, error)
	ListCategories(ctx context.Context, page, perPage int) (Page[models.Category], error)
	GetCategory(ctx context.Context, id int) (models.Category, error)
	ListItems(ctx context.Context, page, perPage int) (Page[models.Item], error)
	ListCategoryItems(ctx context.Context, categoryID, page, perPage int) (Page[models.Item], error)
	CreateCategory(ctx context.Context, token string, in models.CategoryCreate) (models.CategoryCreated, error)
}

type service struct {
	api *endpoints.Client
	log *slog.Logger
}

func New(transport client.Transport, baseURL string, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{log: logger}
	s.api = endpoints.New(transport, baseURL, s.applyDefaultHeaders)
	return s
}

func (s *service) applyDefaultHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-Id", uuid.NewString())
}

func (s *service) Login(ctx context.Context, creds models.Credentials) (string, models.User, error) {
	out, err := s.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return "", models.User{}, err
	}
	return out.Token, mapper.FromUser(out.User), nil
}

func (s *service) ListCategories(ctx context.Context, page, perPage int) (Page[models.Category], error) {
	l, err := s.api.ListCategories(ctx, page, perPage)
	if err != nil {
		return Page[models.Category]{}, err
	}
	s.log.Debug("categories page", "shape", l.Shape.String(), "count", len(l.Items))

	items := mapper.FromCategories(l.Items)
	return Page[models.Category]{
		Items:      items,
		Pagination: mapper.FromPage(l.Page, len(items)),
		Shape:      l.Shape,
	}, nil
}

func (s *service) GetCategory(ctx context.Context, id int) (models.Category, error) {
	c, err := s.api.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, err
	}
	return mapper.FromCategory(c), nil
}

func (s *service) ListItems(ctx context.Context, page, perPage int) (Page[models.Item], error) {
	l, err := s.api.ListItems(ctx, page, perPage)
	if err != nil {
		return Page[models.Item]{}, err
	}
	return s.itemPage(l), nil
}

func (s *service) ListCategoryItems(ctx context.Context, categoryID, page, perPage int) (Page[models.Item], error) {
	l, err := s.api.ListCategoryItems(ctx, categoryID, page, perPage)
	if err != nil {
		return Page[models.Item]{}, err
	}
	return s.itemPage(l), nil
}

func (s *service) itemPage(l responses.List[responses.Item]) Page[models.Item] {
	s.log.Debug("items page", "shape", l.Shape.String(), "count", len(l.Items))

	items := mapper.FromItems(l.Items)
	return Page[models.Item]{
		Items:      items,
		Pagination: mapper.FromPage(l.Page, len(items)),
		Shape:      l.Shape,
	}
}

func (s *service) CreateCategory(ctx context.Context, token string, in models.CategoryCreate) (models.CategoryCreated, error) {
	out, err := s.api.CreateCategory(ctx, token, endpoints.CategoryForm{
		Name:        in.Name,
		Description: in.Description,
		FileName:    in.FileName,
		Image:       in.Image,
	})
	if err != nil {
		return models.CategoryCreated{}, err
	}
	if out.Data == nil {
		return models.CategoryCreated{}, nil
	}
	return mapper.FromCreated(*out.Data), nil
}
