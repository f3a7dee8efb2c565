package mapper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storeadmin/internal/apis/backend/responses"
	"storeadmin/internal/domain/models"
)

func FromCategory(c responses.Category) models.Category {
	return models.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Images:      fromImages(c.Images),
	}
}

func FromCategories(in []responses.Category) []models.Category {
	out := make([]models.Category, 0, len(in))
	for _, c := range in {
		out = append(out, FromCategory(c))
	}
	return out
}

func FromItem(it responses.Item) models.Item {
	out := models.Item{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       decimal.Zero,
		CategoryID:  int(it.CategoryID),
		Images:      fromImages(it.Images),
	}
	if it.Price.Valid {
		out.Price = it.Price.Decimal
	}
	if it.Category != nil {
		out.Category = &models.CategoryRef{ID: it.Category.ID, Name: it.Category.Name}
		if out.CategoryID == 0 {
			out.CategoryID = it.Category.ID
		}
	}
	return out
}

func FromItems(in []responses.Item) []models.Item {
	out := make([]models.Item, 0, len(in))
	for _, it := range in {
		out = append(out, FromItem(it))
	}
	return out
}

// FromPage turns the wire paginator into the domain one. A list without a
// paginator is a single complete page of n entries.
func FromPage(p *responses.Page, n int) models.Pagination {
	if p == nil {
		return models.Unpaginated(n)
	}
	out := models.Pagination{
		CurrentPage: int(p.CurrentPage),
		LastPage:    int(p.LastPage),
		PerPage:     int(p.PerPage),
		Total:       int(p.Total),
	}
	if out.LastPage < 1 {
		out.LastPage = 1
	}
	return out
}

func FromUser(u responses.User) models.User {
	return models.User{ID: u.ID, Email: u.Email, Name: u.Name}
}

func FromCreated(c responses.CategoryCreated) models.CategoryCreated {
	return models.CategoryCreated{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   parseTime(c.CreatedAt),
		UpdatedAt:   parseTime(c.UpdatedAt),
	}
}

// images default to an empty list, never nil
func fromImages(in []responses.Image) []models.Image {
	out := make([]models.Image, 0, len(in))
	for _, img := range in {
		owner := img.CategoryID
		if owner == 0 {
			owner = img.ItemID
		}
		out = append(out, models.Image{ID: img.ID, OwnerID: owner, URL: img.URL})
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02 15:04:05",
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
