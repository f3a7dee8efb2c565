package models

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Image is one stored picture of a category or an item. URL is either a path
// relative to the object storage or an absolute link.
type Image struct {
	ID      int    `json:"id"`
	OwnerID int    `json:"owner_id"`
	URL     string `json:"url"`
}

type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Images      []Image `json:"images"`
}

type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"category_id"`
	Images      []Image         `json:"images"`
	Category    *CategoryRef    `json:"category,omitempty"`
}

// Imaged is implemented by every entity that carries an image list.
type Imaged interface {
	EntityID() int
	ImageList() []Image
}

func (c Category) EntityID() int      { return c.ID }
func (c Category) ImageList() []Image { return c.Images }
func (i Item) EntityID() int          { return i.ID }
func (i Item) ImageList() []Image     { return i.Images }

// PrimaryImage returns the first image of an entity.
func PrimaryImage(e Imaged) (Image, bool) {
	imgs := e.ImageList()
	if len(imgs) == 0 {
		return Image{}, false
	}
	return imgs[0], true
}

type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CategoryCreate is the payload of the create-category write.
type CategoryCreate struct {
	Name        string    `validate:"required,max=255"`
	Description string    `validate:"max=2000"`
	FileName    string    `validate:"required"`
	Image       io.Reader `validate:"required"`
}

type CategoryCreated struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
