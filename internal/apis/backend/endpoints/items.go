package endpoints

import (
	"context"
	"fmt"
	"net/http"

	"storeadmin/internal/apis/backend/responses"
)

// ItemsRelation is the key a category nests its items under.
const ItemsRelation = "items"

func (c *Client) ListItems(ctx context.Context, page, perPage int) (responses.List[responses.Item], error) {
	return c.listItems(ctx, "ListItems", "/items", page, perPage)
}

// ListCategoryItems reads the items of one category from the category resource
// itself; the backend answers with a paginator, a bare list or the category with
// its items nested.
func (c *Client) ListCategoryItems(ctx context.Context, categoryID, page, perPage int) (responses.List[responses.Item], error) {
	return c.listItems(ctx, "ListCategoryItems", fmt.Sprintf("/categories/%d", categoryID), page, perPage)
}

func (c *Client) listItems(ctx context.Context, op, path string, page, perPage int) (responses.List[responses.Item], error) {
	req, err := c.newReq(ctx, op, http.MethodGet, path, pageQuery(page, perPage), nil)
	if err != nil {
		return responses.List[responses.Item]{}, err
	}

	b, err := c.do(req, 4*1024*1024)
	if err != nil {
		return responses.List[responses.Item]{}, err
	}

	l, err := responses.DecodeList[responses.Item](b, ItemsRelation)
	if err != nil {
		return responses.List[responses.Item]{}, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}
