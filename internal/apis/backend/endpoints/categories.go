package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"storeadmin/internal/apis/backend/responses"
)

func (c *Client) ListCategories(ctx context.Context, page, perPage int) (responses.List[responses.Category], error) {
	req, err := c.newReq(ctx, "ListCategories", http.MethodGet, "/categories", pageQuery(page, perPage), nil)
	if err != nil {
		return responses.List[responses.Category]{}, err
	}

	b, err := c.do(req, 4*1024*1024)
	if err != nil {
		return responses.List[responses.Category]{}, err
	}

	l, err := responses.DecodeList[responses.Category](b)
	if err != nil {
		return responses.List[responses.Category]{}, fmt.Errorf("ListCategories: %w", err)
	}
	return l, nil
}

func (c *Client) GetCategory(ctx context.Context, id int) (responses.Category, error) {
	req, err := c.newReq(ctx, "GetCategory", http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, nil)
	if err != nil {
		return responses.Category{}, err
	}

	b, err := c.do(req, 4*1024*1024)
	if err != nil {
		return responses.Category{}, err
	}

	var out responses.Category
	if err := json.Unmarshal(unwrapData(b), &out); err != nil {
		return responses.Category{}, fmt.Errorf("GetCategory: decode: %w", err)
	}
	if out.ID == 0 {
		return responses.Category{}, fmt.Errorf("GetCategory: %w", responses.ErrUnknownShape)
	}
	return out, nil
}

// unwrapData returns the object under "data" when the resource came wrapped in
// an envelope, and b unchanged otherwise.
func unwrapData(b []byte) []byte {
	var env struct {
		ID   *json.RawMessage `json:"id"`
		Data json.RawMessage  `json:"data"`
	}
	if json.Unmarshal(b, &env) != nil || env.ID != nil {
		return b
	}
	d := bytes.TrimSpace(env.Data)
	if len(d) > 0 && d[0] == '{' {
		return d
	}
	return b
}
