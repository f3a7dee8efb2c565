package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/gabriel-vasile/mimetype"

	"storeadmin/internal/apis/backend/responses"
)

// CategoryForm is the multipart payload of a category create.
type CategoryForm struct {
	Name        string
	Description string
	FileName    string
	Image       io.Reader
}

const sniffLen = 3072

// CreateCategory posts form as multipart/form-data with a bearer token. A 2xx
// answer whose code is not 0 is returned as a Business *APIError.
func (c *Client) CreateCategory(ctx context.Context, token string, form CategoryForm) (responses.APIResponse[responses.CategoryCreated], error) {
	var zero responses.APIResponse[responses.CategoryCreated]

	body, contentType, err := buildCategoryForm(form)
	if err != nil {
		return zero, &RequestError{Op: "CreateCategory", Err: err}
	}

	req, err := c.newReq(ctx, "CreateCategory", http.MethodPost, "/create-categories", nil, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.Doer.Do(req)
	if err != nil {
		return zero, err
	}
	b, err := readLimited(resp, 1024*1024)
	if err != nil {
		return zero, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, ParseAPIError(resp.StatusCode, b)
	}

	var out responses.APIResponse[responses.CategoryCreated]
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, fmt.Errorf("CreateCategory: decode: %w", err)
	}
	if !out.Code.OK() {
		return out, &APIError{
			Status:   resp.StatusCode,
			Code:     string(out.Code),
			Message:  out.Message,
			Body:     string(b),
			Business: true,
		}
	}
	return out, nil
}

func buildCategoryForm(form CategoryForm) ([]byte, string, error) {
	if form.Image == nil {
		return nil, "", fmt.Errorf("image is required")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(form.Image, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	head = head[:n]
	mt := mimetype.Detect(head)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", form.Name); err != nil {
		return nil, "", err
	}
	if form.Description != "" {
		if err := w.WriteField("description", form.Description); err != nil {
			return nil, "", err
		}
	}

	name := form.FileName
	if name == "" {
		name = "image" + mt.Extension()
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, name))
	h.Set("Content-Type", mt.String())
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), form.Image)); err != nil {
		return nil, "", fmt.Errorf("copy image: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
