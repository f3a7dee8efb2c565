package endpoints

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	Doer         Doer
	BaseURL      string
	ApplyHeaders func(*http.Request)
}

func New(doer Doer, baseURL string, applyHeaders func(*http.Request)) *Client {
	return &Client{
		Doer:         doer,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ApplyHeaders: applyHeaders,
	}
}

// RequestError means the request could not be built; nothing was sent.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string { return fmt.Sprintf("%s: build request: %v", e.Op, e.Err) }
func (e *RequestError) Unwrap() error { return e.Err }

func (c *Client) newReq(ctx context.Context, op, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("BaseURL is empty")}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	if c.ApplyHeaders != nil {
		c.ApplyHeaders(req)
	}
	return req, nil
}

// do sends req and returns the (limited) body of a 2xx answer. Any other status
// becomes an *APIError carrying the body.
func (c *Client) do(req *http.Request, limit int64) ([]byte, error) {
	resp, err := c.Doer.Do(req)
	if err != nil {
		return nil, err
	}
	b, err := readLimited(resp, limit)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ParseAPIError(resp.StatusCode, b)
	}
	return b, nil
}

func readLimited(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("perpage", fmt.Sprint(perPage))
	return q
}
