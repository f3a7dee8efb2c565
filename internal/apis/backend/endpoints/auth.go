package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"storeadmin/internal/apis/backend/responses"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (responses.LoginResponse, error) {
	body, err := json.Marshal(loginReq{Email: email, Password: password})
	if err != nil {
		return responses.LoginResponse{}, &RequestError{Op: "Login", Err: err}
	}

	req, err := c.newReq(ctx, "Login", http.MethodPost, "/login", nil, bytes.NewReader(body))
	if err != nil {
		return responses.LoginResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	b, err := c.do(req, 256*1024)
	if err != nil {
		return responses.LoginResponse{}, err
	}

	var out responses.LoginResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return responses.LoginResponse{}, fmt.Errorf("Login: decode: %w", err)
	}
	if out.Token == "" {
		return responses.LoginResponse{}, fmt.Errorf("Login: response has no token")
	}
	return out, nil
}
