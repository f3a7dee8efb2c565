package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"storeadmin/internal/apis/backend/responses"
)

// APIError is a response the backend did send but that is not a success: a
// non-2xx status, or a 2xx whose payload carries a non-zero application code
// (Business is set then).
type APIError struct {
	Status   int
	Code     string
	Message  string
	Body     string
	Business bool
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
		if len(msg) > 512 {
			msg = msg[:512]
		}
	}
	return fmt.Sprintf("api error: status=%d code=%v message=%s", e.Status, e.Code, msg)
}

// ParseAPIError builds an APIError from an error body. JSON bodies contribute
// code and message; HTML error pages (proxies answering 413/502) contribute
// their title.
func ParseAPIError(status int, body []byte) *APIError {
	out := &APIError{Status: status, Body: string(body)}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out
	}

	if trimmed[0] == '{' {
		var m struct {
			Code    responses.Code `json:"code"`
			Message string         `json:"message"`
			Error   string         `json:"error"`
		}
		if json.Unmarshal(trimmed, &m) == nil {
			out.Code = string(m.Code)
			out.Message = m.Message
			if out.Message == "" {
				out.Message = m.Error
			}
		}
		return out
	}

	if trimmed[0] == '<' {
		out.Message = htmlMessage(trimmed)
	}
	return out
}

func htmlMessage(b []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return ""
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	return ""
}
