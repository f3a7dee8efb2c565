package responses

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Shape tags the wire layout a list response arrived in.
type Shape int

const (
	ShapeUnknown Shape = iota
	// {"data": [...], "current_page": 1, "last_page": 3, ...}
	ShapePaginated
	// [...]
	ShapeArray
	// {"id": 7, "items": [...]} or {"data": {"items": {"data": [...], ...}}}
	ShapeNested
)

func (s Shape) String() string {
	switch s {
	case ShapePaginated:
		return "paginated"
	case ShapeArray:
		return "array"
	case ShapeNested:
		return "nested"
	default:
		return "unknown"
	}
}

var ErrUnknownShape = errors.New("list response: unrecognised shape")

type Page struct {
	CurrentPage FlexInt `json:"current_page"`
	LastPage    FlexInt `json:"last_page"`
	PerPage     FlexInt `json:"per_page"`
	Total       FlexInt `json:"total"`
}

// List is the normalised result of a list call, whatever layout it came in.
type List[T any] struct {
	Shape Shape
	Items []T
	// Page is nil when the response carried no pagination block.
	Page *Page
}

type paginated struct {
	Data json.RawMessage `json:"data"`
	Page
}

// DecodeList decodes b into a List. relKeys names the relationship keys under
// which a parent resource nests its children (for example "items").
func DecodeList[T any](b []byte, relKeys ...string) (List[T], error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return List[T]{}, ErrUnknownShape
	}

	switch b[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return List[T]{}, fmt.Errorf("decode array: %w", err)
		}
		return List[T]{Shape: ShapeArray, Items: items}, nil
	case '{':
	default:
		return List[T]{}, ErrUnknownShape
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return List[T]{}, fmt.Errorf("decode object: %w", err)
	}

	if data, ok := obj["data"]; ok {
		data = bytes.TrimSpace(data)
		switch {
		case len(data) > 0 && data[0] == '[':
			return decodePaginated[T](b, ShapePaginated)
		case len(data) > 0 && data[0] == '{':
			// parent resource wrapped in a data envelope
			l, err := decodeNested[T](data, relKeys)
			if err == nil {
				return l, nil
			}
			if !errors.Is(err, ErrUnknownShape) {
				return List[T]{}, err
			}
		}
	}

	return decodeNestedObj[T](b, obj, relKeys)
}

func decodePaginated[T any](b []byte, shape Shape) (List[T], error) {
	var p paginated
	if err := json.Unmarshal(b, &p); err != nil {
		return List[T]{}, fmt.Errorf("decode paginated: %w", err)
	}
	if len(p.Data) == 0 {
		return List[T]{}, ErrUnknownShape
	}
	var items []T
	if err := json.Unmarshal(p.Data, &items); err != nil {
		return List[T]{}, fmt.Errorf("decode paginated data: %w", err)
	}
	out := List[T]{Shape: shape, Items: items}
	if p.CurrentPage > 0 {
		pg := p.Page
		out.Page = &pg
	}
	return out, nil
}

func decodeNested[T any](b []byte, relKeys []string) (List[T], error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return List[T]{}, fmt.Errorf("decode nested: %w", err)
	}
	return decodeNestedObj[T](b, obj, relKeys)
}

func decodeNestedObj[T any](src []byte, obj map[string]json.RawMessage, relKeys []string) (List[T], error) {
	for _, k := range relKeys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case '[':
			var items []T
			if err := json.Unmarshal(raw, &items); err != nil {
				return List[T]{}, fmt.Errorf("decode %s: %w", k, err)
			}
			// the parent may still carry a paginator for its children
			out := List[T]{Shape: ShapeNested, Items: items}
			var pg Page
			if json.Unmarshal(src, &pg) == nil && pg.CurrentPage > 0 {
				out.Page = &pg
			}
			return out, nil
		case '{':
			return decodePaginated[T](raw, ShapeNested)
		}
	}
	return List[T]{}, ErrUnknownShape
}
