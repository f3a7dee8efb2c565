package query

import (
	"fmt"
	"net/http"
	"strconv"
)

func Int(r *http.Request, key string) (val int, present bool, err error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be integer", key)
	}
	return n, true, nil
}

func IntAny(r *http.Request, keys ...string) (val int, present bool, err error) {
	for _, k := range keys {
		v, ok, e := Int(r, k)
		if e != nil {
			return 0, false, e
		}
		if ok {
			return v, true, nil
		}
	}
	return 0, false, nil
}

// Page reads page and perpage, falling back to 1 and defPerPage.
func Page(r *http.Request, defPerPage int) (page, perPage int, err error) {
	page, perPage = 1, defPerPage

	if v, ok, err := Int(r, "page"); err != nil {
		return 0, 0, err
	} else if ok {
		page = v
	}
	if v, ok, err := IntAny(r, "perpage", "per_page"); err != nil {
		return 0, 0, err
	} else if ok {
		perPage = v
	}

	if page < 1 {
		return 0, 0, fmt.Errorf("page must be > 0")
	}
	if perPage < 1 {
		return 0, 0, fmt.Errorf("perpage must be > 0")
	}
	return page, perPage, nil
}
