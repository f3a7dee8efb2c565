package models

// Pagination mirrors the block returned by the backend next to a page of data.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

const DefaultPerPage = 5

func DefaultPagination() Pagination {
	return Pagination{CurrentPage: 1, LastPage: 1, PerPage: DefaultPerPage, Total: 0}
}

func (p Pagination) HasNext() bool { return p.CurrentPage < p.LastPage }
func (p Pagination) HasPrev() bool { return p.CurrentPage > 1 }

// Contains reports whether page n can be requested.
func (p Pagination) Contains(n int) bool {
	return n >= 1 && n <= p.LastPage
}

// Unpaginated builds the block used when the backend answers with a bare list.
func Unpaginated(n int) Pagination {
	return Pagination{CurrentPage: 1, LastPage: 1, PerPage: n, Total: n}
}
