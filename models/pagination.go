package models

// Pagination describes the window a list response covers. From/To are 1-based
// item positions within the full ordered result and are null when the window
// is empty.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	LastPage     int   `json:"last_page"`
	PerPage      int   `json:"per_page"`
	Total        int64 `json:"total"`
	From         *int  `json:"from"`
	To           *int  `json:"to"`
	HasMorePages bool  `json:"has_more_pages"`
}

// NewPagination computes the pagination envelope for a total count and a
// requested window. Page and perPage are normalized to sane minimums first.
func NewPagination(total int64, page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	p := Pagination{
		CurrentPage:  page,
		LastPage:     lastPage,
		PerPage:      perPage,
		Total:        total,
		HasMorePages: page < lastPage,
	}

	first := (page-1)*perPage + 1
	if total > 0 && int64(first) <= total {
		last := page * perPage
		if int64(last) > total {
			last = int(total)
		}
		p.From = &first
		p.To = &last
	}

	return p
}

// Offset is the row offset this window starts at.
func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}
