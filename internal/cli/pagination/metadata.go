package pagination

import "fmt"

// Meta describes one page of a server-paged listing.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta derives page metadata from params and the server's total.
func NewMeta(params Params, totalCount int) Meta {
	pageSize := max(params.PageSize, 1)
	current := max(params.Page, 1)
	totalPages := (totalCount + pageSize - 1) / pageSize

	return Meta{
		CurrentPage: current,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: current > 1,
		HasNext:     current < totalPages,
	}
}

// Footer renders "Page x/y | n videos".
func (m Meta) Footer() string {
	return fmt.Sprintf("Page %d/%d | %d videos", m.CurrentPage, max(m.TotalPages, 1), m.TotalItems)
}
