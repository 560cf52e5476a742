package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rmlive/capctl/internal/api"
)

// Validation limits and sort defaults.
const (
	DefaultPage      = 1
	MinPage          = 1
	MinPageSize      = 1
	MaxPageSize      = 1000
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = errors.New("page-size must be between 1 and 1000")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'round:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
)

// Params holds the page flags of a list command.
type Params struct {
	// Page is the 1-based page number.
	Page int
	// PageSize is the number of videos per page.
	PageSize int
}

// NewParams returns page 1 of pageSize videos.
func NewParams(pageSize int) *Params {
	return &Params{Page: DefaultPage, PageSize: pageSize}
}

// Validate checks the page bounds.
func (p Params) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	return nil
}

// Apply copies the page into f.
func (p Params) Apply(f api.VideoFilter) api.VideoFilter {
	f.Current = p.Page
	f.PageSize = p.PageSize
	return f
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// An empty string selects no sorting.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return "", DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
