package pagination

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/rmlive/capctl/internal/api"
)

// ErrInvalidSortField is returned for a field VideoSorter does not know.
var ErrInvalidSortField = fmt.Errorf("invalid sort field (valid: %v)", VideoSortFields())

// VideoSortFields lists the fields VideoSorter accepts.
func VideoSortFields() []string {
	return []string{"title", "red", "blue", "role", "round", "file"}
}

// IsValidVideoField reports whether field can sort videos.
func IsValidVideoField(field string) bool {
	return slices.Contains(VideoSortFields(), field)
}

// SortVideos returns a stably sorted copy of videos. An empty field keeps
// the server order.
func SortVideos(videos []api.Video, field, order string) ([]api.Video, error) {
	if field == "" {
		return videos, nil
	}
	if !IsValidVideoField(field) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, field)
	}

	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(a, b api.Video) int {
		c := compareVideos(a, b, field)
		if order == SortOrderDesc {
			return -c
		}
		return c
	})
	return sorted, nil
}

func compareVideos(a, b api.Video, field string) int {
	switch field {
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "red":
		return cmp.Compare(a.Red, b.Red)
	case "blue":
		return cmp.Compare(a.Blue, b.Blue)
	case "role":
		return cmp.Compare(a.Role, b.Role)
	case "round":
		return cmp.Compare(a.Round, b.Round)
	default:
		return cmp.Compare(a.FileName, b.FileName)
	}
}
