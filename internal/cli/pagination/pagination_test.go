package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmlive/capctl/internal/api"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "valid default", params: *NewParams(15)},
		{name: "valid later page", params: Params{Page: 4, PageSize: 50}},
		{name: "zero page", params: Params{Page: 0, PageSize: 10}, wantErr: ErrInvalidPage},
		{name: "negative page", params: Params{Page: -1, PageSize: 10}, wantErr: ErrInvalidPage},
		{name: "zero page size", params: Params{Page: 1}, wantErr: ErrInvalidPageSize},
		{name: "page size too large", params: Params{Page: 1, PageSize: 1001}, wantErr: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParams_Apply(t *testing.T) {
	f := Params{Page: 3, PageSize: 20}.Apply(api.VideoFilter{Role: "主视角", Current: 1})
	assert.Equal(t, api.VideoFilter{Role: "主视角", Current: 3, PageSize: 20}, f)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{"empty", "", "", "asc", nil},
		{"field only", "round", "round", "asc", nil},
		{"explicit desc", "round:desc", "round", "desc", nil},
		{"upper case order", "title:DESC", "title", "desc", nil},
		{"too many parts", "a:b:c", "", "", ErrInvalidSortFormat},
		{"empty field", ":asc", "", "", ErrEmptySortField},
		{"invalid order", "round:up", "", "", ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, order, err := ParseSort(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		totalCount int
		want       Meta
	}{
		{
			name:       "first page",
			params:     Params{Page: 1, PageSize: 10},
			totalCount: 25,
			want:       Meta{CurrentPage: 1, PageSize: 10, TotalPages: 3, TotalItems: 25, HasNext: true},
		},
		{
			name:       "last page",
			params:     Params{Page: 3, PageSize: 10},
			totalCount: 25,
			want:       Meta{CurrentPage: 3, PageSize: 10, TotalPages: 3, TotalItems: 25, HasPrevious: true},
		},
		{
			name:       "empty listing",
			params:     Params{Page: 1, PageSize: 15},
			totalCount: 0,
			want:       Meta{CurrentPage: 1, PageSize: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeta(tt.params, tt.totalCount))
		})
	}
}

func TestMeta_Footer(t *testing.T) {
	assert.Equal(t, "Page 2/3 | 25 videos", NewMeta(Params{Page: 2, PageSize: 10}, 25).Footer())
	assert.Equal(t, "Page 1/1 | 0 videos", NewMeta(Params{Page: 1, PageSize: 10}, 0).Footer())
}

func TestSortVideos(t *testing.T) {
	videos := []api.Video{
		{Title: "b", Round: 2, FileName: "2.m3u8"},
		{Title: "a", Round: 3, FileName: "3.m3u8"},
		{Title: "c", Round: 1, FileName: "1.m3u8"},
	}

	t.Run("RoundAsc", func(t *testing.T) {
		sorted, err := SortVideos(videos, "round", SortOrderAsc)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, []int{sorted[0].Round, sorted[1].Round, sorted[2].Round})
	})

	t.Run("TitleDesc", func(t *testing.T) {
		sorted, err := SortVideos(videos, "title", SortOrderDesc)
		require.NoError(t, err)
		assert.Equal(t, "c", sorted[0].Title)
		assert.Equal(t, "a", sorted[2].Title)
	})

	t.Run("OriginalUntouched", func(t *testing.T) {
		_, err := SortVideos(videos, "file", SortOrderAsc)
		require.NoError(t, err)
		assert.Equal(t, "2.m3u8", videos[0].FileName)
	})

	t.Run("NoField", func(t *testing.T) {
		sorted, err := SortVideos(videos, "", SortOrderAsc)
		require.NoError(t, err)
		assert.Equal(t, videos, sorted)
	})

	t.Run("InvalidField", func(t *testing.T) {
		_, err := SortVideos(videos, "size", SortOrderAsc)
		require.ErrorIs(t, err, ErrInvalidSortField)
	})
}
