package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-finder/internal/pkg/common"
)

func TestPaginate_SplitsIntoRows(t *testing.T) {
	pages, err := Paginate([]string{"a", "b", "c", "d", "e", "f", "g"}, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e", "f"}, {"g"}}, pages)
}

func TestPaginate_ExactMultiple(t *testing.T) {
	pages, err := Paginate([]int{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, pages)
}

func TestPaginate_EmptyInput(t *testing.T) {
	pages, err := Paginate([]string{}, 3)
	require.NoError(t, err)
	assert.Empty(t, pages)

	pages, err = Paginate[string](nil, 1)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestPaginate_ZeroPageSize(t *testing.T) {
	_, err := Paginate([]string{"a"}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))

	_, err = Paginate([]string{"a"}, -2)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestPaginate_Properties(t *testing.T) {
	for n := 1; n <= 20; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for p := 1; p <= n+2; p++ {
			pages, err := Paginate(items, p)
			require.NoError(t, err)

			assert.Len(t, pages, (n+p-1)/p, "n=%d p=%d", n, p)

			var flat []int
			for i, page := range pages {
				if i < len(pages)-1 {
					assert.Len(t, page, p, "n=%d p=%d page=%d", n, p, i)
				}
				assert.NotEmpty(t, page)
				assert.LessOrEqual(t, len(page), p)
				flat = append(flat, page...)
			}
			assert.Equal(t, items, flat, "n=%d p=%d", n, p)
		}
	}
}

func TestPaginate_PagesDoNotAlias(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	pages, err := Paginate(items, 2)
	require.NoError(t, err)

	pages[0] = append(pages[0], "x")
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
}

func TestNewFormatter(t *testing.T) {
	_, err := NewFormatter(0)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))

	f, err := NewFormatter(3)
	require.NoError(t, err)
	assert.Equal(t, 3, f.PageSize())
	assert.Equal(t, [][]string{{"Dairy", "Meat", "Fruit"}, {"Spice"}}, f.Rows([]string{"Dairy", "Meat", "Fruit", "Spice"}))
	assert.Empty(t, f.Rows(nil))
}
