package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	empty := NewBuilder().Row().Grid(3)
	assert.Empty(t, empty.Rows(), "empty rows are skipped")

	kb := NewBuilder().Grid(5,
		Button("1", "s:1"), Button("2", "s:2"), Button("3", "s:3"), Button("4", "s:4"), Button("5", "s:5"),
		Button("6", "s:6"), Button("7", "s:7"),
	).Build()

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 5)
	assert.Len(t, kb.InlineKeyboard[1], 2)
	assert.Equal(t, "s:7", kb.InlineKeyboard[1][1].CallbackData)
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("p:", 0, 1))

	first := PaginationButtons("p:", 0, 3)
	require.Len(t, first, 2)
	assert.Equal(t, Noop, first[0].CallbackData)
	assert.Equal(t, "p:1", first[1].CallbackData)

	middle := PaginationButtons("p:", 1, 3)
	require.Len(t, middle, 3)
	assert.Equal(t, "p:0", middle[0].CallbackData)
	assert.Equal(t, "📄 2/3", middle[1].Text)
}

func TestPage(t *testing.T) {
	start, end, current, pages := Page(12, 5, 2)
	assert.Equal(t, []int{10, 12, 2, 3}, []int{start, end, current, pages})

	start, end, current, pages = Page(12, 5, 99)
	assert.Equal(t, []int{10, 12, 2, 3}, []int{start, end, current, pages})

	start, end, current, pages = Page(0, 5, 0)
	assert.Equal(t, []int{0, 0, 0, 1}, []int{start, end, current, pages})
}
