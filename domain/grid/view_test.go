package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewStateStartsAtPageOne(t *testing.T) {
	view := NewViewState("orders", 10)

	assert.Equal(t, "orders", view.Sheet)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 10, view.PageSize)
	assert.Nil(t, view.Sort)
	assert.Empty(t, view.Search)
}

func TestWithSearchResetsPage(t *testing.T) {
	view := NewViewState("orders", 10).WithPage(4).WithSearch("acme")

	assert.Equal(t, "acme", view.Search)
	assert.Equal(t, 1, view.Page)
}

func TestWithSheetResetsSheetScopedState(t *testing.T) {
	view := NewViewState("orders", 10).
		WithSearch("acme").
		WithSort("Total").
		WithColumns([]string{"Total"}).
		WithPage(3)

	switched := view.WithSheet("inventory")

	assert.Equal(t, "inventory", switched.Sheet)
	assert.Equal(t, 1, switched.Page)
	assert.Nil(t, switched.Sort, "The sort column belongs to the old sheet")
	assert.Nil(t, switched.Columns, "The column selection belongs to the old sheet")
	assert.Equal(t, "acme", switched.Search, "The search term survives a sheet switch")
}

func TestWithSheetSameSheetIsNoOp(t *testing.T) {
	view := NewViewState("orders", 10).WithSort("Total").WithPage(3)

	same := view.WithSheet("orders")

	assert.Equal(t, view, same)
}

func TestWithSortTogglesDirection(t *testing.T) {
	view := NewViewState("orders", 10)

	view = view.WithSort("Total")
	require.NotNil(t, view.Sort)
	assert.Equal(t, SortSpec{Column: "Total"}, *view.Sort, "First selection sorts ascending")

	view = view.WithSort("Total")
	assert.Equal(t, SortSpec{Column: "Total", Descending: true}, *view.Sort, "Re-selecting flips the direction")

	view = view.WithSort("Total")
	assert.Equal(t, SortSpec{Column: "Total", Descending: false}, *view.Sort)

	view = view.WithSort("Name")
	assert.Equal(t, SortSpec{Column: "Name", Descending: false}, *view.Sort, "A new column starts ascending again")
}

func TestViewStateModifiersReturnCopies(t *testing.T) {
	original := NewViewState("orders", 10)

	_ = original.WithSearch("acme")
	_ = original.WithSort("Total")
	_ = original.WithPage(7)
	_ = original.WithSheet("inventory")

	assert.Equal(t, NewViewState("orders", 10), original)
}

func TestWithSortDoesNotAliasPreviousSpec(t *testing.T) {
	first := NewViewState("orders", 10).WithSort("Total")
	second := first.WithSort("Total")

	assert.False(t, first.Sort.Descending, "Flipping the copy must not reach back into the earlier value")
	assert.True(t, second.Sort.Descending)
}
