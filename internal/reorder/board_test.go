package reorder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// list: one card per row, 100x40, rows 50 apart
var listLayout = GridLayout(1, 100, 40, 10)

// grid: two columns of 100x40 cards
var gridLayout = GridLayout(2, 100, 40, 10)

func TestGridLayout(t *testing.T) {
	assert.Equal(t, Rect{Left: 0, Top: 0, Width: 100, Height: 40}, gridLayout(0))
	assert.Equal(t, Rect{Left: 110, Top: 0, Width: 100, Height: 40}, gridLayout(1))
	assert.Equal(t, Rect{Left: 0, Top: 50, Width: 100, Height: 40}, gridLayout(2))

	x, y := gridLayout(3).Center()
	assert.Equal(t, 160.0, x)
	assert.Equal(t, 70.0, y)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "vocabulary.words.cards.order.v1", Key(""))
	assert.Equal(t, "vocabulary.words.cards.order.v1:words:42", Key("words:42"))
}

func TestNewBoard_AppliesSavedOrder(t *testing.T) {
	tests := []struct {
		name     string
		saved    []string
		ids      []string
		expected []string
	}{
		{
			name:     "nothing saved",
			saved:    nil,
			ids:      []string{"a", "b", "c"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "saved order wins",
			saved:    []string{"c", "a", "b"},
			ids:      []string{"a", "b", "c"},
			expected: []string{"c", "a", "b"},
		},
		{
			name:     "unseen items appended",
			saved:    []string{"b", "a"},
			ids:      []string{"a", "b", "c", "d"},
			expected: []string{"b", "a", "c", "d"},
		},
		{
			name:     "stale ids dropped",
			saved:    []string{"x", "b", "y", "a"},
			ids:      []string{"a", "b"},
			expected: []string{"b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.saved != nil {
				require.NoError(t, store.SaveOrder(Key("s"), tt.saved))
			}
			board, err := NewBoard("s", store, listLayout, tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, board.Order())
		})
	}
}

type failingStore struct{}

func (failingStore) LoadOrder(string) ([]string, error) { return nil, fmt.Errorf("broken") }
func (failingStore) SaveOrder(string, []string) error   { return fmt.Errorf("broken") }

func TestNewBoard_StoreError(t *testing.T) {
	_, err := NewBoard("s", failingStore{}, listLayout, []string{"a"})
	assert.Error(t, err)
}

func TestBoard_DragLifecycle(t *testing.T) {
	board, err := NewBoard("s", NewMemoryStore(), listLayout, []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Error(t, board.DragStart("zzz"))

	require.NoError(t, board.DragStart("a"))
	id, ok := board.Dragging()
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	preview, ok := board.Preview()
	assert.True(t, ok)
	assert.Equal(t, Preview{ID: "a", X: 50, Y: 20}, preview)

	board.DragMove(5, 6)
	preview, _ = board.Preview()
	assert.Equal(t, 5.0, preview.X)
	assert.Equal(t, 6.0, preview.Y)

	// pointer right over the dragged card still targets a sibling
	target, ok := board.DragOver(50, 20)
	assert.True(t, ok)
	assert.Equal(t, "b", target)

	target, _ = board.DragOver(50, 118)
	assert.Equal(t, "c", target)

	require.NoError(t, board.DragEnd())
	_, ok = board.Dragging()
	assert.False(t, ok)
	_, ok = board.DropTarget()
	assert.False(t, ok)
	_, ok = board.Preview()
	assert.False(t, ok)
}

func TestBoard_DragOverWithoutDrag(t *testing.T) {
	board, err := NewBoard("s", nil, listLayout, []string{"a", "b"})
	require.NoError(t, err)

	_, ok := board.DragOver(10, 10)
	assert.False(t, ok)
	assert.NoError(t, board.Drop(10, 10))
	assert.Equal(t, []string{"a", "b"}, board.Order())
}

func TestBoard_Drop(t *testing.T) {
	tests := []struct {
		name     string
		layout   Layout
		ids      []string
		drag     string
		x, y     float64
		expected []string
	}{
		{
			name:     "above target center inserts before",
			layout:   listLayout,
			ids:      []string{"a", "b", "c", "d"},
			drag:     "d",
			x:        50,
			y:        65, // b center y = 70
			expected: []string{"a", "d", "b", "c"},
		},
		{
			name:     "below target center inserts after",
			layout:   listLayout,
			ids:      []string{"a", "b", "c", "d"},
			drag:     "a",
			x:        90,
			y:        125, // c center y = 120
			expected: []string{"b", "c", "a", "d"},
		},
		{
			name:     "tie band left of center inserts before",
			layout:   gridLayout,
			ids:      []string{"a", "b", "c", "d"},
			drag:     "a",
			x:        130, // b center x = 160
			y:        25,  // b center y = 20, inside band
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "tie band right of center inserts after",
			layout:   gridLayout,
			ids:      []string{"a", "b", "c", "d"},
			drag:     "d",
			x:        190,
			y:        25,
			expected: []string{"a", "b", "d", "c"},
		},
		{
			name:     "above center wins over horizontal position",
			layout:   gridLayout,
			ids:      []string{"a", "b", "c", "d"},
			drag:     "c",
			x:        150,
			y:        8,
			expected: []string{"a", "c", "b", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			board, err := NewBoard("s", store, tt.layout, tt.ids)
			require.NoError(t, err)

			require.NoError(t, board.DragStart(tt.drag))
			require.NoError(t, board.Drop(tt.x, tt.y))

			assert.Equal(t, tt.expected, board.Order())
			saved, err := store.LoadOrder(Key("s"))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, saved)
		})
	}
}

func TestBoard_DropPersistsOnlyOwnScope(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SaveOrder(Key("other"), []string{"z", "y", "x"}))

	board, err := NewBoard("mine", store, listLayout, []string{"a", "b", "c"})
	require.NoError(t, err)

	// drop c just above b's center
	require.NoError(t, board.Move("c", 50, 60))

	saved, err := store.LoadOrder(Key("mine"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, saved)

	other, err := store.LoadOrder(Key("other"))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x"}, other)
}

func TestBoard_SaveError(t *testing.T) {
	board := &Board{scope: "s", store: failingStore{}, layout: listLayout, items: []string{"a", "b"}}

	require.NoError(t, board.DragStart("b"))
	assert.Error(t, board.Drop(50, 5))
}
