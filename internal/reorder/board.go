// Package reorder keeps a user-defined ordering of cards inside a container
// and resolves drag-and-drop gestures against the cards' geometry.
package reorder

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// StorageKey is the prefix of every persisted ordering
const StorageKey = "vocabulary.words.cards.order.v1"

// tieBreak is the vertical band around a target's center where the
// horizontal position decides between before and after
const tieBreak = 12.0

// Store persists item orderings by key
type Store interface {
	LoadOrder(key string) ([]string, error)
	SaveOrder(key string, ids []string) error
}

// Rect is an axis-aligned box in container coordinates
type Rect struct {
	Left, Top, Width, Height float64
}

// Center returns the middle point of the box
func (r Rect) Center() (float64, float64) {
	return r.Left + r.Width/2, r.Top + r.Height/2
}

// Layout maps a position in the container to the box of the card there
type Layout func(index int) Rect

// GridLayout places cards row by row in fixed-size cells
func GridLayout(columns int, cellWidth, cellHeight, gap float64) Layout {
	if columns < 1 {
		columns = 1
	}
	return func(index int) Rect {
		col := index % columns
		row := index / columns
		return Rect{
			Left:   float64(col) * (cellWidth + gap),
			Top:    float64(row) * (cellHeight + gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
}

// Preview is the floating copy of the dragged card that follows the pointer
type Preview struct {
	ID   string
	X, Y float64
}

// Board holds the order of the cards of one container scope
type Board struct {
	scope  string
	store  Store
	layout Layout
	items  []string

	dragging   string
	dropTarget string
	preview    *Preview
}

// Key returns the storage key of scope
func Key(scope string) string {
	if scope == "" {
		return StorageKey
	}
	return StorageKey + ":" + scope
}

// NewBoard builds a board for ids, rearranged by the ordering saved for
// scope. Saved ids that are no longer present are dropped; ids that were
// never saved keep their relative order at the end.
func NewBoard(scope string, store Store, layout Layout, ids []string) (*Board, error) {
	if layout == nil {
		layout = GridLayout(1, 1, 1, 0)
	}
	b := &Board{
		scope:  scope,
		store:  store,
		layout: layout,
		items:  lo.Uniq(ids),
	}
	if store == nil {
		return b, nil
	}
	saved, err := store.LoadOrder(Key(scope))
	if err != nil {
		return nil, fmt.Errorf("load order %q: %w", scope, err)
	}
	b.items = applyOrder(b.items, saved)
	return b, nil
}

func applyOrder(items, saved []string) []string {
	if len(saved) == 0 {
		return items
	}
	present := lo.SliceToMap(items, func(id string) (string, bool) { return id, true })
	ordered := make([]string, 0, len(items))
	placed := make(map[string]bool, len(items))
	for _, id := range saved {
		if present[id] && !placed[id] {
			ordered = append(ordered, id)
			placed[id] = true
		}
	}
	for _, id := range items {
		if !placed[id] {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

// Scope returns the container scope of the board
func (b *Board) Scope() string {
	return b.scope
}

// Order returns the current item ids in display order
func (b *Board) Order() []string {
	return append([]string(nil), b.items...)
}

// Rect returns the box currently occupied by id
func (b *Board) Rect(id string) (Rect, bool) {
	i := lo.IndexOf(b.items, id)
	if i < 0 {
		return Rect{}, false
	}
	return b.layout(i), true
}

// Dragging returns the id being dragged
func (b *Board) Dragging() (string, bool) {
	return b.dragging, b.dragging != ""
}

// DropTarget returns the id currently marked as drop target
func (b *Board) DropTarget() (string, bool) {
	return b.dropTarget, b.dropTarget != ""
}

// Preview returns the floating preview while a drag is active
func (b *Board) Preview() (Preview, bool) {
	if b.preview == nil {
		return Preview{}, false
	}
	return *b.preview, true
}

// DragStart marks id as dragged and spawns a preview at its center
func (b *Board) DragStart(id string) error {
	r, ok := b.Rect(id)
	if !ok {
		return fmt.Errorf("drag %q: unknown item", id)
	}
	x, y := r.Center()
	b.dragging = id
	b.dropTarget = ""
	b.preview = &Preview{ID: id, X: x, Y: y}
	return nil
}

// DragMove moves the preview with the pointer
func (b *Board) DragMove(x, y float64) {
	if b.preview == nil {
		return
	}
	b.preview.X = x
	b.preview.Y = y
}

// DragOver marks the card nearest to the pointer as drop target
func (b *Board) DragOver(x, y float64) (string, bool) {
	if b.dragging == "" {
		return "", false
	}
	b.DragMove(x, y)
	b.dropTarget = b.nearest(x, y)
	return b.DropTarget()
}

func (b *Board) nearest(x, y float64) string {
	best := ""
	bestDist := math.Inf(1)
	for i, id := range b.items {
		if id == b.dragging {
			continue
		}
		cx, cy := b.layout(i).Center()
		dx, dy := x-cx, y-cy
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best
}

// Drop moves the dragged card next to the card nearest to the pointer and
// persists the new order. The card goes before the target when the pointer
// is above the target's center, or within the tie-break band and left of it.
func (b *Board) Drop(x, y float64) error {
	if b.dragging == "" {
		return nil
	}
	dragged := b.dragging
	target := b.nearest(x, y)
	b.dropTarget = ""
	if target == "" || target == dragged {
		return nil
	}

	r, _ := b.Rect(target)
	cx, cy := r.Center()
	before := y < cy || (math.Abs(y-cy) < tieBreak && x < cx)

	items := lo.Without(b.items, dragged)
	at := lo.IndexOf(items, target)
	if !before {
		at++
	}
	b.items = append(items[:at], append([]string{dragged}, items[at:]...)...)

	return b.save()
}

// DragEnd clears the drag state and persists the order
func (b *Board) DragEnd() error {
	b.dragging = ""
	b.dropTarget = ""
	b.preview = nil
	return b.save()
}

// Move drags id onto the point (x, y) and releases it there
func (b *Board) Move(id string, x, y float64) error {
	if err := b.DragStart(id); err != nil {
		return err
	}
	b.DragOver(x, y)
	if err := b.Drop(x, y); err != nil {
		return err
	}
	return b.DragEnd()
}

func (b *Board) save() error {
	if b.store == nil {
		return nil
	}
	if err := b.store.SaveOrder(Key(b.scope), b.Order()); err != nil {
		return fmt.Errorf("save order %q: %w", b.scope, err)
	}
	return nil
}
