package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultBufferSize is the number of extra rows rendered above and below the viewport.
const defaultBufferSize = 2

// halfViewportDivisor is used to centre the cursor in the viewport.
const halfViewportDivisor = 2

// RenderFunc renders one item. cursor is true for the row under the cursor.
type RenderFunc[T any] func(item T, cursor bool) string

// Model is a scrolling list with a cursor.
type Model[T any] struct {
	items       []T
	cursor      int
	visibleFrom int
	visibleTo   int
	height      int
	bufferSize  int
}

// New creates a list showing height rows at a time.
func New[T any](items []T, height int) *Model[T] {
	m := &Model[T]{
		items:      items,
		height:     max(height, 1),
		bufferSize: defaultBufferSize,
	}
	m.updateVisibleRange()
	return m
}

// SetItems replaces the items, keeping the cursor in bounds.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetCursor(m.cursor)
}

// SetHeight changes the viewport height.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 1)
	m.updateVisibleRange()
}

// Update moves the cursor in response to navigation keys. Other messages are ignored.
func (m *Model[T]) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.SetCursor(m.cursor - 1)
	case "down", "j":
		m.SetCursor(m.cursor + 1)
	case "pgup":
		m.SetCursor(m.cursor - m.height)
	case "pgdown":
		m.SetCursor(m.cursor + m.height)
	case "home", "g":
		m.SetCursor(0)
	case "end", "G":
		m.SetCursor(len(m.items) - 1)
	}
	return nil
}

// SetCursor moves the cursor, clamping to valid bounds.
func (m *Model[T]) SetCursor(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.cursor = 0
	case index >= len(m.items):
		m.cursor = len(m.items) - 1
	default:
		m.cursor = index
	}
	m.updateVisibleRange()
}

// updateVisibleRange keeps the cursor inside [visibleFrom, visibleTo).
func (m *Model[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}

	from := m.cursor - m.height/halfViewportDivisor
	from = max(0, min(from, len(m.items)-m.height))
	m.visibleFrom = from
	m.visibleTo = min(from+m.height, len(m.items))
}

// View renders the visible rows with render.
func (m *Model[T]) View(render RenderFunc[T]) string {
	if len(m.items) == 0 {
		return ""
	}

	rows := make([]string, 0, m.visibleTo-m.visibleFrom)
	for i := m.visibleFrom; i < m.visibleTo; i++ {
		rows = append(rows, render(m.items[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Cursor returns the cursor index.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// VisibleFrom returns the first visible index (inclusive).
func (m *Model[T]) VisibleFrom() int {
	return m.visibleFrom
}

// VisibleTo returns the last visible index (exclusive).
func (m *Model[T]) VisibleTo() int {
	return m.visibleTo
}

// Current returns the item under the cursor, or false when the list is empty.
func (m *Model[T]) Current() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}
