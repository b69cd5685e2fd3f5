// Package listview provides a cursor-driven virtual list for Bubble Tea views.
//
// Only the rows inside the viewport (plus a small buffer) are rendered, so the
// cost of View does not grow with the number of items. Rendering is supplied at
// view time, which lets callers draw rows from state that changes between
// frames, such as checkbox membership.
package listview
