// Package pricing holds the model pricing records and the selection state that
// drives the chart.
//
// Records are parsed from a three-column CSV (name, input cost, output cost)
// and kept in source order. Costs stay as text until display time, where
// ParseCost strips the currency symbol and converts the remainder to a float.
//
// All UI state lives in State, which is never mutated in place: Reduce takes a
// State and an Action and returns the next State. Derive turns a State into the
// ordered dataset handed to a chart renderer.
package pricing
