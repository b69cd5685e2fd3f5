package pricing

// Selection is an immutable set of model names. The zero value is empty and
// ready to use. Names absent from the record list are allowed and simply have
// no visible effect.
type Selection struct {
	names map[string]struct{}
}

// NewSelection returns a selection holding the given names.
func NewSelection(names ...string) Selection {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return Selection{names: set}
}

// Has reports whether name is selected.
func (s Selection) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of selected names.
func (s Selection) Len() int {
	return len(s.names)
}

// With returns a copy of s that also contains name.
func (s Selection) With(name string) Selection {
	next := s.clone()
	next.names[name] = struct{}{}
	return next
}

// Without returns a copy of s that does not contain name.
func (s Selection) Without(name string) Selection {
	next := s.clone()
	delete(next.names, name)
	return next
}

// Toggle returns a copy of s with name's membership flipped.
func (s Selection) Toggle(name string) Selection {
	if s.Has(name) {
		return s.Without(name)
	}
	return s.With(name)
}

// Names returns the selected names that appear in order, keeping that order.
func (s Selection) Names(order []string) []string {
	out := []string{}
	for _, n := range order {
		if s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s Selection) clone() Selection {
	set := make(map[string]struct{}, len(s.names)+1)
	for n := range s.names {
		set[n] = struct{}{}
	}
	return Selection{names: set}
}
