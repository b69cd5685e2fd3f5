package pricing

// State is the full dashboard state. A State is never modified after it is
// built; Reduce returns a new one for every action.
type State struct {
	Records   []PriceRecord
	Selection Selection
	Tier      Tier
	Mode      DisplayMode
}

// ChartPoint is one category of the bar chart.
type ChartPoint struct {
	Name   string
	Input  float64
	Output float64
}

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// Loaded replaces the record list and selects every record.
type Loaded struct{ Records []PriceRecord }

// Toggle flips the membership of one name.
type Toggle struct{ Name string }

// Deselect removes one name from the selection; it never adds.
type Deselect struct{ Name string }

// SelectAll selects every record.
type SelectAll struct{}

// DeselectAll clears the selection.
type DeselectAll struct{}

// SetTier replaces the selection with the records in a tier.
type SetTier struct{ Tier Tier }

// SetDisplayMode changes which series are plotted.
type SetDisplayMode struct{ Mode DisplayMode }

func (Loaded) isAction()         {}
func (Toggle) isAction()         {}
func (Deselect) isAction()       {}
func (SelectAll) isAction()      {}
func (DeselectAll) isAction()    {}
func (SetTier) isAction()        {}
func (SetDisplayMode) isAction() {}

// NewState returns the state shown before any data has loaded.
func NewState() State {
	return State{
		Records:   []PriceRecord{},
		Selection: NewSelection(),
		Tier:      TierAll,
		Mode:      DisplayBoth,
	}
}

// Reduce applies an action to s and returns the resulting state.
//
// SetTier overwrites the selection with exactly the tier's members; earlier
// manual toggles are discarded. Unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case Loaded:
		records := make([]PriceRecord, len(act.Records))
		copy(records, act.Records)
		s.Records = records
		s.Selection = NewSelection(Names(records)...)
	case Toggle:
		s.Selection = s.Selection.Toggle(act.Name)
	case Deselect:
		s.Selection = s.Selection.Without(act.Name)
	case SelectAll:
		s.Selection = NewSelection(Names(s.Records)...)
	case DeselectAll:
		s.Selection = NewSelection()
	case SetTier:
		s.Tier = act.Tier
		s.Selection = NewSelection(NamesInTier(s.Records, act.Tier)...)
	case SetDisplayMode:
		s.Mode = act.Mode
	}
	return s
}

// Derive returns the chart dataset: one point per selected record, in source
// order, with costs converted to numbers.
func Derive(s State) []ChartPoint {
	points := []ChartPoint{}
	for _, r := range s.Records {
		if !s.Selection.Has(r.Name) {
			continue
		}
		points = append(points, ChartPoint{
			Name:   r.Name,
			Input:  r.Input(),
			Output: r.Output(),
		})
	}
	return points
}

// SelectedCount returns how many records are currently selected.
func (s State) SelectedCount() int {
	n := 0
	for _, r := range s.Records {
		if s.Selection.Has(r.Name) {
			n++
		}
	}
	return n
}
