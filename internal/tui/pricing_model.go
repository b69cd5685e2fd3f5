package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/pricelens/internal/logging"
	"github.com/rshade/pricelens/internal/pricing"
	listview "github.com/rshade/pricelens/internal/tui/list"
)

// Layout constants.
const (
	settingsPanelWidth = 34
	headerHeight       = 8
	footerHeight       = 3
	minListHeight      = 3
	stackedBreakpoint  = 80
	borderPadding      = 2
)

// ViewState is the lifecycle stage of the pricing view.
type ViewState int

const (
	// ViewStateLoading is shown until the pricing file has been read.
	ViewStateLoading ViewState = iota
	// ViewStateReady accepts user input.
	ViewStateReady
	// ViewStateQuitting renders nothing while the program exits.
	ViewStateQuitting
)

// PriceSource returns the text of a pricing resource.
type PriceSource interface {
	Load(ctx context.Context, path string) (string, error)
}

// PricesLoadedMsg carries the parsed records.
type PricesLoadedMsg struct {
	Records []pricing.PriceRecord
}

// PricesLoadFailedMsg reports a failed fetch or parse.
type PricesLoadFailedMsg struct {
	Err error
}

// LoadPricesCmd reads and parses the pricing file at path.
func LoadPricesCmd(ctx context.Context, src PriceSource, path string) tea.Cmd {
	return func() tea.Msg {
		text, err := src.Load(ctx, path)
		if err != nil {
			return PricesLoadFailedMsg{Err: err}
		}
		records, err := pricing.ParseCSV(text)
		if err != nil {
			return PricesLoadFailedMsg{Err: err}
		}
		return PricesLoadedMsg{Records: records}
	}
}

// PricingModel is the Bubble Tea model for the pricing dashboard.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type PricingModel struct {
	viewState ViewState
	state     pricing.State
	ctx       context.Context

	// Applied once, right after the records load.
	initial []pricing.Action

	load    tea.Cmd
	loadErr error

	list    *listview.Model[pricing.PriceRecord]
	loading *LoadingState
	help    help.Model
	keys    keyMap

	width     int
	height    int
	precision int
}

// Option configures a PricingModel.
type Option func(*PricingModel)

// WithInitialActions queues actions to apply once the records have loaded,
// e.g. a tier or display mode chosen on the command line.
func WithInitialActions(actions ...pricing.Action) Option {
	return func(m *PricingModel) { m.initial = append(m.initial, actions...) }
}

// WithPrecision sets the number of decimals shown for costs.
func WithPrecision(precision int) Option {
	return func(m *PricingModel) { m.precision = precision }
}

// NewPricingModel creates the dashboard. It starts empty and loads path from
// src when the program starts.
func NewPricingModel(ctx context.Context, src PriceSource, path string, opts ...Option) PricingModel {
	m := PricingModel{
		viewState: ViewStateLoading,
		state:     pricing.NewState(),
		ctx:       ctx,
		load:      LoadPricesCmd(ctx, src, path),
		loading:   NewLoadingState(),
		help:      help.New(),
		keys:      defaultKeyMap(),
		width:     defaultWidth,
		height:    defaultHeight,
		precision: 2, //nolint:mnd // Cents.
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.list = listview.New(m.state.Records, m.listHeight())
	return m
}

// Init starts the spinner and the load (Bubble Tea interface).
func (m PricingModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.load)
}

// State returns the current pricing state.
func (m PricingModel) State() pricing.State {
	return m.state
}

// LoadErr returns the load failure, if any.
func (m PricingModel) LoadErr() error {
	return m.loadErr
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m PricingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetHeight(m.listHeight())
		return m, nil
	case PricesLoadedMsg:
		return m.handleLoaded(msg), nil
	case PricesLoadFailedMsg:
		return m.handleLoadFailed(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.viewState == ViewStateLoading {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

func (m PricingModel) handleLoaded(msg PricesLoadedMsg) PricingModel {
	m.viewState = ViewStateReady
	m.loadErr = nil
	m.dispatch(pricing.Loaded{Records: msg.Records})
	for _, a := range m.initial {
		m.dispatch(a)
	}
	m.initial = nil
	m.list.SetItems(m.state.Records)

	logging.FromContext(m.ctx).Info().Ctx(m.ctx).
		Str("component", "tui").
		Int("records", len(msg.Records)).
		Msg("pricing data loaded")
	return m
}

func (m PricingModel) handleLoadFailed(msg PricesLoadFailedMsg) PricingModel {
	m.viewState = ViewStateReady
	m.loadErr = msg.Err

	logging.FromContext(m.ctx).Error().Ctx(m.ctx).
		Str("component", "tui").
		Err(msg.Err).
		Msg("error loading CSV data")
	return m
}

func (m PricingModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.viewState = ViewStateQuitting
		return m, tea.Quit
	}
	if m.viewState != ViewStateReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if rec, ok := m.list.Current(); ok {
			m.dispatch(pricing.Toggle{Name: rec.Name})
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.dispatch(pricing.SelectAll{})
	case key.Matches(msg, m.keys.DeselectAll):
		m.dispatch(pricing.DeselectAll{})
	case key.Matches(msg, m.keys.TierAll):
		m.dispatch(pricing.SetTier{Tier: pricing.TierAll})
	case key.Matches(msg, m.keys.TierLow):
		m.dispatch(pricing.SetTier{Tier: pricing.TierLow})
	case key.Matches(msg, m.keys.TierMid):
		m.dispatch(pricing.SetTier{Tier: pricing.TierMid})
	case key.Matches(msg, m.keys.TierHigh):
		m.dispatch(pricing.SetTier{Tier: pricing.TierHigh})
	case key.Matches(msg, m.keys.NextTier):
		m.dispatch(pricing.SetTier{Tier: m.state.Tier.Next()})
	case key.Matches(msg, m.keys.ModeBoth):
		m.dispatch(pricing.SetDisplayMode{Mode: pricing.DisplayBoth})
	case key.Matches(msg, m.keys.ModeInput):
		m.dispatch(pricing.SetDisplayMode{Mode: pricing.DisplayInput})
	case key.Matches(msg, m.keys.ModeOutput):
		m.dispatch(pricing.SetDisplayMode{Mode: pricing.DisplayOutput})
	case key.Matches(msg, m.keys.NextMode):
		m.dispatch(pricing.SetDisplayMode{Mode: m.state.Mode.Next()})
	default:
		return m, m.list.Update(msg)
	}
	return m, nil
}

// dispatch runs an action through the reducer.
func (m *PricingModel) dispatch(a pricing.Action) {
	m.state = pricing.Reduce(m.state, a)
}

func (m PricingModel) listHeight() int {
	h := m.height - headerHeight - footerHeight
	if m.width < stackedBreakpoint {
		// Stacked layout: the chart takes the top half.
		h /= 2
	}
	return max(h, minListHeight)
}
