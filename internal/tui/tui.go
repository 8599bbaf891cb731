// Package tui implements the interactive portfolio session: tab navigation,
// row selection, in-place amount editing, quote refresh, and write-back of
// committed edits to the position file.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"folio/internal/position"
	"folio/internal/quote"
	"folio/internal/valuation"
)

// Tab identifies one of the session's views.
type Tab int

const (
	TabOverview Tab = iota
	TabBalances
	TabPerformance
)

var allTabs = []Tab{TabOverview, TabBalances, TabPerformance}

// Title returns the display name of the tab.
func (t Tab) Title() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabBalances:
		return "Balances"
	case TabPerformance:
		return "Performance"
	}
	return "Unknown"
}

func (t Tab) next() Tab {
	return allTabs[(int(t)+1)%len(allTabs)]
}

func (t Tab) prev() Tab {
	return allTabs[(int(t)+len(allTabs)-1)%len(allTabs)]
}

// ParseTab parses a tab name as given on the command line.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overview":
		return TabOverview, nil
	case "balances":
		return TabBalances, nil
	case "performance":
		return TabPerformance, nil
	}
	return TabOverview, fmt.Errorf("unknown tab %q (want overview, balances, or performance)", s)
}

// Component tags that can be hidden via configuration. A hidden component is
// omitted from the rendered tree entirely, not just styled invisible.
const (
	ComponentHeader     = "header"
	ComponentFooter     = "footer"
	ComponentTotal      = "total"
	ComponentAllocation = "allocation"
	ComponentWarnings   = "warnings"
	ComponentHelp       = "help"
)

// KnownComponents lists every hidable component tag.
var KnownComponents = []string{
	ComponentHeader,
	ComponentFooter,
	ComponentTotal,
	ComponentAllocation,
	ComponentWarnings,
	ComponentHelp,
}

// Options is the session's launch configuration, assembled by the CLI layer.
type Options struct {
	InitialTab Tab
	// Hidden lists component tags to omit from rendering.
	Hidden []string
	// RefreshInterval between automatic quote re-resolutions; 0 disables.
	RefreshInterval time.Duration
	// Baseline for performance deltas; nil falls back to the first
	// valuation of this session.
	Baseline *valuation.Baseline
	// WriteBack persists the serialized position file; nil disables saving.
	WriteBack func(data []byte) error
	// RecordTotal stores the session's final total for future baselines;
	// nil disables recording.
	RecordTotal func(total decimal.Decimal) error
}

// Model is the main bubbletea model for the session.
type Model struct {
	store    *position.Store
	resolver *quote.Resolver
	opts     Options
	hidden   map[string]bool

	tab    Tab
	width  int
	height int
	ready  bool

	// Latest published quote round and the valuation derived from it.
	quotes      map[string]quote.Quote
	warnings    []string
	quotesReady bool
	baseline    *valuation.Baseline
	snap        valuation.Snapshot

	// Balances view
	balances *BalancesModel

	saveErr string
	exitErr error
}

// New creates a session model over a loaded position store.
func New(store *position.Store, resolver *quote.Resolver, opts Options) Model {
	hidden := make(map[string]bool, len(opts.Hidden))
	for _, tag := range opts.Hidden {
		hidden[tag] = true
	}

	m := Model{
		store:    store,
		resolver: resolver,
		opts:     opts,
		hidden:   hidden,
		tab:      opts.InitialTab,
		baseline: opts.Baseline,
		balances: NewBalancesModel(),
	}
	// Cash-only portfolios need no quote round.
	if len(store.Symbols()) == 0 {
		m.quotesReady = true
	}
	m.recompute()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.resolveCmd()}
	if m.opts.RefreshInterval > 0 {
		cmds = append(cmds, m.tickCmd())
	}
	return tea.Batch(cmds...)
}

// ExitError reports a failure that occurred while flushing state at quit.
// The CLI surfaces it after the program exits.
func (m Model) ExitError() error {
	return m.exitErr
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// resolveCmd returns a command that resolves quotes for all store symbols in
// the background and publishes one complete round.
func (m Model) resolveCmd() tea.Cmd {
	symbols := m.store.Symbols()
	if m.resolver == nil || len(symbols) == 0 {
		return nil
	}
	resolver := m.resolver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		quotes, warnings := resolver.Resolve(ctx, symbols)
		return QuotesResolvedMsg{Quotes: quotes, Warnings: warnings}
	}
}

// saveCmd serializes the store on the UI thread and writes the bytes in the
// background, so a later edit cannot race the encoder.
func (m *Model) saveCmd() tea.Cmd {
	if m.opts.WriteBack == nil {
		return nil
	}
	data, err := m.store.Serialize()
	if err != nil {
		return func() tea.Msg { return SaveErrorMsg{Err: err} }
	}
	write := m.opts.WriteBack
	return func() tea.Msg {
		if err := write(data); err != nil {
			return SaveErrorMsg{Err: err}
		}
		return SavedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		headerHeight := 1
		footerHeight := 1
		tableHeight := m.height - headerHeight - footerHeight - 8
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.balances.SetHeight(tableHeight)

	case QuotesResolvedMsg:
		m.quotes = msg.Quotes
		m.warnings = msg.Warnings
		m.quotesReady = true
		m.recompute()
		if m.baseline == nil {
			// First complete valuation of the run becomes the baseline
			// when no stored one was provided.
			m.baseline = &valuation.Baseline{Total: m.snap.Total, AsOf: time.Now()}
			m.recompute()
		}

	case SavedMsg:
		m.saveErr = ""
		m.store.ClearDirty()

	case SaveErrorMsg:
		m.saveErr = msg.Err.Error()

	case TickMsg:
		cmds := []tea.Cmd{m.tickCmd()}
		if !m.balances.Editing() {
			cmds = append(cmds, m.resolveCmd())
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// updateKey routes key events through the session state machine.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Edit mode consumes every key except the tab switches, which cancel
	// the edit without saving.
	if m.balances.Editing() {
		switch msg.String() {
		case "tab", "right":
			m.balances.CancelEdit()
			m.setTab(m.tab.next())
			return m, nil
		case "shift+tab", "left":
			m.balances.CancelEdit()
			m.setTab(m.tab.prev())
			return m, nil
		case "enter":
			cmd, committed := m.balances.CommitEdit(m.store)
			if committed {
				// Amount edits leave prices untouched, so recompute
				// without a new quote round.
				m.recompute()
				return m, tea.Batch(cmd, m.saveCmd())
			}
			return m, cmd
		case "esc":
			m.balances.CancelEdit()
			return m, nil
		default:
			return m, m.balances.UpdateEditInput(msg)
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.flush()
		return m, tea.Quit
	case "tab", "right":
		m.setTab(m.tab.next())
	case "shift+tab", "left":
		m.setTab(m.tab.prev())
	case "1":
		m.setTab(TabOverview)
	case "2":
		m.setTab(TabBalances)
	case "3":
		m.setTab(TabPerformance)
	case "r":
		return m, m.resolveCmd()
	case "enter":
		if m.tab == TabBalances {
			return m, m.balances.BeginEdit()
		}
	default:
		if m.tab == TabBalances {
			return m, m.balances.UpdateTable(msg)
		}
	}
	return m, nil
}

func (m *Model) setTab(t Tab) {
	m.tab = t
}

// recompute re-derives the valuation snapshot from the store and the latest
// published quote round, and refreshes the balances table.
func (m *Model) recompute() {
	m.snap = valuation.Compute(m.store.Positions(), m.quotes, m.baseline)
	m.balances.SetSnapshot(m.snap, m.quotesReady)
}

// flush writes a dirty store back to disk and records the session total for
// future performance baselines. Failures are kept for the CLI layer to
// report; they never abort the quit.
func (m *Model) flush() {
	if m.store.Dirty() && m.opts.WriteBack != nil {
		data, err := m.store.Serialize()
		if err == nil {
			err = m.opts.WriteBack(data)
		}
		if err != nil {
			m.exitErr = fmt.Errorf("failed to save portfolio: %w", err)
		} else {
			m.store.ClearDirty()
		}
	}
	if m.opts.RecordTotal != nil && m.quotesReady {
		if err := m.opts.RecordTotal(m.snap.Total); err != nil && m.exitErr == nil {
			m.exitErr = fmt.Errorf("failed to record snapshot: %w", err)
		}
	}
}

// View implements tea.Model. Rendering is a pure projection of session state:
// it never mutates the store, the quotes, or the snapshot.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var header, footer string
	if !m.hidden[ComponentHeader] {
		header = m.renderHeader()
	}
	if !m.hidden[ComponentFooter] {
		footer = m.renderFooter()
	}
	content := m.renderContent()

	contentHeight := m.height
	if header != "" {
		contentHeight -= lipgloss.Height(header)
	}
	if footer != "" {
		contentHeight -= lipgloss.Height(footer)
	}

	// Pad content so the footer stays pinned to the bottom.
	contentLines := strings.Split(content, "\n")
	for len(contentLines) < contentHeight {
		contentLines = append(contentLines, "")
	}
	if contentHeight > 0 && len(contentLines) > contentHeight {
		contentLines = contentLines[:contentHeight]
	}
	content = strings.Join(contentLines, "\n")

	var parts []string
	if header != "" {
		parts = append(parts, header)
	}
	parts = append(parts, content)
	if footer != "" {
		parts = append(parts, footer)
	}
	return strings.Join(parts, "\n")
}

// renderHeader renders the title and tab bar.
func (m Model) renderHeader() string {
	title := HeaderStyle.Render("folio")

	var tabStrs []string
	for i, t := range allTabs {
		style := lipgloss.NewStyle().Padding(0, 1)
		if t == m.tab {
			style = style.Bold(true).Foreground(ColorPrimary)
		} else {
			style = style.Foreground(ColorMuted)
		}
		tabStrs = append(tabStrs, style.Render(fmt.Sprintf("[%d] %s", i+1, t.Title())))
	}

	headerContent := title + "  " + strings.Join(tabStrs, " ")

	padding := m.width - lipgloss.Width(headerContent)
	if padding > 0 {
		headerContent += strings.Repeat(" ", padding)
	}

	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(headerContent)
}

// renderContent renders the active tab's body.
func (m Model) renderContent() string {
	var content string
	switch m.tab {
	case TabOverview:
		content = m.renderOverview()
	case TabBalances:
		content = m.balances.View()
	case TabPerformance:
		content = m.renderPerformance()
	}
	return ContentStyle.Render(content)
}

// renderFooter renders key hints plus any pending save warning.
func (m Model) renderFooter() string {
	var keys []struct{ key, desc string }

	if m.balances.Editing() {
		keys = []struct{ key, desc string }{
			{"enter", "save"},
			{"esc", "cancel"},
		}
	} else {
		keys = append(keys, struct{ key, desc string }{"1-3", "switch tab"})
		if m.tab == TabBalances {
			keys = append(keys, struct{ key, desc string }{"↑/↓", "navigate"})
			keys = append(keys, struct{ key, desc string }{"enter", "edit"})
		}
		keys = append(keys, struct{ key, desc string }{"r", "refresh"})
		keys = append(keys, struct{ key, desc string }{"q", "quit"})
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, KeyStyle.Render(k.key)+" "+DescStyle.Render(k.desc))
	}
	footerContent := strings.Join(parts, "  •  ")

	if m.saveErr != "" {
		footerContent += "  " + WarningStyle.Render("! save failed: "+m.saveErr)
	}

	padding := m.width - lipgloss.Width(footerContent)
	if padding > 0 {
		footerContent += strings.Repeat(" ", padding)
	}

	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(footerContent)
}

// compile-time check
var _ tea.Model = Model{}
