package tui

import (
	"fmt"
	"strings"
)

// barWidth is the maximum width of an allocation bar.
const barWidth = 30

// renderOverview renders the overview tab: headline total, allocation bars,
// quote warnings, and a help line. Hidden components are omitted from the
// layout entirely.
func (m Model) renderOverview() string {
	var sections []string

	if !m.hidden[ComponentTotal] {
		sections = append(sections, m.renderTotalPanel())
	}
	if !m.hidden[ComponentAllocation] {
		sections = append(sections, m.renderAllocation())
	}
	if !m.hidden[ComponentWarnings] && len(m.warnings) > 0 {
		sections = append(sections, m.renderWarnings())
	}
	if !m.hidden[ComponentHelp] {
		help := LabelStyle.Render("Tab/1-3 switch tabs · Enter edit (Balances) · r refresh · q quit")
		sections = append(sections, help)
	}

	return strings.Join(sections, "\n\n")
}

func (m Model) renderTotalPanel() string {
	if !m.quotesReady {
		return TotalPanelStyle.Render("Resolving quotes...")
	}
	total := TotalValueStyle.Render(formatMoney(m.snap.Total))
	label := LabelStyle.Render("Total Portfolio Value")
	return TotalPanelStyle.Render(label + "\n" + total)
}

func (m Model) renderAllocation() string {
	var out strings.Builder
	out.WriteString(TitleStyle.Render("Allocation"))
	out.WriteString("\n")

	if !m.quotesReady {
		out.WriteString(LabelStyle.Render("Resolving quotes..."))
		return out.String()
	}
	if len(m.snap.Allocation) == 0 || m.snap.Total.IsZero() {
		out.WriteString(LabelStyle.Render("Nothing to allocate"))
		return out.String()
	}

	for _, a := range m.snap.Allocation {
		bar := allocationBar(a.Percent.InexactFloat64())
		out.WriteString(fmt.Sprintf("%-14s %s %7s\n",
			a.Class,
			BarStyle.Render(bar),
			formatPercent(a.Percent),
		))
	}
	return strings.TrimRight(out.String(), "\n")
}

func (m Model) renderWarnings() string {
	var out strings.Builder
	for i, w := range m.warnings {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(WarningStyle.Render("! " + w))
	}
	return out.String()
}

// allocationBar renders a percentage as a fixed-scale block bar.
func allocationBar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * barWidth)
	if filled == 0 && percent > 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
