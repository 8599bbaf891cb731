package tui

import (
	"strings"
)

// renderPerformance renders the performance tab: change of the total versus
// the baseline snapshot.
func (m Model) renderPerformance() string {
	var out strings.Builder
	out.WriteString(TitleStyle.Render("Performance"))
	out.WriteString("\n\n")

	if !m.quotesReady {
		out.WriteString(LabelStyle.Render("Resolving quotes..."))
		return out.String()
	}

	perf := m.snap.Performance
	if !perf.HasBaseline {
		out.WriteString(LabelStyle.Render("No baseline yet"))
		return out.String()
	}

	style := GreenStyle
	if perf.Delta.IsNegative() {
		style = RedStyle
	}

	out.WriteString(LabelStyle.Render("Total: "))
	out.WriteString(ValueStyle.Render(formatMoney(m.snap.Total)))
	out.WriteString("\n")
	out.WriteString(LabelStyle.Render("Change: "))
	out.WriteString(style.Render(formatSignedMoney(perf.Delta)))
	out.WriteString("  ")
	out.WriteString(style.Render(formatSignedPercent(perf.Percent)))
	if m.baseline != nil {
		out.WriteString("\n")
		out.WriteString(LabelStyle.Render("Baseline: "))
		out.WriteString(ValueStyle.Render(formatMoney(m.baseline.Total)))
		out.WriteString(LabelStyle.Render("  (" + m.baseline.AsOf.Format("2006-01-02") + ")"))
	}

	return out.String()
}
