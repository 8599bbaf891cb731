package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/position"
	"folio/internal/valuation"
)

// BalancesModel holds the state for the balances tab: the position table and
// the in-place amount editor.
type BalancesModel struct {
	Table       table.Model
	snap        valuation.Snapshot
	quotesReady bool

	editing bool
	// editName pins the edited position by identity, so a re-sorted or
	// refreshed table cannot redirect the commit.
	editName      string
	Input         textinput.Model
	ValidationErr string
}

// NewBalancesModel creates the balances tab model.
func NewBalancesModel() *BalancesModel {
	cols := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Class", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Price", Width: 12},
		{Title: "Balance", Width: 14},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	ti := textinput.New()
	ti.Placeholder = "0.00"
	ti.CharLimit = 24
	ti.Width = 20

	return &BalancesModel{
		Table: t,
		Input: ti,
	}
}

// SetHeight sets the table height.
func (b *BalancesModel) SetHeight(height int) {
	b.Table.SetHeight(height)
}

// Editing reports whether an amount edit is in progress.
func (b *BalancesModel) Editing() bool {
	return b.editing
}

// EditName returns the name of the position being edited, if any.
func (b *BalancesModel) EditName() string {
	return b.editName
}

// SetSnapshot replaces the rendered valuation and rebuilds the table rows.
func (b *BalancesModel) SetSnapshot(snap valuation.Snapshot, quotesReady bool) {
	b.snap = snap
	b.quotesReady = quotesReady

	rows := make([]table.Row, 0, len(snap.Balances))
	for _, bal := range snap.Balances {
		price, balance := "—", "—"
		if !bal.Unknown {
			price = formatMoney(bal.Price)
			if bal.Stale {
				price += "*"
			}
			balance = formatMoney(bal.Balance)
		}
		rows = append(rows, table.Row{
			bal.Name,
			bal.AssetClass,
			bal.Amount.StringFixed(2),
			price,
			balance,
		})
	}
	b.Table.SetRows(rows)
}

// BeginEdit starts editing the selected position's amount, seeding the input
// with its current value. No-op when the table is empty.
func (b *BalancesModel) BeginEdit() tea.Cmd {
	idx := b.Table.Cursor()
	if idx < 0 || idx >= len(b.snap.Balances) {
		return nil
	}
	bal := b.snap.Balances[idx]

	b.editing = true
	b.editName = bal.Name
	b.ValidationErr = ""
	b.Input.SetValue(bal.Amount.String())
	b.Input.CursorEnd()
	b.Input.Focus()
	return textinput.Blink
}

// CancelEdit discards the buffer without mutating the store.
func (b *BalancesModel) CancelEdit() {
	b.editing = false
	b.editName = ""
	b.ValidationErr = ""
	b.Input.Blur()
	b.Input.Reset()
}

// CommitEdit applies the buffered amount to the store. An invalid amount
// keeps the edit open with an inline error and leaves the store unchanged.
// Returns whether the edit was committed.
func (b *BalancesModel) CommitEdit(store *position.Store) (tea.Cmd, bool) {
	if !b.editing {
		return nil, false
	}
	if err := store.ApplyEdit(b.editName, b.Input.Value()); err != nil {
		b.ValidationErr = err.Error()
		return nil, false
	}
	b.CancelEdit()
	return nil, true
}

// UpdateEditInput forwards a key to the edit buffer and live-validates it.
// Validation errors never block further typing.
func (b *BalancesModel) UpdateEditInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.Input, cmd = b.Input.Update(msg)
	if _, err := position.ParseAmount(b.Input.Value()); err != nil {
		b.ValidationErr = err.Error()
	} else {
		b.ValidationErr = ""
	}
	return cmd
}

// UpdateTable forwards navigation keys to the table, which clamps the cursor
// to the row range.
func (b *BalancesModel) UpdateTable(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.Table, cmd = b.Table.Update(msg)
	return cmd
}

// View renders the balances tab.
func (b *BalancesModel) View() string {
	var out strings.Builder

	out.WriteString(TitleStyle.Render("Balances"))
	out.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d positions)", len(b.snap.Balances))))
	out.WriteString("\n")

	if len(b.snap.Balances) == 0 {
		out.WriteString(LabelStyle.Render("No positions"))
		return out.String()
	}

	out.WriteString(b.Table.View())
	out.WriteString("\n")
	out.WriteString(LabelStyle.Render("Total: "))
	out.WriteString(ValueStyle.Render(formatMoney(b.snap.Total)))
	if b.hasUnknown() {
		out.WriteString(LabelStyle.Render("  (excludes unresolved positions)"))
	}
	if b.hasStale() {
		out.WriteString("\n")
		out.WriteString(StaleStyle.Render("* cached price"))
	}

	if b.editing {
		out.WriteString("\n\n")
		out.WriteString(TitleStyle.Render(fmt.Sprintf("Edit %s amount", b.editName)))
		out.WriteString("\n")
		out.WriteString(InputStyle.Render(b.Input.View()))
		out.WriteString("\n")
		if b.ValidationErr != "" {
			out.WriteString(ErrorStyle.Render(b.ValidationErr))
		} else {
			out.WriteString(LabelStyle.Render("Press Enter to save, Esc to cancel"))
		}
	}

	return out.String()
}

func (b *BalancesModel) hasUnknown() bool {
	for _, bal := range b.snap.Balances {
		if bal.Unknown {
			return true
		}
	}
	return false
}

func (b *BalancesModel) hasStale() bool {
	for _, bal := range b.snap.Balances {
		if bal.Stale {
			return true
		}
	}
	return false
}
