package ui

// base_model.go provides common helpers for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// InitTable creates and configures a table with proper styling and dimensions.
//
// Example:
//
//	columns := CalculateColumns(ServiceColumns(), layout.TableWidth)
//	t := InitTable(columns, ServiceRows(services), layout)
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)

	ApplyTableStyles(&t)
	t.GotoTop()

	return t
}

// StandardInit returns the standard Init command: ask for the window size.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeysNoEsc returns true and Quit cmd for q/ctrl+c keys (not esc).
// Use when esc has special meaning (e.g., cancel input mode).
func HandleQuitKeysNoEsc(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}
