package ui

// spinner.go provides a blocking spinner for long-running CLI operations.

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// actionDoneMsg signals the action completed
type actionDoneMsg struct{}

// blockingSpinnerModel runs a spinner while an action executes
type blockingSpinnerModel struct {
	spinner   spinner.Model
	title     string
	action    func()
	done      bool
	cancelled bool
}

// RunWithSpinner executes an action while displaying the app spinner.
//
// Example:
//
//	var count int
//	var importErr error
//	err := RunWithSpinner("Importing services...", func() {
//	    count, importErr = importServices(path)
//	})
//	if err != nil { return err }
//	if importErr != nil { return importErr }
func RunWithSpinner(title string, action func()) error {
	m := blockingSpinnerModel{
		spinner: NewAppSpinner(),
		title:   title,
		action:  action,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("spinner program error: %w", err)
	}

	if final, ok := finalModel.(blockingSpinnerModel); ok && final.cancelled {
		return fmt.Errorf("cancelled")
	}
	return nil
}

func (m blockingSpinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runAction(),
	)
}

func (m blockingSpinnerModel) runAction() tea.Cmd {
	return func() tea.Msg {
		m.action()
		return actionDoneMsg{}
	}
}

func (m blockingSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m blockingSpinnerModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), RenderNormal(m.title))
}
