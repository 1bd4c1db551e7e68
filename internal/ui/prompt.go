package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	styles "github.com/inference-gateway/gridpilot/internal/ui/styles"
)

// PromptModel is a single-line instruction prompt
type PromptModel struct {
	input     textinput.Model
	styles    *styles.CommonStyles
	value     string
	submitted bool
}

// NewPromptModel creates a focused prompt
func NewPromptModel(placeholder string) PromptModel {
	s := styles.NewCommonStyles()

	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "› "
	input.PromptStyle = s.Prompt
	input.PlaceholderStyle = s.Placeholder
	input.CharLimit = 500
	input.Width = 72
	input.Focus()

	return PromptModel{input: input, styles: s}
}

// Init starts the cursor blinking
func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses. Enter submits, Esc and Ctrl+C cancel.
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			m.submitted = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt
func (m PromptModel) View() string {
	if m.submitted {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("What should I do?"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("enter to run • esc or empty input to quit"))
	b.WriteString("\n")
	return b.String()
}

// Value returns the submitted instruction
func (m PromptModel) Value() string {
	return m.value
}

// Submitted reports whether a non-empty instruction was entered
func (m PromptModel) Submitted() bool {
	return m.submitted && m.value != ""
}

// Prompt reads one instruction from the terminal. ok is false when the user
// cancelled or entered nothing.
func Prompt(ctx context.Context, in io.Reader, out io.Writer, placeholder string) (instruction string, ok bool, err error) {
	program := tea.NewProgram(
		NewPromptModel(placeholder),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return "", false, ctx.Err()
		}
		return "", false, err
	}

	m, isPrompt := final.(PromptModel)
	if !isPrompt || !m.Submitted() {
		return "", false, nil
	}
	return m.Value(), true, nil
}
