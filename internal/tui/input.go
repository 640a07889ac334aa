package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// Input is a single-line text field. It reports whether a key changed the
// text so the host knows when to feed the limiters.
type Input struct {
	value       []rune
	placeholder string
	cursorPos   int
	width       int
}

// NewInput creates an empty input
func NewInput() *Input {
	return &Input{
		placeholder: "Type to feed the limiters",
	}
}

// Update applies an editing key and reports whether the value changed.
// Keys the host owns (enter, tab, esc) are ignored here.
func (in *Input) Update(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "backspace":
		if in.cursorPos > 0 {
			in.value = append(in.value[:in.cursorPos-1], in.value[in.cursorPos:]...)
			in.cursorPos--
			return true
		}
	case "delete":
		if in.cursorPos < len(in.value) {
			in.value = append(in.value[:in.cursorPos], in.value[in.cursorPos+1:]...)
			return true
		}
	case "left":
		if in.cursorPos > 0 {
			in.cursorPos--
		}
	case "right":
		if in.cursorPos < len(in.value) {
			in.cursorPos++
		}
	case "home", "ctrl+a":
		in.cursorPos = 0
	case "end", "ctrl+e":
		in.cursorPos = len(in.value)
	case "ctrl+k":
		// Kill to end of line
		if in.cursorPos < len(in.value) {
			in.value = in.value[:in.cursorPos]
			return true
		}
	case "space":
		in.insert(' ')
		return true
	default:
		r := []rune(msg.String())
		if len(r) == 1 && unicode.IsPrint(r[0]) {
			in.insert(r[0])
			return true
		}
	}
	return false
}

func (in *Input) insert(r rune) {
	in.value = append(in.value[:in.cursorPos], append([]rune{r}, in.value[in.cursorPos:]...)...)
	in.cursorPos++
}

// SetWidth sets the rendered width
func (in *Input) SetWidth(width int) {
	in.width = width
}

// Value returns the current text
func (in *Input) Value() string {
	return string(in.value)
}

// Reset clears the input and reports whether there was anything to clear.
func (in *Input) Reset() bool {
	had := len(in.value) > 0
	in.value = nil
	in.cursorPos = 0
	return had
}

// View renders the input with a block cursor
func (in *Input) View(p palette) string {
	inputStyle := lipgloss.NewStyle().
		Width(max(in.width-2, 1)).
		Padding(0, 1)

	if len(in.value) == 0 {
		cursor := lipgloss.NewStyle().Background(p.accent).Foreground(p.inverted).Render(" ")
		return inputStyle.Render(cursor + lipgloss.NewStyle().Foreground(p.muted).Render(in.placeholder))
	}

	before := string(in.value[:in.cursorPos])
	cursor := " "
	after := ""
	if in.cursorPos < len(in.value) {
		cursor = string(in.value[in.cursorPos])
		after = string(in.value[in.cursorPos+1:])
	}

	cursorStyle := lipgloss.NewStyle().
		Background(p.accent).
		Foreground(p.inverted)

	return inputStyle.Render(before + cursorStyle.Render(cursor) + after)
}
