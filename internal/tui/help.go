package tui

import (
	"github.com/charmbracelet/glamour/v2"
)

const helpMarkdown = `# settle

Every edit to the input is observed by two limiters at once.

- **Debounced** waits until you stop typing for the full delay, then emits the latest text.
- **Throttled** emits at most once per delay window. A change inside the window is held and released when the window closes.

The first value is emitted immediately by both.

## Keys

| Key | Action |
| --- | --- |
| enter | flush pending values now |
| ctrl+u | clear the input |
| tab | toggle this help |
| esc, ctrl+c | quit |
`

// renderHelp renders the help text for the given theme and width. It falls
// back to the raw markdown when glamour fails.
func renderHelp(theme string, width int) string {
	if width <= 0 {
		width = 80
	}
	if theme == "" {
		theme = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
