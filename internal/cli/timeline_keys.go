package cli

import "github.com/charmbracelet/bubbles/key"

// timelineShortHelp is the hint bar shown while no overlay is active.
func timelineShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		key.NewBinding(key.WithKeys("s", "e"), key.WithHelp("s/e", "resize")),
		key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "boundary")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "brush")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
		key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// timelineFullHelp is the expanded listing toggled with ?.
func timelineFullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select")),
			key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
			key.NewBinding(key.WithKeys("s", "e"), key.WithHelp("s/e", "resize start/end")),
			key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "boundary")),
			key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "brush")),
		},
		{
			key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "drag 1d")),
			key.NewBinding(key.WithKeys("H", "L"), key.WithHelp("H/L", "drag 7d")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
		{
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
			key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit")),
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
			key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "validate")),
			key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fix all")),
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
			key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		},
	}
}
