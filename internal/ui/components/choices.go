package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pagequiz/internal/ui/theme"
)

// Choices is a lettered multiple-choice selector. After Reveal it shows the
// correct answer in green and a wrong pick in red.
type Choices struct {
	Options  []string
	Selected int

	revealed bool
	picked   int
	answer   string
}

// NewChoices creates a selector over options.
func NewChoices(options []string) Choices {
	return Choices{Options: options, picked: -1}
}

// Update moves the cursor. It returns the chosen option and true when the
// player confirms with Enter or a number key.
func (c Choices) Update(msg tea.Msg) (Choices, string, bool) {
	if c.revealed || len(c.Options) == 0 {
		return c, "", false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, "", false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		return c, c.Options[c.Selected], true
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(c.Options) {
			c.Selected = n - 1
			return c, c.Options[c.Selected], true
		}
	}
	return c, "", false
}

// Reveal freezes the selector and marks answer as the correct option.
func (c *Choices) Reveal(answer string) {
	c.revealed = true
	c.picked = c.Selected
	c.answer = answer
}

// Revealed reports whether Reveal was called.
func (c Choices) Revealed() bool {
	return c.revealed
}

// View renders the options.
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case c.revealed && opt == c.answer:
			b.WriteString(theme.Correct.Render(line))
		case c.revealed && i == c.picked:
			b.WriteString(theme.Incorrect.Render(line))
		case c.revealed:
			b.WriteString(theme.Muted.Render(line))
		case i == c.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
