package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	sess "github.com/abhisek/pagequiz/internal/quiz"
	"github.com/abhisek/pagequiz/internal/router"
	"github.com/abhisek/pagequiz/internal/screen"
	"github.com/abhisek/pagequiz/internal/ui/layout"
	"github.com/abhisek/pagequiz/internal/ui/theme"
)

// ReviewScreen lists the questions answered wrongly, one at a time, before
// the summary.
type ReviewScreen struct {
	errors []sess.ErrorRecord
	next   screen.Screen
	index  int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.BackHandler = (*ReviewScreen)(nil)

// New creates a ReviewScreen that continues to next.
func New(errors []sess.ErrorRecord, next screen.Screen) *ReviewScreen {
	return &ReviewScreen{errors: errors, next: next}
}

func (r *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (r *ReviewScreen) Title() string {
	return "Review mistakes"
}

func (r *ReviewScreen) HandlesBack() bool {
	return true
}

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Browse"},
		{Key: "Enter", Description: "Continue"},
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch kmsg.String() {
	case "left", "h", "up", "k":
		if r.index > 0 {
			r.index--
		}
	case "right", "l", "down", "j":
		if r.index < len(r.errors)-1 {
			r.index++
		}
	case "enter", "esc":
		next := r.next
		return r, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return r, nil
}

func (r *ReviewScreen) View(width, height int) string {
	if len(r.errors) == 0 {
		return ""
	}
	e := r.errors[r.index]
	textWidth := min(width-8, 72)

	var b strings.Builder
	b.WriteString(layout.Centered(theme.Muted.Render(fmt.Sprintf("Mistake %d of %d", r.index+1, len(r.errors))), width))
	b.WriteString("\n\n")

	prompt, stem, _ := strings.Cut(e.Question, "\n")
	b.WriteString(layout.Centered(theme.Body.Bold(true).Width(textWidth).Render(prompt), width))
	b.WriteString("\n")
	if stem != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Verse.Width(textWidth).Render(stem), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Correct.Width(textWidth).Render("Answer: "+e.CorrectAnswer), width))
	return b.String()
}
