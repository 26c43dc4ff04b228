package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pagequiz/internal/ui/layout"
	"github.com/abhisek/pagequiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderMessage(width, theme.Incorrect.Render(s.errMsg)+"\n\n"+theme.Hint.Render("Press any key to go back."))
	case s.finishing:
		return renderMessage(width, theme.Hint.Render("Saving your result..."))
	case s.question == nil:
		return renderMessage(width, theme.Hint.Render(fmt.Sprintf("Loading page %d...", s.params.Page)))
	case s.confirmQuit:
		return renderMessage(width,
			theme.Body.Bold(true).Render("Leave this quiz?")+"\n"+
				theme.Muted.Render("Answers so far will not be saved.")+"\n\n"+
				theme.Incorrect.Render("[Y] Yes, leave")+"\n"+
				theme.Selected.Render("[N] No, keep going"))
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := s.question
	answered, total := s.session.Progress()

	var b strings.Builder

	number := answered + 1
	if s.feedback != nil {
		number = answered
	}
	info := theme.Muted.Render(fmt.Sprintf("Question %d/%d   Score %d   XP +%d",
		number, total, s.session.Score(), s.session.ExperienceEarned()))
	b.WriteString("  " + info + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	textWidth := min(width-8, 72)
	b.WriteString(layout.Centered(theme.Body.Bold(true).Width(textWidth).Render(q.Prompt), width))
	b.WriteString("\n")
	if q.Context != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Verse.Width(textWidth).Render(q.Context), width))
		b.WriteString("\n")
	}
	if q.AudioURL != "" {
		b.WriteString(layout.Centered(theme.Hint.Render("Listen: "+q.AudioURL), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(layout.Centered(s.choices.View(), width))

	if fb := s.feedback; fb != nil {
		b.WriteString("\n")
		if fb.Correct {
			b.WriteString(layout.Centered(theme.Correct.Render("Correct!"), width))
		} else {
			b.WriteString(layout.Centered(theme.Incorrect.Render("Not quite. The answer is: "+fb.CorrectAnswer), width))
		}
	}
	return b.String()
}

func renderMessage(width int, body string) string {
	return "\n\n\n" + layout.Centered(body, width)
}
