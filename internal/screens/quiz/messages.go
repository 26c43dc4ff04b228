package quiz

import (
	"github.com/abhisek/pagequiz/internal/content"
	"github.com/abhisek/pagequiz/internal/player"
	sess "github.com/abhisek/pagequiz/internal/quiz"
)

// pageLoadedMsg is sent when the page content has been fetched.
type pageLoadedMsg struct {
	Ayahs []content.Ayah
	Err   error
}

// feedbackDoneMsg is sent when the feedback delay of an answer ends.
// Generation ties it to the session attempt that scheduled it and Answered
// to the answer within that attempt.
type feedbackDoneMsg struct {
	Generation uint64
	Answered   int
}

// finishedMsg is sent when the session has been finalized. Player is the
// updated snapshot, copied into the shared player by the screen.
type finishedMsg struct {
	Result *sess.Result
	Player *player.Snapshot
	Err    error
}
