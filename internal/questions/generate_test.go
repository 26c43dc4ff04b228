package questions

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/abhisek/pagequiz/internal/content"
)

func testPage() []content.Ayah {
	surah := content.Surah{Number: 114, Name: "الناس", EnglishName: "An-Naas"}
	texts := []string{
		"qul aAAoothu birabbi alnnasi",
		"maliki alnnasi",
		"ilahi alnnasi",
		"min sharri alwaswasi alkhannasi",
		"allathee yuwaswisu fee sudoori alnnasi",
		"mina aljinnati waalnnasi",
	}
	var units []content.Ayah
	for i, t := range texts {
		units = append(units, content.Ayah{
			Number:        6231 + i,
			Text:          t,
			NumberInSurah: i + 1,
			Page:          604,
			Surah:         surah,
		})
	}
	return units
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestGenerate_AllKinds(t *testing.T) {
	units := testPage()

	for _, kind := range AllKinds() {
		t.Run(kind.ID(), func(t *testing.T) {
			for seed := range uint64(20) {
				q, err := Generate(kind, units, "ar.alafasy", newRand(seed))
				if errors.Is(err, ErrInsufficientData) {
					continue
				}
				if err != nil {
					t.Fatalf("seed %d: unexpected error: %v", seed, err)
				}
				if q.Kind != kind {
					t.Errorf("kind = %v, want %v", q.Kind, kind)
				}
				if len(q.Choices) < 2 || len(q.Choices) > MaxChoices {
					t.Errorf("seed %d: %d choices, want 2..%d", seed, len(q.Choices), MaxChoices)
				}
				matches := 0
				for _, c := range q.Choices {
					if c == q.Answer {
						matches++
					}
				}
				if matches != 1 {
					t.Errorf("seed %d: answer %q appears %d times in %v", seed, q.Answer, matches, q.Choices)
				}
				if q.Prompt == "" {
					t.Error("empty prompt")
				}
			}
		})
	}
}

func TestGenerate_InsufficientData(t *testing.T) {
	single := []content.Ayah{{Number: 1, Text: "one", NumberInSurah: 1}}

	tests := []Kind{
		KindChooseNext,
		KindChoosePrevious,
		KindLocateAyah,
		KindCompleteLastWord,
		KindCompleteAyah,
		KindIdentifyAyahEnd,
		KindFindUniqueWord,
		KindCountWord,
		KindVisualMap,
	}
	for _, kind := range tests {
		_, err := Generate(kind, single, "", newRand(1))
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("%s: expected ErrInsufficientData, got %v", kind, err)
		}
	}

	if _, err := Generate(KindChooseNext, nil, "", newRand(1)); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("empty units: expected ErrInsufficientData, got %v", err)
	}
}

func TestGenerate_UnknownKind(t *testing.T) {
	_, err := Generate(Kind(99), testPage(), "", newRand(1))
	if err == nil || errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestChooseNext_AnswerFollowsContext(t *testing.T) {
	units := testPage()
	for seed := range uint64(10) {
		q, err := Generate(KindChooseNext, units, "", newRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		i := slices.IndexFunc(units, func(a content.Ayah) bool { return a.Text == q.Context })
		if i < 0 || i+1 >= len(units) {
			t.Fatalf("context %q not a valid predecessor", q.Context)
		}
		if q.Answer != units[i+1].Text {
			t.Errorf("answer = %q, want %q", q.Answer, units[i+1].Text)
		}
	}
}

func TestChoosePrevious_AnswerPrecedesContext(t *testing.T) {
	units := testPage()
	for seed := range uint64(10) {
		q, err := Generate(KindChoosePrevious, units, "", newRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		i := slices.IndexFunc(units, func(a content.Ayah) bool { return a.Text == q.Context })
		if i < 1 {
			t.Fatalf("context %q has no predecessor", q.Context)
		}
		if q.Answer != units[i-1].Text {
			t.Errorf("answer = %q, want %q", q.Answer, units[i-1].Text)
		}
	}
}

func TestCountWord_Answer(t *testing.T) {
	units := testPage()
	for seed := range uint64(10) {
		q, err := Generate(KindCountWord, units, "", newRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		// "alnnasi" is the only repeated word on the test page.
		if !strings.Contains(q.Prompt, "alnnasi") {
			t.Errorf("prompt %q should ask about alnnasi", q.Prompt)
		}
		if q.Answer != "4" {
			t.Errorf("answer = %q, want 4", q.Answer)
		}
	}
}

func TestIdentifyAyahNumber(t *testing.T) {
	q, err := Generate(KindIdentifyAyahNumber, testPage(), "ar.alafasy", newRand(3))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q.Prompt, "An-Naas") {
		t.Errorf("prompt %q should name the surah", q.Prompt)
	}
	if !strings.HasPrefix(q.AudioURL, audioBaseURL+"/ar.alafasy/") {
		t.Errorf("audio url = %q", q.AudioURL)
	}
}

func TestAudioURL(t *testing.T) {
	if got := AudioURL("ar.alafasy", 6236); got != "https://cdn.islamic.network/quran/audio/128/ar.alafasy/6236.mp3" {
		t.Errorf("AudioURL = %q", got)
	}
	if got := AudioURL("", 1); got != "" {
		t.Errorf("expected empty url without edition, got %q", got)
	}
}

func TestQuestionRender(t *testing.T) {
	q := &Question{Prompt: "Which ayah comes next?", Context: "maliki alnnasi", Answer: "ilahi alnnasi"}
	if got := q.Render(); got != "Which ayah comes next?\nmaliki alnnasi" {
		t.Errorf("Render = %q", got)
	}
	if !q.IsCorrect("ilahi alnnasi") || q.IsCorrect("maliki alnnasi") {
		t.Error("IsCorrect should compare with Answer")
	}

	bare := &Question{Prompt: "Which word appears once?"}
	if got := bare.Render(); got != bare.Prompt {
		t.Errorf("Render without context = %q", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"choose_next", KindChooseNext, true},
		{"VISUAL_MAP", KindVisualMap, true},
		{"generateCountWordQuestion", KindCountWord, true},
		{" generateChoosePreviousQuestion ", KindChoosePrevious, true},
		{"generateUnknownQuestion", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	for _, k := range AllKinds() {
		if got, ok := ParseKind(k.ID()); !ok || got != k {
			t.Errorf("round trip failed for %v", k)
		}
	}
}

func TestEligible(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 2},
		{2, 3},
		{5, 6},
		{9, 9},
		{10, 10},
		{50, 10},
	}
	for _, tt := range tests {
		if got := len(Eligible(catalog, tt.level)); got != tt.want {
			t.Errorf("Eligible(level %d) = %d entries, want %d", tt.level, got, tt.want)
		}
	}
}
