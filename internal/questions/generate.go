package questions

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/pagequiz/internal/content"
)

// ErrInsufficientData is returned when the content units cannot support a
// question of the requested kind. Callers redraw another kind.
var ErrInsufficientData = errors.New("insufficient data for question")

// MaxChoices caps the options offered per question.
const MaxChoices = 4

// audioBaseURL serves per-ayah recitations by edition.
const audioBaseURL = "https://cdn.islamic.network/quran/audio/128"

// Question is one multiple-choice turn.
type Question struct {
	Kind     Kind
	Prompt   string
	Context  string
	Choices  []string
	Answer   string
	AudioURL string
}

// IsCorrect reports whether choice matches the answer.
func (q *Question) IsCorrect(choice string) bool {
	return choice == q.Answer
}

// Render returns the question as it was shown, for the error review.
func (q *Question) Render() string {
	if q.Context == "" {
		return q.Prompt
	}
	return q.Prompt + "\n" + q.Context
}

// AudioURL returns the recitation URL for a global ayah number, or "" when
// either the edition or the number is missing.
func AudioURL(edition string, ayahNumber int) string {
	if edition == "" || ayahNumber <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/%s/%d.mp3", audioBaseURL, edition, ayahNumber)
}

// Generate builds a question of kind from units. variant is the reciter
// edition used for audio.
func Generate(kind Kind, units []content.Ayah, variant string, rng *rand.Rand) (*Question, error) {
	if len(units) == 0 {
		return nil, ErrInsufficientData
	}

	var (
		q   *Question
		err error
	)
	switch kind {
	case KindChooseNext:
		q, err = chooseNeighbour(units, variant, rng, 1)
	case KindChoosePrevious:
		q, err = chooseNeighbour(units, variant, rng, -1)
	case KindLocateAyah:
		q, err = locateAyah(units, variant, rng)
	case KindCompleteLastWord:
		q, err = completeLastWord(units, variant, rng)
	case KindIdentifyAyahNumber:
		q, err = identifyAyahNumber(units, variant, rng)
	case KindCompleteAyah:
		q, err = completeAyah(units, variant, rng)
	case KindIdentifyAyahEnd:
		q, err = identifyAyahEnd(units, variant, rng)
	case KindFindUniqueWord:
		q, err = findUniqueWord(units, rng)
	case KindCountWord:
		q, err = countWord(units, rng)
	case KindVisualMap:
		q, err = visualMap(units, rng)
	default:
		return nil, fmt.Errorf("unknown question kind %d", int(kind))
	}
	if err != nil {
		return nil, err
	}
	q.Kind = kind
	return q, nil
}

func chooseNeighbour(units []content.Ayah, variant string, rng *rand.Rand, dir int) (*Question, error) {
	if len(units) < 3 {
		return nil, ErrInsufficientData
	}

	// i is the shown ayah; i+dir must stay on the page.
	var i int
	if dir > 0 {
		i = rng.IntN(len(units) - 1)
	} else {
		i = 1 + rng.IntN(len(units)-1)
	}
	shown, target := units[i], units[i+dir]

	var pool []string
	for j, u := range units {
		if j != i && j != i+dir {
			pool = append(pool, u.Text)
		}
	}

	prompt := "Which ayah comes next?"
	if dir < 0 {
		prompt = "Which ayah comes before this one?"
	}
	return build(prompt, shown.Text, target.Text, pool, AudioURL(variant, shown.Number), rng)
}

func locateAyah(units []content.Ayah, variant string, rng *rand.Rand) (*Question, error) {
	if len(units) < 3 {
		return nil, ErrInsufficientData
	}

	positions := []string{"Top of the page", "Middle of the page", "Bottom of the page"}
	i := rng.IntN(len(units))
	third := i * 3 / len(units)

	return &Question{
		Prompt:   "Where on the page is this ayah?",
		Context:  units[i].Text,
		Choices:  positions,
		Answer:   positions[third],
		AudioURL: AudioURL(variant, units[i].Number),
	}, nil
}

func completeLastWord(units []content.Ayah, variant string, rng *rand.Rand) (*Question, error) {
	candidates := withMinWords(units, 2)
	if len(candidates) == 0 {
		return nil, ErrInsufficientData
	}

	a := candidates[rng.IntN(len(candidates))]
	words := strings.Fields(a.Text)
	answer := words[len(words)-1]

	var pool []string
	for _, u := range units {
		if w := strings.Fields(u.Text); len(w) > 0 {
			pool = append(pool, w[len(w)-1])
		}
	}
	if len(distinctExcept(pool, answer)) == 0 {
		// Pages whose ayahs share one ending fall back to any other word.
		pool = allWords(units)
	}

	stem := strings.Join(words[:len(words)-1], " ") + " ..."
	return build("Which word completes this ayah?", stem, answer, pool, AudioURL(variant, a.Number), rng)
}

func identifyAyahNumber(units []content.Ayah, variant string, rng *rand.Rand) (*Question, error) {
	a := units[rng.IntN(len(units))]
	n := a.NumberInSurah
	if n <= 0 {
		return nil, ErrInsufficientData
	}

	var pool []string
	for _, d := range []int{-2, -1, 1, 2, 3} {
		if m := n + d; m >= 1 {
			pool = append(pool, strconv.Itoa(m))
		}
	}

	prompt := "What is the number of this ayah?"
	if name := surahName(a.Surah); name != "" {
		prompt = fmt.Sprintf("What is the number of this ayah in Surah %s?", name)
	}
	return build(prompt, a.Text, strconv.Itoa(n), pool, AudioURL(variant, a.Number), rng)
}

func completeAyah(units []content.Ayah, variant string, rng *rand.Rand) (*Question, error) {
	candidates := withMinWords(units, 4)
	if len(candidates) < 2 {
		return nil, ErrInsufficientData
	}

	i := rng.IntN(len(candidates))
	head, answer := splitHalf(candidates[i].Text)

	var pool []string
	for j, c := range candidates {
		if j != i {
			_, tail := splitHalf(c.Text)
			pool = append(pool, tail)
		}
	}
	return build("How does this ayah continue?", head+" ...", answer, pool, AudioURL(variant, candidates[i].Number), rng)
}

func identifyAyahEnd(units []content.Ayah, variant string, rng *rand.Rand) (*Question, error) {
	candidates := withMinWords(units, 4)
	if len(candidates) < 2 {
		return nil, ErrInsufficientData
	}

	i := rng.IntN(len(candidates))
	a := candidates[i]
	words := strings.Fields(a.Text)
	k := min(3, len(words)/2)

	var pool []string
	for j, c := range candidates {
		if j != i {
			w := strings.Fields(c.Text)
			pool = append(pool, strings.Join(w[len(w)-min(3, len(w)/2):], " "))
		}
	}

	stem := strings.Join(words[:k], " ") + " ..."
	answer := strings.Join(words[len(words)-k:], " ")
	return build("Which ending belongs to the ayah that starts like this?", stem, answer, pool, AudioURL(variant, a.Number), rng)
}

func findUniqueWord(units []content.Ayah, rng *rand.Rand) (*Question, error) {
	counts := wordCounts(units)

	var once, repeated []string
	for _, w := range orderedWords(units) {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if counts[w] == 1 {
			once = append(once, w)
		} else {
			repeated = append(repeated, w)
		}
	}
	if len(once) == 0 || len(repeated) == 0 {
		return nil, ErrInsufficientData
	}

	answer := once[rng.IntN(len(once))]
	return build("Which of these words appears only once on this page?", "", answer, repeated, "", rng)
}

func countWord(units []content.Ayah, rng *rand.Rand) (*Question, error) {
	counts := wordCounts(units)

	var repeated []string
	for _, w := range orderedWords(units) {
		if counts[w] >= 2 && utf8.RuneCountInString(w) >= 2 {
			repeated = append(repeated, w)
		}
	}
	if len(repeated) == 0 {
		return nil, ErrInsufficientData
	}

	w := repeated[rng.IntN(len(repeated))]
	c := counts[w]

	var pool []string
	for _, d := range []int{-2, -1, 1, 2} {
		if m := c + d; m >= 1 {
			pool = append(pool, strconv.Itoa(m))
		}
	}
	prompt := fmt.Sprintf("How many times does %q appear on this page?", w)
	return build(prompt, "", strconv.Itoa(c), pool, "", rng)
}

func visualMap(units []content.Ayah, rng *rand.Rand) (*Question, error) {
	if len(units) < 2 {
		return nil, ErrInsufficientData
	}

	i := rng.IntN(len(units))
	var pool []string
	for j, u := range units {
		if j != i {
			pool = append(pool, u.Text)
		}
	}
	prompt := fmt.Sprintf("Which ayah is number %d of %d on this page?", i+1, len(units))
	return build(prompt, "", units[i].Text, pool, "", rng)
}

// build picks up to MaxChoices-1 distinct distractors from pool and shuffles
// them with the answer. At least one distractor is required.
func build(prompt, stem, answer string, pool []string, audio string, rng *rand.Rand) (*Question, error) {
	distractors := distinctExcept(pool, answer)
	if len(distractors) == 0 {
		return nil, ErrInsufficientData
	}
	rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	if len(distractors) > MaxChoices-1 {
		distractors = distractors[:MaxChoices-1]
	}

	choices := append([]string{answer}, distractors...)
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return &Question{
		Prompt:   prompt,
		Context:  stem,
		Choices:  choices,
		Answer:   answer,
		AudioURL: audio,
	}, nil
}

func distinctExcept(pool []string, exclude string) []string {
	seen := map[string]bool{exclude: true}
	var out []string
	for _, s := range pool {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func withMinWords(units []content.Ayah, n int) []content.Ayah {
	var out []content.Ayah
	for _, u := range units {
		if len(strings.Fields(u.Text)) >= n {
			out = append(out, u)
		}
	}
	return out
}

func splitHalf(text string) (string, string) {
	words := strings.Fields(text)
	mid := len(words) / 2
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}

func allWords(units []content.Ayah) []string {
	var out []string
	for _, u := range units {
		out = append(out, strings.Fields(u.Text)...)
	}
	return out
}

func wordCounts(units []content.Ayah) map[string]int {
	counts := make(map[string]int)
	for _, w := range allWords(units) {
		counts[w]++
	}
	return counts
}

// orderedWords returns each distinct word once, in page order.
func orderedWords(units []content.Ayah) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range allWords(units) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func surahName(s content.Surah) string {
	if s.EnglishName != "" {
		return s.EnglishName
	}
	return s.Name
}
