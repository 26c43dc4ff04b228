package content

import (
	"context"
	"errors"
	"fmt"
)

// Page numbers of the standard Madani Mushaf.
const (
	FirstPage = 1
	LastPage  = 604
)

var (
	// ErrUnreachable means the content API could not be reached or answered
	// with a non-success status.
	ErrUnreachable = errors.New("content source unreachable")

	// ErrInvalidPage is returned for page numbers outside FirstPage..LastPage.
	ErrInvalidPage = errors.New("invalid page number")
)

// Surah identifies the chapter an ayah belongs to.
type Surah struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
}

// Ayah is one quiz content unit: a verse with its position metadata.
type Ayah struct {
	Number        int    `json:"number"` // global number, 1..6236
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah"`
	Juz           int    `json:"juz"`
	Page          int    `json:"page"`
	HizbQuarter   int    `json:"hizbQuarter"`
	Surah         Surah  `json:"surah"`
}

// Source fetches the ayahs printed on a page.
type Source interface {
	FetchPage(ctx context.Context, page int) ([]Ayah, error)
}

// ValidPage reports whether page is a real Mushaf page.
func ValidPage(page int) bool {
	return page >= FirstPage && page <= LastPage
}

// FetchPages fetches every page in order and concatenates the ayahs. It stops
// at the first failure; a quiz never starts from partial content.
func FetchPages(ctx context.Context, src Source, pages []int) ([]Ayah, error) {
	var all []Ayah
	for _, p := range pages {
		ayahs, err := src.FetchPage(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p, err)
		}
		all = append(all, ayahs...)
	}
	return all, nil
}
