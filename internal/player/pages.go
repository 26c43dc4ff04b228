package player

import (
	"slices"
	"strconv"
	"strings"
)

// Inventory item id prefixes for unlockable content.
const (
	PageItemPrefix    = "page_"
	ReciterItemPrefix = "reciter_"
)

// DefaultReciter is the recitation edition every player has.
const DefaultReciter = "ar.alafasy"

// FreePages can be quizzed without a purchase.
var FreePages = []int{1, 2, 602, 603, 604}

// IsFreePage reports whether page needs no purchase.
func IsFreePage(page int) bool {
	return slices.Contains(FreePages, page)
}

// PageItemID returns the inventory id that unlocks page.
func PageItemID(page int) string {
	return PageItemPrefix + strconv.Itoa(page)
}

// ReciterItemID returns the inventory id that unlocks a reciter edition.
func ReciterItemID(edition string) string {
	return ReciterItemPrefix + edition
}

// AvailablePages returns the free pages plus every purchased page, sorted
// and without duplicates.
func (s *Snapshot) AvailablePages() []int {
	pages := slices.Clone(FreePages)
	for _, id := range s.Items() {
		rest, ok := strings.CutPrefix(id, PageItemPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > 0 {
			pages = append(pages, n)
		}
	}
	slices.Sort(pages)
	return slices.Compact(pages)
}

// CanPlayPage reports whether page is free or owned.
func (s *Snapshot) CanPlayPage(page int) bool {
	return IsFreePage(page) || s.Owns(PageItemID(page))
}

// AvailableReciters returns the default reciter followed by purchased ones.
func (s *Snapshot) AvailableReciters() []string {
	out := []string{DefaultReciter}
	for _, id := range s.Items() {
		if ed, ok := strings.CutPrefix(id, ReciterItemPrefix); ok && ed != "" && ed != DefaultReciter {
			out = append(out, ed)
		}
	}
	return out
}
