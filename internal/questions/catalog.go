package questions

// CatalogEntry enables a question kind from a given player level.
type CatalogEntry struct {
	Kind          Kind
	LevelRequired int
}

// DefaultCatalog is used when the catalog table is empty.
func DefaultCatalog() []CatalogEntry {
	return []CatalogEntry{
		{Kind: KindChooseNext, LevelRequired: 1},
		{Kind: KindLocateAyah, LevelRequired: 1},
		{Kind: KindCompleteLastWord, LevelRequired: 2},
		{Kind: KindIdentifyAyahNumber, LevelRequired: 3},
		{Kind: KindCompleteAyah, LevelRequired: 4},
		{Kind: KindIdentifyAyahEnd, LevelRequired: 5},
		{Kind: KindFindUniqueWord, LevelRequired: 6},
		{Kind: KindCountWord, LevelRequired: 7},
		{Kind: KindChoosePrevious, LevelRequired: 8},
		{Kind: KindVisualMap, LevelRequired: 10},
	}
}

// Eligible returns the entries unlocked at level, preserving order.
func Eligible(catalog []CatalogEntry, level int) []CatalogEntry {
	var out []CatalogEntry
	for _, e := range catalog {
		if e.LevelRequired <= level {
			out = append(out, e)
		}
	}
	return out
}
