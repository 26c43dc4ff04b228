package questions

import "strings"

// Kind is a question category. The set is closed: every Kind has exactly one
// generator, selected by an exhaustive switch in Generate.
type Kind int

const (
	KindChooseNext Kind = iota + 1
	KindLocateAyah
	KindCompleteLastWord
	KindIdentifyAyahNumber
	KindCompleteAyah
	KindIdentifyAyahEnd
	KindFindUniqueWord
	KindCountWord
	KindChoosePrevious
	KindVisualMap
)

// AllKinds returns every kind in catalog order.
func AllKinds() []Kind {
	return []Kind{
		KindChooseNext,
		KindLocateAyah,
		KindCompleteLastWord,
		KindIdentifyAyahNumber,
		KindCompleteAyah,
		KindIdentifyAyahEnd,
		KindFindUniqueWord,
		KindCountWord,
		KindChoosePrevious,
		KindVisualMap,
	}
}

// ID returns the stable identifier stored in the question catalog.
func (k Kind) ID() string {
	switch k {
	case KindChooseNext:
		return "choose_next"
	case KindLocateAyah:
		return "locate_ayah"
	case KindCompleteLastWord:
		return "complete_last_word"
	case KindIdentifyAyahNumber:
		return "identify_ayah_number"
	case KindCompleteAyah:
		return "complete_ayah"
	case KindIdentifyAyahEnd:
		return "identify_ayah_end"
	case KindFindUniqueWord:
		return "find_unique_word"
	case KindCountWord:
		return "count_word"
	case KindChoosePrevious:
		return "choose_previous"
	case KindVisualMap:
		return "visual_map"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable label.
func (k Kind) DisplayName() string {
	switch k {
	case KindChooseNext:
		return "Next Ayah"
	case KindLocateAyah:
		return "Locate Ayah"
	case KindCompleteLastWord:
		return "Last Word"
	case KindIdentifyAyahNumber:
		return "Ayah Number"
	case KindCompleteAyah:
		return "Complete Ayah"
	case KindIdentifyAyahEnd:
		return "Ayah Ending"
	case KindFindUniqueWord:
		return "Unique Word"
	case KindCountWord:
		return "Word Count"
	case KindChoosePrevious:
		return "Previous Ayah"
	case KindVisualMap:
		return "Page Map"
	default:
		return "Unknown"
	}
}

func (k Kind) String() string { return k.ID() }

// legacyNames maps the generator names used by older catalogs.
var legacyNames = map[string]Kind{
	"generatechoosenextquestion":         KindChooseNext,
	"generatelocateayahquestion":         KindLocateAyah,
	"generatecompletelastwordquestion":   KindCompleteLastWord,
	"generateidentifyayahnumberquestion": KindIdentifyAyahNumber,
	"generatecompleteayahquestion":       KindCompleteAyah,
	"generateidentifyayahendquestion":    KindIdentifyAyahEnd,
	"generatefinduniquewordquestion":     KindFindUniqueWord,
	"generatecountwordquestion":          KindCountWord,
	"generatechoosepreviousquestion":     KindChoosePrevious,
	"generatevisualmapquestion":          KindVisualMap,
}

// ParseKind resolves a catalog id. It accepts both the snake_case ids and the
// legacy generator names, case-insensitively.
func ParseKind(id string) (Kind, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, k := range AllKinds() {
		if k.ID() == id {
			return k, true
		}
	}
	k, ok := legacyNames[id]
	return k, ok
}
