package agent

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalized units. Anything unrecognized collapses to UnitCount.
const (
	UnitMass   = "kg"
	UnitVolume = "ltr"
	UnitCount  = "pc"
)

// ExtractedItem is one candidate line item pulled out of free text.
type ExtractedItem struct {
	Quantity decimal.Decimal
	Unit     string
	Name     string
}

// itemPattern pairs a regexp with whether its second group is a unit
// token. Patterns are data, not control flow: adding a unit vocabulary
// means adding a row here, not touching the scan.
type itemPattern struct {
	re      *regexp.Regexp
	hasUnit bool
}

// Ordered most specific first. A span consumed by an earlier pattern is
// skipped by later ones, which is why "5kg rice" yields one item and
// not a second hit from the generic fallback.
var itemPatterns = []itemPattern{
	{re: regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(kg|kgs|kilogram|kilograms)\s+(?:of\s+)?(\w+(?:\s+\w+)?)`), hasUnit: true},
	{re: regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(liter|liters|litre|litres|ltr|ltrs|l)\s+(?:of\s+)?(\w+(?:\s+\w+)?)`), hasUnit: true},
	{re: regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(packet|packets|pack|packs|pc|pcs|piece|pieces)\s+(?:of\s+)?(\w+(?:\s+\w+)?)`), hasUnit: true},
	{re: regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(\w+(?:\s+\w+)?)`), hasUnit: false},
}

var unitSynonyms = map[string]string{
	"kg": UnitMass, "kgs": UnitMass, "kilogram": UnitMass, "kilograms": UnitMass,
	"liter": UnitVolume, "liters": UnitVolume, "litre": UnitVolume, "litres": UnitVolume,
	"ltr": UnitVolume, "ltrs": UnitVolume, "l": UnitVolume,
	"packet": UnitCount, "packets": UnitCount, "pack": UnitCount, "packs": UnitCount,
	"pc": UnitCount, "pcs": UnitCount, "piece": UnitCount, "pieces": UnitCount,
}

// Trailing connector words that the greedy two-word name capture picks
// up in running text ("2 liters oil and ..." captures "oil and").
var nameStopwords = map[string]bool{
	"and": true, "or": true, "of": true, "with": true, "for": true, "the": true,
}

func normalizeUnit(token string) string {
	if u, ok := unitSynonyms[token]; ok {
		return u
	}
	return UnitCount
}

func trimItemName(name string) string {
	words := strings.Fields(name)
	for len(words) > 0 && nameStopwords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// ExtractItems scans free text for "quantity [unit] name" shapes. It is
// a best-effort heuristic over a fixed pattern cascade: false positives
// from a stray number next to a word are an accepted trade-off. An
// empty result is a valid outcome, not an error.
func ExtractItems(text string) []ExtractedItem {
	lowered := strings.ToLower(text)

	var items []ExtractedItem
	var consumed [][2]int

	overlaps := func(start, end int) bool {
		for _, span := range consumed {
			if start < span[1] && end > span[0] {
				return true
			}
		}
		return false
	}

	for _, pattern := range itemPatterns {
		for _, m := range pattern.re.FindAllStringSubmatchIndex(lowered, -1) {
			start, end := m[0], m[1]
			if overlaps(start, end) {
				continue
			}

			quantity, err := decimal.NewFromString(lowered[m[2]:m[3]])
			if err != nil || !quantity.IsPositive() {
				continue
			}

			unit := UnitCount
			var name string
			if pattern.hasUnit {
				unit = normalizeUnit(lowered[m[4]:m[5]])
				name = lowered[m[6]:m[7]]
			} else {
				name = lowered[m[4]:m[5]]
			}

			name = trimItemName(name)
			if name == "" {
				continue
			}

			consumed = append(consumed, [2]int{start, end})
			items = append(items, ExtractedItem{
				Quantity: quantity,
				Unit:     unit,
				Name:     name,
			})
		}
	}

	return items
}
