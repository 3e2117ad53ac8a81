package ingest

import (
	"regexp"
	"strings"
)

var (
	// trailingRefRegexp strips numeric payment references appended to
	// merchant descriptors, e.g. "CAFE AURORA 0042931".
	trailingRefRegexp = regexp.MustCompile(`[\s*#-]+\d{3,}$`)
	// multiSpaceRegexp collapses runs of whitespace.
	multiSpaceRegexp = regexp.MustCompile(`\s+`)
)

// corporateSuffixes are dropped from the end of merchant descriptors.
var corporateSuffixes = []string{"S.A.", "SA", "S.R.L.", "SRL", "LLC", "INC", "LTD"}

// Normalizer derives a canonical business name and location from the
// raw merchant descriptor found in exported transaction files.
type Normalizer struct{}

// NewNormalizer creates a merchant normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize splits a raw merchant descriptor into (businessName,
// location). Descriptors commonly carry the branch city after a dash
// or comma ("CAFE AURORA - PALERMO"); when no location can be derived
// the location is "unknown".
func (n *Normalizer) Normalize(rawMerchant string) (string, string) {
	cleaned := strings.TrimSpace(rawMerchant)
	if cleaned == "" {
		return "", "unknown"
	}

	cleaned = trailingRefRegexp.ReplaceAllString(cleaned, "")
	cleaned = multiSpaceRegexp.ReplaceAllString(cleaned, " ")

	location := "unknown"
	for _, sep := range []string{" - ", ", "} {
		if idx := strings.LastIndex(cleaned, sep); idx > 0 {
			candidate := strings.TrimSpace(cleaned[idx+len(sep):])
			if candidate != "" && !isNumeric(candidate) {
				location = titleCase(candidate)
				cleaned = strings.TrimSpace(cleaned[:idx])
			}
			break
		}
	}

	name := strings.ToUpper(strings.TrimSpace(cleaned))
	for _, suffix := range corporateSuffixes {
		name = strings.TrimSuffix(name, " "+suffix)
	}

	return strings.TrimSpace(name), location
}

// titleCase capitalizes the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
