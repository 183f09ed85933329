package extract

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minNameLength = 3
	maxNameLength = 50
)

// Confidence is accumulated in tenths so that sums like 0.5+0.2-0.2 are
// exact before the final division.
const (
	scoreBase        = 5
	scoreCapitalized = 3
	scoreWordCount   = 2
	scoreSingleWord  = -2
	scoreTitle       = 3
	scoreCasePenalty = -2
	scoreMax         = 10
	scoreDenominator = 10.0
)

// ExtractNames returns personal-name candidates in text, sorted by
// confidence (highest first). Ties keep discovery order.
func ExtractNames(text string) []NameRecord {
	records := []NameRecord{}
	seen := make(map[string]bool)

	for _, m := range nameMatchers {
		for _, sub := range m.re.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(sub[1])
			key := strings.ToLower(candidate)
			if seen[key] || !plausibleName(candidate) {
				continue
			}
			seen[key] = true

			records = append(records, NameRecord{
				Name:       candidate,
				Confidence: nameConfidence(candidate),
				Type:       classifyName(candidate, m.variant),
			})
		}
	}

	slices.SortStableFunc(records, func(a, b NameRecord) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})

	return records
}

// plausibleName applies the stop-word, character and length filters.
func plausibleName(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, w := range stopWords {
		if strings.Contains(lower, w) {
			return false
		}
	}

	if strings.ContainsRune(candidate, '@') || strings.ContainsFunc(candidate, unicode.IsDigit) {
		return false
	}

	n := utf8.RuneCountInString(candidate)
	return n >= minNameLength && n <= maxNameLength
}

// nameConfidence scores a candidate in [0, 1]. Penalties compound: an
// all-caps single word loses both the single-word and the casing points.
func nameConfidence(name string) float64 {
	words := strings.Fields(name)
	score := scoreBase

	if len(words) > 0 && allCapitalized(words) {
		score += scoreCapitalized
	}

	switch len(words) {
	case 2, 3:
		score += scoreWordCount
	case 1:
		score += scoreSingleWord
	}

	if hasTitleToken(name) {
		score += scoreTitle
	}

	if strings.ToUpper(name) == name || !strings.ContainsFunc(name, unicode.IsUpper) {
		score += scoreCasePenalty
	}

	score = max(0, min(scoreMax, score))
	return float64(score) / scoreDenominator
}

// allCapitalized reports whether every word starts with an upper-case letter
// and continues in lower case. A bare initial such as "Q." does not count.
func allCapitalized(words []string) bool {
	for _, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(first) || !isLowerCased(w[size:]) {
			return false
		}
	}
	return true
}

// isLowerCased is true when s has at least one cased letter and none of
// them is upper case.
func isLowerCased(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

func hasTitleToken(name string) bool {
	lower := strings.ToLower(name)
	for _, t := range titleTokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func classifyName(name string, variant nameVariant) NameType {
	if strings.Contains(name, ",") {
		return NameLastFirst
	}
	if variant == nameTitled || hasTitleToken(name) {
		return NameTitled
	}

	switch n := len(strings.Fields(name)); {
	case n >= 3:
		return NameFullWithMiddle
	case n == 2:
		return NameFirstLast
	}
	return NameSingle
}
