package extract

import "regexp"

// emailPattern finds address-shaped substrings. Validity is decided later.
var emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

// phoneVariant identifies which family of phone pattern produced a match.
type phoneVariant int

const (
	phoneNANPGrouped phoneVariant = iota
	phoneE164
	phoneNANPExtension
)

type phoneMatcher struct {
	variant phoneVariant
	re      *regexp.Regexp
	// grouped matchers build the candidate from their capture groups
	// instead of the whole match.
	grouped bool
}

// phoneMatchers are applied in order; earlier families win dedup ties.
var phoneMatchers = []phoneMatcher{
	{
		variant: phoneNANPGrouped,
		re:      regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})\b`),
		grouped: true,
	},
	{
		variant: phoneE164,
		re:      regexp.MustCompile(`\+[1-9]\d{1,14}\b`),
	},
	{
		variant: phoneNANPExtension,
		re:      regexp.MustCompile(`(?i)\b(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}(?:\s?(?:ext|x|extension)\.?\s?\d+)?\b`),
	},
}

// nameVariant identifies which family of name pattern produced a match.
type nameVariant int

const (
	nameTitled nameVariant = iota
	namePlain
	nameInverted
)

type nameMatcher struct {
	variant nameVariant
	re      *regexp.Regexp
}

// nameMatchers are applied in order. The candidate is capture group 1, so a
// titled match drops the honorific while keeping its variant tag.
var nameMatchers = []nameMatcher{
	{
		variant: nameTitled,
		re:      regexp.MustCompile(`\b(?:Dr|Mr|Ms|Mrs|Miss|Prof|Professor)\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]*\.?)?\s+[A-Z][a-z]+)\b`),
	},
	// Two capitalized pieces, either fused into one token ("McDonald") or
	// separated by a middle name or initial ("Mary Q. Jones").
	{
		variant: namePlain,
		re:      regexp.MustCompile(`\b([A-Z][a-z]{1,15}(?:\s+[A-Z]\.?\s+|\s+[A-Z][a-z]{1,15}\s+)?[A-Z][a-z]{1,15})\b`),
	},
	{
		variant: nameInverted,
		re:      regexp.MustCompile(`\b([A-Z][a-z]{1,15},\s+[A-Z][a-z]{1,15}(?:\s+[A-Z]\.?)?)\b`),
	},
}

// titleTokens mark honorifics inside a candidate. Matching is by substring
// on the lowercased candidate.
var titleTokens = []string{"dr.", "mr.", "ms.", "mrs.", "prof."}

// stopWords reject a name candidate when any of them occurs as a substring
// of the lowercased candidate. Substring matching is deliberate and also
// rejects names such as "Anderson" (contains "and").
var stopWords = []string{
	"and", "the", "for", "with", "from", "about", "into", "through",
	"during", "before", "after", "above", "below", "between", "among",
	"this", "that", "these", "those",
	"company", "corporation", "inc", "llc", "ltd", "co",
	"department", "team", "group", "division", "office", "center", "service",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"dear", "sincerely", "regards", "thank", "thanks", "best", "yours",
	"email", "phone", "address",
}
