package extract

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is tried first when interpreting numbers without a country
// calling code.
const defaultRegion = "US"

// minPhoneDigits is the shortest normalized candidate worth keeping.
const minPhoneDigits = 10

// ExtractPhones returns every distinct phone number in text. Candidates are
// deduplicated by their normalized form (digits plus an optional leading
// '+'), so the same number written two ways appears once.
func ExtractPhones(text string) []PhoneRecord {
	var records []PhoneRecord
	seen := make(map[string]bool)

	for _, m := range phoneMatchers {
		for _, sub := range m.re.FindAllStringSubmatch(text, -1) {
			candidate := sub[0]
			if m.grouped {
				candidate = strings.Join(sub[1:], "")
			}

			key := normalizePhone(candidate)
			if len(key) < minPhoneDigits || seen[key] {
				continue
			}
			seen[key] = true

			records = append(records, classifyPhone(strings.TrimSpace(candidate), key))
		}
	}

	if records == nil {
		records = []PhoneRecord{}
	}
	return records
}

// normalizePhone keeps digits and a leading '+'.
func normalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// classifyPhone validates the normalized key against the numbering plans
// and keeps raw, the matched text, for display. A region-relative parse is
// attempted first; only when it fails outright is the number reinterpreted
// as fully international.
func classifyPhone(raw, key string) PhoneRecord {
	rec := PhoneRecord{Raw: raw, Formatted: raw}

	num, err := phonenumbers.Parse(key, defaultRegion)
	if err == nil {
		if phonenumbers.IsValidNumber(num) {
			rec.Valid = true
			rec.Formatted = phonenumbers.Format(num, phonenumbers.NATIONAL)
			rec.Country = regionOf(num)
		}
		return rec
	}

	num, err = phonenumbers.Parse(key, "")
	if err == nil && phonenumbers.IsValidNumber(num) {
		rec.Valid = true
		rec.Formatted = phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
		rec.Country = regionOf(num)
	}
	return rec
}

func regionOf(num *phonenumbers.PhoneNumber) *string {
	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "" || region == "ZZ" {
		return nil
	}
	return &region
}
