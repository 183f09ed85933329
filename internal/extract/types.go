package extract

// NameType classifies how a name candidate was written.
type NameType string

const (
	NameLastFirst      NameType = "last_first"
	NameTitled         NameType = "titled"
	NameFullWithMiddle NameType = "full_with_middle"
	NameFirstLast      NameType = "first_last"
	NameSingle         NameType = "single"
)

// EmailRecord is a deduplicated email address found in the input.
type EmailRecord struct {
	Email  string  `json:"email"`
	Valid  bool    `json:"valid"`
	Domain *string `json:"domain"`
}

// PhoneRecord is a deduplicated phone number found in the input.
// Formatted falls back to Raw when the number could not be validated.
type PhoneRecord struct {
	Raw       string  `json:"raw"`
	Formatted string  `json:"formatted"`
	Valid     bool    `json:"valid"`
	Country   *string `json:"country"`
}

// NameRecord is a personal name candidate with a heuristic confidence in [0, 1].
type NameRecord struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Type       NameType `json:"type"`
}

// Result holds everything one ExtractAll call found. Each call builds a fresh
// Result; nothing inside it is shared with other calls.
type Result struct {
	Emails []EmailRecord `json:"emails"`
	Phones []PhoneRecord `json:"phones"`
	Names  []NameRecord  `json:"names"`
}

// Stats summarises a Result for API responses.
type Stats struct {
	EmailsFound int `json:"emails_found"`
	PhonesFound int `json:"phones_found"`
	NamesFound  int `json:"names_found"`
}

// Stats returns per-category counts.
func (r Result) Stats() Stats {
	return Stats{
		EmailsFound: len(r.Emails),
		PhonesFound: len(r.Phones),
		NamesFound:  len(r.Names),
	}
}

// Total returns the number of records across all categories.
func (r Result) Total() int {
	return len(r.Emails) + len(r.Phones) + len(r.Names)
}
