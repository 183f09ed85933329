package extract

import (
	"strings"

	"golang.org/x/net/idna"
)

const (
	maxAddressLength = 254
	maxLocalLength   = 64
	maxLabelLength   = 63
)

// reservedTLDs are special-use names that never deliver mail.
var reservedTLDs = map[string]bool{
	"arpa":      true,
	"invalid":   true,
	"local":     true,
	"localhost": true,
	"onion":     true,
	"test":      true,
}

// ExtractEmails returns every distinct email address in text, in order of
// first occurrence. Addresses are lowercased; case variants collapse into
// the first one seen.
func ExtractEmails(text string) []EmailRecord {
	matches := emailPattern.FindAllString(text, -1)
	records := make([]EmailRecord, 0, len(matches))
	seen := make(map[string]bool, len(matches))

	for _, m := range matches {
		key := strings.ToLower(strings.TrimSpace(m))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		records = append(records, EmailRecord{
			Email:  key,
			Valid:  isDeliverableShape(key),
			Domain: emailDomain(key),
		})
	}

	return records
}

// emailDomain returns the text after the last '@', or nil when there is none.
func emailDomain(addr string) *string {
	at := strings.LastIndexByte(addr, '@')
	if at < 0 {
		return nil
	}
	domain := addr[at+1:]
	return &domain
}

// isDeliverableShape performs a purely syntactic address check. No DNS or
// SMTP lookups are made.
func isDeliverableShape(addr string) bool {
	if len(addr) > maxAddressLength {
		return false
	}

	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	local, domain := addr[:at], addr[at+1:]

	if !validLocalPart(local) {
		return false
	}
	return validDomain(domain)
}

func validLocalPart(local string) bool {
	if len(local) == 0 || len(local) > maxLocalLength {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	return !strings.Contains(local, "..")
}

func validDomain(domain string) bool {
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return false
	}

	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if len(label) == 0 || len(label) > maxLabelLength {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
	}

	tld := labels[len(labels)-1]
	for i := 0; i < len(tld); i++ {
		c := tld[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}

	return !reservedTLDs[tld]
}
