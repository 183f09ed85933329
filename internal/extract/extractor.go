// Package extract finds email addresses, phone numbers and personal names in
// free text.
//
// Every function here is pure: it reads only its argument and immutable
// package data, allocates fresh result slices and never fails. Calls may run
// concurrently without coordination.
package extract

// ExtractAll runs the three extractors over text. Extracting the same text
// twice yields equal results.
func ExtractAll(text string) Result {
	return Result{
		Emails: ExtractEmails(text),
		Phones: ExtractPhones(text),
		Names:  ExtractNames(text),
	}
}
