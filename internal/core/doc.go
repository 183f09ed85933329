// Package core runs extractions for the HTTP server and the CLI.
//
// A [Service] accepts raw text or an uploaded document, validates it,
// converts documents to text under a concurrency limit, extracts entities
// and keeps the result in an in-memory [ResultStore] keyed by a random
// session ID. Stored results can be read back or exported until they expire.
//
// # Flow
//
//  1. [Service.ExtractText] or [Service.ExtractDocument] validates the input
//  2. Documents take an [UploadLimiter] slot while being converted
//  3. Extraction results are stored and returned with their session ID
//  4. [Service.Export] renders a stored result as json, csv or report
//
// # Error Handling
//
// Rejections are sentinel errors from the validate, document and format
// packages, wrapped with detail. [MapError] turns any of them into a
// [UserMessage] with a support code:
//
//   - VAL001-VAL005: text validation
//   - FILE001-FILE005: uploads and document conversion
//   - EXP001: export formats
//   - SES001-SES002: session handles
//   - UPL002-UPL005: concurrency and cancellation
package core
