package core

// # Error Codes Reference
//
// Technical errors are mapped to user messages carrying a code that users
// can quote to support.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - No text: "no text provided"
//	VAL002 - Text too long: "exceeds maximum"
//	VAL003 - Unsafe content: "unsafe content"
//	VAL004 - Bad characters: "not valid utf-8"
//	VAL005 - Bad request body: "invalid request body"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: "file too large", "request body too large"
//	FILE002 - Unsupported type: "unsupported file type"
//	FILE003 - No text extracted: "no text extracted"
//	FILE004 - No file: "no file selected"
//	FILE005 - Unsafe name: "unsafe filename"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Unknown format: "invalid export format", "unknown export format"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Malformed handle: "malformed session id"
//	SES002 - Expired: "result not found"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: "too many concurrent"
//	UPL004 - Request cancelled: "context canceled"
//	UPL005 - Request timeout: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the server log for the technical
// error; it is logged with the request ID.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns precede general ones. A wrapped
// "no text extracted: file too large" therefore reports FILE001.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Validation
	{
		pattern: "no text provided",
		msg: UserMessage{
			Message: "No text was provided",
			Action:  "Paste some text or choose a file to upload",
			Code:    "VAL001",
		},
	},
	{
		pattern: "exceeds maximum",
		msg: UserMessage{
			Message: "Text is too long",
			Action:  "Shorten the text or split it into several requests",
			Code:    "VAL002",
		},
	},
	{
		pattern: "unsafe content",
		msg: UserMessage{
			Message: "Text contains scripts or embedded content",
			Action:  "Remove script tags, event handlers and embeds, then try again",
			Code:    "VAL003",
		},
	},
	{
		pattern: "not valid utf-8",
		msg: UserMessage{
			Message: "Text contains invalid characters",
			Action:  "Save the text as UTF-8 and try again",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  `Send a JSON body such as {"text": "..."}`,
			Code:    "VAL005",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller file or paste the relevant text",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller file or paste the relevant text",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a TXT, PDF, DOCX, XLSX or CSV file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no text extracted",
		msg: UserMessage{
			Message: "No text could be extracted from the file",
			Action:  "Check that the file is not scanned, encrypted or empty",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file selected",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unsafe filename",
		msg: UserMessage{
			Message: "File name is not allowed",
			Action:  "Rename the file and try again",
			Code:    "FILE005",
		},
	},

	// Export
	{
		pattern: "export format",
		msg: UserMessage{
			Message: "Export format is not supported",
			Action:  "Choose json, csv or report",
			Code:    "EXP001",
		},
	},

	// Sessions
	{
		pattern: "malformed session id",
		msg: UserMessage{
			Message: "The results link is not valid",
			Action:  "Check the link or run the extraction again",
			Code:    "SES001",
		},
	},
	{
		pattern: "result not found",
		msg: UserMessage{
			Message: "Results not found or expired",
			Action:  "Run the extraction again",
			Code:    "SES002",
		},
	},

	// Uploads
	{
		pattern: "too many concurrent",
		msg: UserMessage{
			Message: "System is busy processing other documents",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
