// Package templates renders the HTML pages served by the web package.
// The *_templ.go files are generated from the .templ sources with
// `templ generate`.
package templates

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"
)

// exportURL links to the page-side export route.
func exportURL(format, sessionID string) templ.SafeURL {
	return templ.SafeURL("/export/" + url.PathEscape(format) + "/" + url.PathEscape(sessionID))
}

func confidence(c float64) string {
	return fmt.Sprintf("%.2f", c)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
