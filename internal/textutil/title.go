package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// DisplayName converts an uppercase caption speaker tag into a readable
// name: "HOLLY" becomes "Holly", "KELLY/CHRISTI" becomes "Kelly/Christi".
// Compound tags keep their slash; each side is cased independently.
func DisplayName(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	parts := strings.Split(tag, "/")
	for i, part := range parts {
		parts[i] = titleCaser.String(strings.ToLower(strings.TrimSpace(part)))
	}
	return strings.Join(parts, "/")
}
