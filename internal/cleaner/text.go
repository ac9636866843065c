package cleaner

import (
	"regexp"
	"strings"
)

var (
	simpleTagPattern  = regexp.MustCompile(`</?(i|b|u)>`)
	anyTagPattern     = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	notePattern       = regexp.MustCompile(`\s*[\[(][^\])]+[\])]\s*`)
	noteOnlyPattern   = regexp.MustCompile(`^[\[(].+?[\])]$`)
	noteCorePattern   = regexp.MustCompile(`^[A-Za-z\s'!-]+$`)
	bracketPattern    = regexp.MustCompile(`[\[(]|[\])]`)
)

// asciiReplacer folds typographic punctuation onto ASCII equivalents.
var asciiReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // ellipsis
)

// StripTags removes styling markup, first the common i/b/u pairs and then any
// remaining angle-bracket tags such as voice or color spans.
func StripTags(text string) string {
	text = simpleTagPattern.ReplaceAllString(text, "")
	return anyTagPattern.ReplaceAllString(text, "")
}

// NormalizeText strips tags, folds punctuation to ASCII, and collapses all
// whitespace runs to single spaces. Applying it twice is the same as once.
func NormalizeText(text string) string {
	text = StripTags(text)
	text = asciiReplacer.Replace(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// RemoveNotes deletes bracketed or parenthetical caption notes such as
// (cheering) or [music] from the text.
func RemoveNotes(text string) string {
	return strings.TrimSpace(notePattern.ReplaceAllString(text, " "))
}

// IsNoteOnly reports whether the entire text is a caption note: fully wrapped
// in brackets or parentheses with nothing outside them.
func IsNoteOnly(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if noteOnlyPattern.MatchString(t) {
		return true
	}
	core := strings.TrimSpace(bracketPattern.ReplaceAllString(t, ""))
	if core != "" && noteCorePattern.MatchString(core) {
		wrapped := (strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")) ||
			(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"))
		if wrapped {
			return true
		}
	}
	return false
}
