package textutil

import (
	"regexp"
	"strings"
)

// wordPattern extracts dialogue words: a leading letter followed by letters,
// hyphens, or apostrophes, so contractions like "don't" stay intact.
var wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z\-']+`)

// Words extracts lowercase dialogue words from text. Unlike Tokenize it keeps
// two-letter words and intra-word punctuation, which keyword statistics need.
func Words(text string) []string {
	matches := wordPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, strings.ToLower(match))
	}
	return out
}

// FilterStopwords drops stopwords from a word list, preserving order.
func FilterStopwords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if IsStopword(word) {
			continue
		}
		out = append(out, word)
	}
	return out
}

// IsStopword reports whether the lowercase word carries no topical signal.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

var stopwords = buildStopwords(`
	the a an and or of to in on for with at by from as is are was were be been being this that these those it its it's
	i you he she we they them us our your his her their not do does did done have has had having will would can could
	should may might must if then than so such but about over under out up down off into within without also just like
	get got going go went come came make makes made takes took say says said one two three four five six seven eight nine ten
	there's i'm you're we're they're don't can't won't didn't isn't aren't wasn't weren't
`)

func buildStopwords(words string) map[string]struct{} {
	set := make(map[string]struct{}, 128)
	for _, word := range strings.Fields(words) {
		set[word] = struct{}{}
	}
	return set
}
