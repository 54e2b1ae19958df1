package tokenizer

import (
	"strings"
	"unicode"
)

// CountTokens provides a rough token count estimate.
// Whitespace-separated words count as ~4/3 tokens each; Han, Kana and
// Hangul characters count as one token apiece since those scripts are
// not space delimited.
func CountTokens(text string) int {
	var ideographs, words int
	for _, field := range strings.Fields(text) {
		latin := false
		for _, r := range field {
			if isIdeographic(r) {
				ideographs++
			} else {
				latin = true
			}
		}
		if latin {
			words++
		}
	}
	if ideographs == 0 && words == 0 {
		return 0
	}
	return max(ideographs+words*4/3, 1)
}

func isIdeographic(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
