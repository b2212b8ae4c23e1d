// Package hashtag extracts #tags from post content.
package hashtag

import (
	"strings"
	"unicode"
)

// Extract returns the lowercased, de-duplicated hashtags found in text, in
// order of first appearance. A tag starts at '#' and runs over letters,
// digits and underscores; a bare '#' is not a tag.
func Extract(text string) []string {
	var tags []string
	seen := make(map[string]bool)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		j := i + 1
		for j < len(runes) && isTagRune(runes[j]) {
			j++
		}
		if j > i+1 {
			tag := strings.ToLower(string(runes[i+1 : j]))
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
		i = j - 1
	}
	return tags
}

func isTagRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
