package diagnostics

import (
	"fmt"
	"strings"
)

// maxSuggestionDistance bounds how far a near-match may be before it is
// no longer worth suggesting.
const maxSuggestionDistance = 5

// SuggestPluginName suggests a registered plugin name when an unknown
// one is referenced, using edit distance to find the closest match.
func SuggestPluginName(unknown string, known []string) string {
	if len(known) == 0 {
		return ""
	}

	minDistance := maxSuggestionDistance
	var bestMatch string
	for _, name := range known {
		if d := levenshteinDistance(unknown, name); d < minDistance {
			minDistance = d
			bestMatch = name
		}
	}

	if bestMatch != "" {
		return fmt.Sprintf("Did you mean %q?", bestMatch)
	}
	return fmt.Sprintf("Known plugins: %s", strings.Join(known, ", "))
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
