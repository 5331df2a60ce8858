package session

import "strings"

// Accumulate merges a new final fragment and the current interim fragment
// into the accumulated final text, returning the full transcript and its
// word count. Final fragments are concatenated permanently with a single
// separating space; the interim fragment is a provisional tail.
//
// This is the single source of truth for word counting: the count is always
// recomputed from the full text by splitting on whitespace and discarding
// empty tokens.
func Accumulate(priorFinalText, newFinalFragment, newInterimFragment string) (fullText string, wordCount int) {
	final := appendFragment(priorFinalText, newFinalFragment)
	fullText = appendFragment(final, newInterimFragment)
	return fullText, WordCount(fullText)
}

// WordCount counts whitespace-separated non-empty tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func appendFragment(accumulated, fragment string) string {
	if fragment == "" {
		return accumulated
	}
	if accumulated == "" {
		return fragment
	}
	return accumulated + " " + fragment
}
