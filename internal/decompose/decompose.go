// Package decompose segments practice phrases into ordered lists of
// known vocabulary unit IDs. It is pure and deterministic: the same
// phrase and vocabulary always produce the same segmentation.
package decompose

import (
	"strings"
)

// Normalize lowercases, trims, and collapses internal whitespace so
// phrase text and vocabulary keys compare consistently.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// MaxRunLength returns the longest word run among the vocabulary keys.
// The decomposer never needs to probe candidate runs longer than this.
func MaxRunLength(vocab map[string]string) int {
	max := 0
	for key := range vocab {
		if n := len(strings.Fields(key)); n > max {
			max = n
		}
	}
	return max
}

// Decompose segments phrase into an ordered list of unit IDs using
// vocab, a map from normalized unit text to unit ID.
//
// At each cursor position the longest contiguous word run that matches
// a vocabulary entry wins; a phrase that is the exact concatenation of
// two known multi-word units therefore resolves to the single longer
// unit when one exists. Words that start no match at any length are
// skipped silently, never reported as errors. An empty phrase or empty
// vocabulary yields an empty result.
func Decompose(phrase string, vocab map[string]string) []string {
	if len(vocab) == 0 {
		return nil
	}

	words := strings.Fields(strings.ToLower(phrase))
	if len(words) == 0 {
		return nil
	}

	maxRun := MaxRunLength(vocab)
	var units []string

	for cursor := 0; cursor < len(words); {
		remaining := len(words) - cursor
		runLen := maxRun
		if remaining < runLen {
			runLen = remaining
		}

		matched := false
		for ; runLen >= 1; runLen-- {
			candidate := strings.Join(words[cursor:cursor+runLen], " ")
			if unitID, ok := vocab[candidate]; ok {
				units = append(units, unitID)
				cursor += runLen
				matched = true
				break
			}
		}

		if !matched {
			// Unknown word: drop it and keep going.
			cursor++
		}
	}

	return units
}
