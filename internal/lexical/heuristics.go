// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lexical

import "strings"

// prefixHyphens is the set of prefixes whose sense changes if the
// following hyphen is stripped by the tokenizer (e.g. "re-cycled" must
// not tokenize as "re", "cycled"). Checked case-insensitively.
var prefixHyphens = []string{"re", "pre", "non", "de"}

// HeuristicsStage joins its inputs with newlines into a single string,
// then removes a hyphen immediately following one of prefixHyphens when
// it occurs at a word-internal position. Other hyphenations (e.g.
// "case-based") are left alone for the tokenizer to split on.
type HeuristicsStage struct{}

// NewHeuristicsStage returns the heuristics stage. It holds no state, so
// a single instance may be reused across pipelines.
func NewHeuristicsStage() *HeuristicsStage { return &HeuristicsStage{} }

func (s *HeuristicsStage) Name() string { return "heuristics" }

func (s *HeuristicsStage) Process(in []string) []string {
	joined := strings.Join(in, "\n")
	return []string{stripPrefixHyphens(joined)}
}

// stripPrefixHyphens scans text for a hyphen preceded by one of
// prefixHyphens and followed by another letter, and removes it.
// "Word-internal" means the prefix itself must begin a word (preceded by
// a non-letter or the start of the string).
func stripPrefixHyphens(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	n := len(runes)
	for i := 0; i < n; i++ {
		if runes[i] == '-' && isPrefixHyphenBoundary(runes, i) {
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// isPrefixHyphenBoundary reports whether the hyphen at runes[i] directly
// follows one of prefixHyphens at a word-internal position, and is
// itself followed by another letter (so "re-" at end of text is left
// alone, as is a bare prefix like "de" with no following hyphen).
func isPrefixHyphenBoundary(runes []rune, i int) bool {
	if i+1 >= len(runes) || !isLetter(runes[i+1]) {
		return false
	}
	for _, p := range prefixHyphens {
		pl := len(p)
		if i-pl < 0 {
			continue
		}
		if !strings.EqualFold(string(runes[i-pl:i]), p) {
			continue
		}
		// The prefix must start a word: the rune before it (if any)
		// must not itself be a letter or digit.
		if i-pl-1 >= 0 && isWordChar(runes[i-pl-1]) {
			continue
		}
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordChar(r rune) bool {
	return isLetter(r) || (r >= '0' && r <= '9') || r == '_'
}
