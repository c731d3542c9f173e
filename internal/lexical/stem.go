// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lexical

import "github.com/okapisearch/okapi/internal/porter"

// StemFunc is the core's assumption about a stemmer: a deterministic
// word->stem function. It is expected to return the input unchanged (or
// the empty string) for tokens it cannot meaningfully reduce; StemStage
// itself already routes non-alphabetic tokens around the call.
type StemFunc func(string) string

// StemStage applies a StemFunc to every token that contains at least one
// alphabetic character; tokens without any letter (pure numerals,
// underscores) pass through unchanged. Order is always preserved and no
// token is ever dropped.
type StemStage struct {
	fn StemFunc
}

// NewStemStage returns a stage wired to the Porter stemmer, the
// reference implementation assumed by the core.
func NewStemStage() *StemStage {
	return NewStemStageWithFunc(porter.Stem)
}

// NewStemStageWithFunc builds a stage around a caller-supplied stemmer,
// for swapping in an alternative algorithm without touching the rest of
// the pipeline.
func NewStemStageWithFunc(fn StemFunc) *StemStage {
	return &StemStage{fn: fn}
}

func (s *StemStage) Name() string { return "stem" }

func (s *StemStage) Process(in []string) []string {
	out := make([]string, len(in))
	for i, tok := range in {
		if !containsLetter(tok) {
			out[i] = tok
			continue
		}
		out[i] = s.fn(tok)
	}
	return out
}

func containsLetter(tok string) bool {
	for _, r := range tok {
		if isLetter(r) {
			return true
		}
	}
	return false
}
