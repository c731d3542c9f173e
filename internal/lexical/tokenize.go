// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lexical

// TokenizeStage splits each input string on runs of non-word characters,
// emitting the maximal runs of word characters (letters, digits,
// underscore) in original order.
type TokenizeStage struct{}

func NewTokenizeStage() *TokenizeStage { return &TokenizeStage{} }

func (s *TokenizeStage) Name() string { return "tokenize" }

func (s *TokenizeStage) Process(in []string) []string {
	var out []string
	for _, text := range in {
		out = append(out, tokenize(text)...)
	}
	return out
}

func tokenize(text string) []string {
	var out []string
	runes := []rune(text)
	start := -1
	for i, r := range runes {
		if isWordChar(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			out = append(out, string(runes[start:i]))
			start = -1
		}
	}
	if start != -1 {
		out = append(out, string(runes[start:]))
	}
	return out
}
