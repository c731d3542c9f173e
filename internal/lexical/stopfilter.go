// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lexical

import (
	_ "embed"
	"strings"
)

//go:embed stopwords.txt
var defaultStopwordsRaw string

// StopFilterStage drops tokens whose lowercased form is in its stop set.
type StopFilterStage struct {
	stop map[string]struct{}
}

// NewStopFilterStage builds a stop filter. If words is nil, the embedded
// default English stop list is used. Otherwise words replaces it
// entirely; ParseStoplist can turn a raw config string into this slice.
func NewStopFilterStage(words []string) *StopFilterStage {
	if words == nil {
		words = ParseStoplist(defaultStopwordsRaw)
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &StopFilterStage{stop: set}
}

func (s *StopFilterStage) Name() string { return "stop" }

func (s *StopFilterStage) Process(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tok := range in {
		if _, drop := s.stop[strings.ToLower(tok)]; drop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ParseStoplist parses a newline/whitespace-separated stop list where
// lines starting with '#' are comments, returning the flat word list.
// This is the format accepted by the config's `stoplist` override.
func ParseStoplist(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, strings.Fields(trimmed)...)
	}
	return out
}
