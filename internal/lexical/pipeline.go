// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lexical implements the fixed-order text pipeline that turns raw
// document or query text into an ordered sequence of index terms:
// heuristics, tokenize, stop-filter, stem. Each stage consumes an ordered
// sequence of strings and produces one, so stages compose freely and the
// whole pipeline can be built once per engine and shared between indexing
// and querying (spec §9's pipeline-polymorphism note).
package lexical

// Stage is one step of the lexical pipeline. Implementations must be safe
// for concurrent use by multiple goroutines since a single Pipeline value
// is shared across concurrent IndexBatch workers.
type Stage interface {
	// Process consumes an ordered sequence of strings and returns the
	// ordered sequence that results from applying this stage.
	Process(in []string) []string
	Name() string
}

// Pipeline is an ordered, immutable list of stages. The zero value is not
// usable; construct one with New or NewDefault.
type Pipeline struct {
	stages []Stage
}

// New builds a pipeline from an explicit, caller-supplied stage order.
// Callers that want to drop a stage (e.g. no stop-filtering) or insert a
// custom one can assemble their own slice and pass it here instead of
// using NewDefault.
func New(stages ...Stage) *Pipeline {
	cp := make([]Stage, len(stages))
	copy(cp, stages)
	return &Pipeline{stages: cp}
}

// NewDefault builds the standard heuristics -> tokenize -> stopfilter ->
// stem pipeline. stopwords, if non-nil, overrides the embedded default
// stop list; pass nil to use it.
func NewDefault(stopwords []string) *Pipeline {
	return New(
		NewHeuristicsStage(),
		NewTokenizeStage(),
		NewStopFilterStage(stopwords),
		NewStemStage(),
	)
}

// Run pushes in through every stage in order and returns the final
// ordered sequence of terms.
func (p *Pipeline) Run(in []string) []string {
	out := in
	for _, s := range p.stages {
		out = s.Process(out)
	}
	return out
}

// RunText is a convenience for the common case of a single raw text blob.
func (p *Pipeline) RunText(text string) []string {
	return p.Run([]string{text})
}

// Stages returns the pipeline's stages in order, for callers that need
// to report which filters are active without reaching into the struct
// directly.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// DefaultFilterNames is the default value of the config's `filters` list.
var DefaultFilterNames = []string{"heuristics", "tokenize", "stop", "stem"}

// BuildFromNames constructs a Pipeline from an ordered list of stage
// names (the config file's `filters` key). stopwords overrides the
// embedded default stop list when the "stop" stage is present; pass nil
// to use the default. An unrecognized name is a configuration error.
func BuildFromNames(names []string, stopwords []string) (*Pipeline, error) {
	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		switch name {
		case "heuristics":
			stages = append(stages, NewHeuristicsStage())
		case "tokenize":
			stages = append(stages, NewTokenizeStage())
		case "stop":
			stages = append(stages, NewStopFilterStage(stopwords))
		case "stem":
			stages = append(stages, NewStemStage())
		default:
			return nil, &UnknownStageError{Name: name}
		}
	}
	return New(stages...), nil
}

// UnknownStageError reports a `filters` entry that names no known stage.
type UnknownStageError struct{ Name string }

func (e *UnknownStageError) Error() string {
	return "lexical: unknown pipeline stage " + e.Name
}
