// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package codec

import (
	"reflect"
	"testing"
)

func TestDecodeTermRecord(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  TermRecord
	}{
		{
			name:  "single posting no count",
			value: "3:1",
			want:  TermRecord{Postings: []Posting{{DocID: 3, Count: 1}}, CFreq: 1},
		},
		{
			name:  "posting with explicit count",
			value: "3=2:2",
			want:  TermRecord{Postings: []Posting{{DocID: 3, Count: 2}}, CFreq: 2},
		},
		{
			name:  "multiple postings mixed shapes",
			value: "1;2=3;7:4",
			want: TermRecord{
				Postings: []Posting{{DocID: 1, Count: 1}, {DocID: 2, Count: 3}, {DocID: 7, Count: 1}},
				CFreq:    4,
			},
		},
		{
			name:  "reserved trailing fields preserved",
			value: "1:1,reserved1,reserved2",
			want: TermRecord{
				Postings: []Posting{{DocID: 1, Count: 1}},
				CFreq:    1,
				Reserved: []string{"reserved1", "reserved2"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTermRecord("term", tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeTermRecordCorruption(t *testing.T) {
	tests := []string{
		"missing-colon",
		"abc:1",
		"1=x:1",
		"1:notanumber",
	}
	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			if _, err := DecodeTermRecord("term", v); err == nil {
				t.Errorf("DecodeTermRecord(%q) expected error, got nil", v)
			} else if _, ok := err.(*CorruptionError); !ok {
				t.Errorf("expected *CorruptionError, got %T", err)
			}
		})
	}
}

func TestEncodeTermRecordRoundTrip(t *testing.T) {
	records := []TermRecord{
		{Postings: []Posting{{DocID: 1, Count: 1}}, CFreq: 1},
		{Postings: []Posting{{DocID: 5, Count: 3}, {DocID: 9, Count: 1}}, CFreq: 4},
		{Postings: nil, CFreq: 0},
	}
	for _, r := range records {
		encoded := EncodeTermRecord(r)
		got, err := DecodeTermRecord("term", encoded)
		if err != nil {
			t.Fatalf("decode(encode(%+v)) failed: %v", r, err)
		}
		want := r
		if want.Postings == nil {
			want.Postings = nil
		}
		if !reflect.DeepEqual(got.Postings, r.Postings) || got.CFreq != r.CFreq {
			t.Errorf("round-trip mismatch: got %+v, want %+v", got, r)
		}
	}
}

func TestAppendPosting(t *testing.T) {
	empty := TermRecord{}
	first := AppendPosting(empty, 1, 1)
	want := TermRecord{Postings: []Posting{{DocID: 1, Count: 1}}, CFreq: 1}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("got %+v, want %+v", first, want)
	}

	second := AppendPosting(first, 2, 3)
	want2 := TermRecord{
		Postings: []Posting{{DocID: 1, Count: 1}, {DocID: 2, Count: 3}},
		CFreq:    4,
	}
	if !reflect.DeepEqual(second, want2) {
		t.Errorf("got %+v, want %+v", second, want2)
	}

	// AppendPosting must not mutate its input.
	if len(first.Postings) != 1 {
		t.Errorf("AppendPosting mutated its input: %+v", first)
	}
}

func TestAppendPostingEncodesSingleCountWithoutSuffix(t *testing.T) {
	r := AppendPosting(TermRecord{}, 42, 1)
	got := EncodeTermRecord(r)
	want := "42:1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAppendPostingEncodesMultiCountWithSuffix(t *testing.T) {
	r := AppendPosting(TermRecord{}, 42, 2)
	got := EncodeTermRecord(r)
	want := "42=2:2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
