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

func TestEncodeDocumentRecord(t *testing.T) {
	terms := []TermCount{
		{Term: "crazi", Count: 1},
		{Term: "world", Count: 2},
	}
	got := EncodeDocumentRecord(terms, 3, "doc-1")
	want := "crazi;world=2:3,doc-1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeDocumentRecordEscapesSpecialChars(t *testing.T) {
	terms := []TermCount{{Term: `a;b=c\d`, Count: 1}}
	got := EncodeDocumentRecord(terms, 1, "k")
	want := `a\;b\=c\\d:1,k`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeCallerKey(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"crazi;world=2:3,doc-1", "doc-1"},
		{"a\\;b\\=c\\\\d:1,key,with,commas", "commas"},
		{":0,", ""},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := DecodeCallerKey("key", tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeCallerKeyCorruption(t *testing.T) {
	if _, err := DecodeCallerKey("key", "no-comma-here"); err == nil {
		t.Error("expected error for missing ',' separator")
	}
}

func TestDecodeDocSize(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"crazi;world=2:3,doc-1", 3},
		{":0,", 0},
		{"term:42,key", 42},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := DecodeDocSize("key", tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeDocSizeCorruption(t *testing.T) {
	tests := []string{"no-colon-here", "term:notanumber,key"}
	for _, v := range tests {
		if _, err := DecodeDocSize("key", v); err == nil {
			t.Errorf("DecodeDocSize(%q) expected error", v)
		}
	}
}

func TestDecodeTermListRoundTrip(t *testing.T) {
	terms := []TermCount{
		{Term: "crazi", Count: 1},
		{Term: "world", Count: 2},
		{Term: `a;b`, Count: 3},
	}
	encoded := EncodeDocumentRecord(terms, 6, "doc-1")
	got, err := DecodeTermList("key", encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, terms) {
		t.Errorf("got %+v, want %+v", got, terms)
	}
}

func TestDecodeTermListEmpty(t *testing.T) {
	got, err := DecodeTermList("key", ":0,doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil term list, got %+v", got)
	}
}
