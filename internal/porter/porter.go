// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package porter implements the Porter stemming algorithm (Porter, 1980,
// "An algorithm for suffix stripping"). It is the reference stemmer that
// spec.md assumes as the default deterministic word→stem function: it
// never allocates across goroutines, performs no I/O, and returns the
// empty string only when handed one.
//
// This is pure, allocation-light string manipulation with no natural
// home in any third-party library in the retrieval pack (no pack repo
// vendors a Porter implementation) — see DESIGN.md for the stdlib
// justification.
package porter

import "strings"

// Stem reduces word to its Porter stem. The input is assumed to already
// be lowercase alphabetic; callers (internal/lexical) are responsible
// for routing non-alphabetic tokens around the stemmer entirely, since
// the algorithm's region-finding rules assume a run of letters.
func Stem(word string) string {
	if len(word) <= 2 {
		return word
	}
	b := []byte(strings.ToLower(word))

	b = step1a(b)
	b = step1b(b)
	b = step1c(b)
	b = step2(b)
	b = step3(b)
	b = step4(b)
	b = step5a(b)
	b = step5b(b)

	return string(b)
}

func isVowel(b []byte, i int) bool {
	switch b[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	case 'y':
		if i == 0 {
			return false
		}
		return !isVowel(b, i-1)
	}
	return false
}

// measure returns the Porter "m" value: the number of VC sequences in b.
func measure(b []byte) int {
	n := 0
	i := 0
	// skip leading consonants
	for i < len(b) && !isVowel(b, i) {
		i++
	}
	for i < len(b) {
		// skip vowels
		for i < len(b) && isVowel(b, i) {
			i++
		}
		if i >= len(b) {
			break
		}
		// skip consonants
		for i < len(b) && !isVowel(b, i) {
			i++
		}
		n++
	}
	return n
}

// containsVowel reports whether the stem (b minus any suffix already
// stripped) contains a vowel anywhere.
func containsVowel(b []byte) bool {
	for i := range b {
		if isVowel(b, i) {
			return true
		}
	}
	return false
}

// endsDoubleConsonant reports whether b ends in a double consonant (e.g. "tt", "ss").
func endsDoubleConsonant(b []byte) bool {
	n := len(b)
	if n < 2 {
		return false
	}
	if b[n-1] != b[n-2] {
		return false
	}
	return !isVowel(b, n-1)
}

// endsCVC reports the "*o" condition: stem ends cons-vowel-cons, and the
// final consonant is not w, x, or y.
func endsCVC(b []byte) bool {
	n := len(b)
	if n < 3 {
		return false
	}
	if isVowel(b, n-3) || !isVowel(b, n-2) || isVowel(b, n-1) {
		return false
	}
	switch b[n-1] {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

func hasSuffix(b []byte, suf string) bool {
	return len(b) >= len(suf) && string(b[len(b)-len(suf):]) == suf
}

func trimSuffix(b []byte, n int) []byte {
	return b[:len(b)-n]
}

// replaceSuffix drops n trailing bytes and appends repl, returning the result.
func replaceSuffix(b []byte, n int, repl string) []byte {
	b = trimSuffix(b, n)
	return append(b, repl...)
}

func step1a(b []byte) []byte {
	switch {
	case hasSuffix(b, "sses"):
		return replaceSuffix(b, 2, "")
	case hasSuffix(b, "ies"):
		return replaceSuffix(b, 2, "")
	case hasSuffix(b, "ss"):
		return b
	case hasSuffix(b, "s"):
		return replaceSuffix(b, 1, "")
	}
	return b
}

func step1b(b []byte) []byte {
	switch {
	case hasSuffix(b, "eed"):
		stem := trimSuffix(b, 3)
		if measure(stem) > 0 {
			return append(stem, "ee"...)
		}
		return b
	case hasSuffix(b, "ed"):
		stem := trimSuffix(b, 2)
		if containsVowel(stem) {
			return step1bPostfix(stem)
		}
		return b
	case hasSuffix(b, "ing"):
		stem := trimSuffix(b, 3)
		if containsVowel(stem) {
			return step1bPostfix(stem)
		}
		return b
	}
	return b
}

// step1bPostfix applies the suffix-dependent cleanup used after removing
// "ed" or "ing" under step 1b.
func step1bPostfix(b []byte) []byte {
	switch {
	case hasSuffix(b, "at"), hasSuffix(b, "bl"), hasSuffix(b, "iz"):
		return append(b, 'e')
	case endsDoubleConsonant(b) && !hasSuffix(b, "l") && !hasSuffix(b, "s") && !hasSuffix(b, "z"):
		return b[:len(b)-1]
	case measure(b) == 1 && endsCVC(b):
		return append(b, 'e')
	}
	return b
}

func step1c(b []byte) []byte {
	if hasSuffix(b, "y") {
		stem := trimSuffix(b, 1)
		if containsVowel(stem) {
			return append(stem, 'i')
		}
	}
	return b
}

// step2Suffixes maps a suffix to its replacement, applied only when the
// stem before the suffix has measure > 0. Where one suffix is the tail of
// another, the longer one is listed first so e.g. "ization" wins over
// "ation".
var step2Suffixes = []struct {
	suffix, repl string
}{
	{"ational", "ate"}, {"tional", "tion"}, {"enci", "ence"}, {"anci", "ance"},
	{"izer", "ize"}, {"abli", "able"}, {"alli", "al"}, {"entli", "ent"},
	{"eli", "e"}, {"ousli", "ous"}, {"ization", "ize"}, {"ation", "ate"},
	{"ator", "ate"}, {"alism", "al"}, {"iveness", "ive"}, {"fulness", "ful"},
	{"ousness", "ous"}, {"aliti", "al"}, {"iviti", "ive"}, {"biliti", "ble"},
	{"logi", "log"},
}

func step2(b []byte) []byte {
	for _, s := range step2Suffixes {
		if hasSuffix(b, s.suffix) {
			stem := trimSuffix(b, len(s.suffix))
			if measure(stem) > 0 {
				return append(stem, s.repl...)
			}
			return b
		}
	}
	return b
}

var step3Suffixes = []struct {
	suffix, repl string
}{
	{"icate", "ic"}, {"ative", ""}, {"alize", "al"}, {"iciti", "ic"},
	{"ical", "ic"}, {"ful", ""}, {"ness", ""},
}

func step3(b []byte) []byte {
	for _, s := range step3Suffixes {
		if hasSuffix(b, s.suffix) {
			stem := trimSuffix(b, len(s.suffix))
			if measure(stem) > 0 {
				return append(stem, s.repl...)
			}
			return b
		}
	}
	return b
}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant", "ement",
	"ment", "ent", "ou", "ism", "ate", "iti", "ous", "ive", "ize",
}

func step4(b []byte) []byte {
	// "ion" is special-cased: it additionally requires the stem to end
	// in s or t.
	if hasSuffix(b, "ion") {
		stem := trimSuffix(b, 3)
		if len(stem) > 0 && (stem[len(stem)-1] == 's' || stem[len(stem)-1] == 't') && measure(stem) > 1 {
			return stem
		}
	}
	for _, suf := range step4Suffixes {
		if hasSuffix(b, suf) {
			stem := trimSuffix(b, len(suf))
			if measure(stem) > 1 {
				return stem
			}
			return b
		}
	}
	return b
}

func step5a(b []byte) []byte {
	if !hasSuffix(b, "e") {
		return b
	}
	stem := trimSuffix(b, 1)
	m := measure(stem)
	if m > 1 {
		return stem
	}
	if m == 1 && !endsCVC(stem) {
		return stem
	}
	return b
}

func step5b(b []byte) []byte {
	if measure(b) > 1 && endsDoubleConsonant(b) && hasSuffix(b, "l") {
		return b[:len(b)-1]
	}
	return b
}
