// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// TermCount is one entry of a per-document record's term list: a term
// and the number of times it occurred in that document.
type TermCount struct {
	Term  string
	Count int
}

// escapeTerm prefixes ';', '=', and '\' with a backslash, in that
// priority: '\' itself must be escaped first or a term containing a
// backslash followed by a literal ';' would be ambiguous on decode.
func escapeTerm(term string) string {
	var b strings.Builder
	for _, r := range term {
		switch r {
		case '\\', ';', '=':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// unescapeTerm reverses escapeTerm.
func unescapeTerm(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EncodeDocumentRecord builds a per-document record: the `;`-joined,
// escaped term list (only when count >= 2 is the count suffix emitted),
// followed by ":"+docSize+","+callerKey. callerKey is written verbatim,
// unescaped — it is only ever read back as the suffix after the final
// ",".
func EncodeDocumentRecord(terms []TermCount, docSize int, callerKey string) string {
	parts := make([]string, len(terms))
	for i, tc := range terms {
		escaped := escapeTerm(tc.Term)
		if tc.Count >= 2 {
			parts[i] = fmt.Sprintf("%s=%d", escaped, tc.Count)
		} else {
			parts[i] = escaped
		}
	}
	return strings.Join(parts, ";") + ":" + strconv.Itoa(docSize) + "," + callerKey
}

// DecodeCallerKey extracts the caller key from a per-document record
// using the documented fast path: find the last "," and take everything
// after it. It never decodes the escaped term list.
func DecodeCallerKey(key, value string) (string, error) {
	idx := strings.LastIndexByte(value, ',')
	if idx < 0 {
		return "", &CorruptionError{Key: key, Reason: "no ',' separator in per-document record"}
	}
	return value[idx+1:], nil
}

// DecodeDocSize reads docSize from a per-document record by scanning for
// the ":" boundary and parsing the decimal digits up to the next ",".
func DecodeDocSize(key, value string) (int, error) {
	colon := strings.IndexByte(value, ':')
	if colon < 0 {
		return 0, &CorruptionError{Key: key, Reason: "no ':' boundary in per-document record"}
	}
	rest := value[colon+1:]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return 0, &CorruptionError{Key: key, Reason: "no ',' after docSize in per-document record"}
	}
	size, err := strconv.Atoi(rest[:comma])
	if err != nil {
		return 0, &CorruptionError{Key: key, Reason: fmt.Sprintf("bad docSize %q: %v", rest[:comma], err)}
	}
	return size, nil
}

// DecodeTermList decodes the escaped term list portion of a per-document
// record. The core never calls this on the hot read path (per the
// documented fast path above) but it is provided for round-trip tests
// and forward-compatible tooling that does want the term list back.
func DecodeTermList(key, value string) ([]TermCount, error) {
	colon := strings.IndexByte(value, ':')
	if colon < 0 {
		return nil, &CorruptionError{Key: key, Reason: "no ':' boundary in per-document record"}
	}
	left := value[:colon]
	if left == "" {
		return nil, nil
	}

	entries := splitUnescaped(left, ';')
	out := make([]TermCount, 0, len(entries))
	for _, entry := range entries {
		term, countStr, hasCount := cutUnescaped(entry, '=')
		count := 1
		if hasCount {
			c, err := strconv.Atoi(countStr)
			if err != nil {
				return nil, &CorruptionError{Key: key, Reason: fmt.Sprintf("bad term count %q: %v", countStr, err)}
			}
			count = c
		}
		out = append(out, TermCount{Term: unescapeTerm(term), Count: count})
	}
	return out, nil
}

// splitUnescaped splits s on sep, ignoring occurrences of sep that are
// preceded by an odd number of backslashes (i.e. escaped).
func splitUnescaped(s string, sep byte) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			cur.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			cur.WriteByte(c)
			escaped = true
			continue
		}
		if c == sep {
			out = append(out, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	out = append(out, cur.String())
	return out
}

// cutUnescaped finds the first unescaped occurrence of sep in s and
// splits there, mirroring strings.Cut's (before, after, found) shape.
func cutUnescaped(s string, sep byte) (before, after string, found bool) {
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
