// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package codec encodes and decodes the packed string values stored
// under the term-record, per-document-record, and global-record key
// families. Every function here is pure and allocates no goroutines;
// malformed input is always reported as a *CorruptionError naming the
// key that failed, never as a panic.
package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// CorruptionError reports a stored record that does not parse according
// to its grammar. Key identifies which stored key produced it so callers
// can log or surface it without re-deriving context.
type CorruptionError struct {
	Key    string
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("codec: corrupt record at key %q: %s", e.Key, e.Reason)
}

// Posting is one (docId, term frequency) pair within a term record.
type Posting struct {
	DocID int
	Count int
}

// TermRecord is the decoded form of a term record: an ordered list of
// postings (insertion order, never sorted by docId) plus the collection
// frequency and any reserved trailing comma fields, which must be
// preserved byte-for-byte on writes even though this codec never
// interprets them.
type TermRecord struct {
	Postings []Posting
	CFreq    int
	Reserved []string
}

// DecodeTermRecord parses a stored term-record value. key is used only
// for error reporting.
func DecodeTermRecord(key, value string) (TermRecord, error) {
	left, right, ok := strings.Cut(value, ":")
	if !ok {
		return TermRecord{}, &CorruptionError{Key: key, Reason: "missing ':' separator in term record"}
	}

	var postings []Posting
	if left != "" {
		for _, part := range strings.Split(left, ";") {
			p, err := parsePosting(part)
			if err != nil {
				return TermRecord{}, &CorruptionError{Key: key, Reason: fmt.Sprintf("bad posting %q: %v", part, err)}
			}
			postings = append(postings, p)
		}
	}

	fields := strings.Split(right, ",")
	cfreq, err := strconv.Atoi(fields[0])
	if err != nil {
		return TermRecord{}, &CorruptionError{Key: key, Reason: fmt.Sprintf("bad cfreq %q: %v", fields[0], err)}
	}

	var reserved []string
	if len(fields) > 1 {
		reserved = fields[1:]
	}

	return TermRecord{
		Postings: postings,
		CFreq:    cfreq,
		Reserved: reserved,
	}, nil
}

// parsePosting matches a single posting against ^(\d+)(?:=(\d+))?$
// without a regexp, since the grammar is a fixed two-field split.
func parsePosting(s string) (Posting, error) {
	docPart, countPart, hasCount := strings.Cut(s, "=")
	docID, err := strconv.Atoi(docPart)
	if err != nil {
		return Posting{}, fmt.Errorf("doc id: %w", err)
	}
	count := 1
	if hasCount {
		count, err = strconv.Atoi(countPart)
		if err != nil {
			return Posting{}, fmt.Errorf("count: %w", err)
		}
	}
	return Posting{DocID: docID, Count: count}, nil
}

// EncodeTermRecord serializes a term record back to its stored form.
func EncodeTermRecord(r TermRecord) string {
	parts := make([]string, len(r.Postings))
	for i, p := range r.Postings {
		if p.Count == 1 {
			parts[i] = strconv.Itoa(p.DocID)
		} else {
			parts[i] = fmt.Sprintf("%d=%d", p.DocID, p.Count)
		}
	}

	fields := append([]string{strconv.Itoa(r.CFreq)}, r.Reserved...)
	return strings.Join(parts, ";") + ":" + strings.Join(fields, ",")
}

// AppendPosting returns the term record that results from appending one
// posting for docID with the given in-document count to an existing
// record (existing may be the zero value when the term is new). It does
// not mutate existing.Postings.
func AppendPosting(existing TermRecord, docID, count int) TermRecord {
	postings := make([]Posting, len(existing.Postings), len(existing.Postings)+1)
	copy(postings, existing.Postings)
	postings = append(postings, Posting{DocID: docID, Count: count})

	return TermRecord{
		Postings: postings,
		CFreq:    existing.CFreq + count,
		Reserved: existing.Reserved,
	}
}
