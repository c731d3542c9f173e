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

// GlobalKey is the single-space key under which the global record lives.
const GlobalKey = " "

// Global is the decoded form of the global record: corpus-level
// counters plus the free-list head.
type Global struct {
	DocCount   int
	TotalTerms int
	// FreeHead is the decimal id at the head of the free list, or ""
	// when no document has ever been deallocated.
	FreeHead string
}

// DecodeGlobal parses the global record's value: "docCount,totalTerms,freeHead".
func DecodeGlobal(value string) (Global, error) {
	fields := strings.SplitN(value, ",", 3)
	if len(fields) != 3 {
		return Global{}, &CorruptionError{Key: GlobalKey, Reason: fmt.Sprintf("expected 3 comma fields, got %d", len(fields))}
	}
	docCount, err := strconv.Atoi(fields[0])
	if err != nil {
		return Global{}, &CorruptionError{Key: GlobalKey, Reason: fmt.Sprintf("bad docCount %q: %v", fields[0], err)}
	}
	totalTerms, err := strconv.Atoi(fields[1])
	if err != nil {
		return Global{}, &CorruptionError{Key: GlobalKey, Reason: fmt.Sprintf("bad totalTerms %q: %v", fields[1], err)}
	}
	return Global{DocCount: docCount, TotalTerms: totalTerms, FreeHead: fields[2]}, nil
}

// EncodeGlobal serializes a global record back to its stored form.
func EncodeGlobal(g Global) string {
	return strconv.Itoa(g.DocCount) + "," + strconv.Itoa(g.TotalTerms) + "," + g.FreeHead
}

// ReverseLookupKey builds the "\t"+callerKey reverse-lookup key.
func ReverseLookupKey(callerKey string) string {
	return "\t" + callerKey
}

// DocumentKey builds the " "+docId per-document-record key.
func DocumentKey(docID int) string {
	return " " + strconv.Itoa(docID)
}
