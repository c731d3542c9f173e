// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package okapi

import "errors"

// Sentinel errors for the engine's fixed error taxonomy. Callers should
// use errors.Is against these rather than comparing strings; all of them
// may be wrapped with additional context via fmt.Errorf("...: %w", ...).
var (
	// ErrAlreadyIndexed is returned by IndexDocument when the caller key
	// has already been assigned a document id. The index is left
	// unchanged: allocation aborts before any record is written.
	ErrAlreadyIndexed = errors.New("okapi: document already indexed")

	// ErrEmptyIndex is returned by Search and SearchWithCallback before
	// any document has ever been indexed (the global record is absent).
	ErrEmptyIndex = errors.New("okapi: index is empty")

	// ErrBadQuery is returned when a query argument is neither raw text
	// nor a pre-tokenized term sequence.
	ErrBadQuery = errors.New("okapi: query must be text or a term sequence")

	// ErrCorruption is returned when a stored record cannot be decoded
	// according to the codec's grammar (§4.B of the design). The engine
	// refuses to produce partial results once this is detected.
	ErrCorruption = errors.New("okapi: corrupt index record")

	// ErrPreconditionFailed is returned at query entry, before any reads,
	// when the BM25 parameters fall outside their legal ranges.
	ErrPreconditionFailed = errors.New("okapi: precondition failed")
)
