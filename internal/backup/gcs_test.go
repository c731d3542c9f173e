// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package backup

import (
	"testing"
	"time"
)

func TestObjectNameIsStableAndSortable(t *testing.T) {
	target := GCSTarget{Bucket: "okapi-backups", Prefix: "prod"}
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	got := target.objectName(at)
	want := "prod/okapi-snapshot-2026-01-02T15:04:05Z.badger"
	if got != want {
		t.Errorf("objectName = %q, want %q", got, want)
	}
}

func TestObjectNameConvertsToUTC(t *testing.T) {
	target := GCSTarget{Bucket: "b", Prefix: "p"}
	loc := time.FixedZone("UTC-5", -5*60*60)
	at := time.Date(2026, 1, 2, 10, 0, 0, 0, loc)

	got := target.objectName(at)
	want := "p/okapi-snapshot-2026-01-02T15:00:00Z.badger"
	if got != want {
		t.Errorf("objectName = %q, want %q (expected UTC conversion)", got, want)
	}
}
