package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseSnapshotID tests snapshot ID parsing
func TestParseSnapshotID(t *testing.T) {
	if _, err := ParseSnapshotID("  "); err == nil {
		t.Error("Expected error for blank snapshot ID")
	}

	id, err := ParseSnapshotID("snap-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id.String() != "snap-1" {
		t.Errorf("Expected 'snap-1', got '%s'", id)
	}
}

// TestContentHashEquality tests that identical bytes hash identically
func TestContentHashEquality(t *testing.T) {
	a := NewContentHash([]byte("workbook-bytes"))
	b := NewContentHash([]byte("workbook-bytes"))
	c := NewContentHash([]byte("other-bytes"))

	if !a.Equals(b) {
		t.Error("Expected equal hashes for equal input")
	}
	if a.Equals(c) {
		t.Error("Expected different hashes for different input")
	}
	if Hash(a).IsEmpty() {
		t.Error("Expected non-empty hash")
	}
}
