package store

import (
	"path/filepath"
	"testing"

	"github.com/jonathan2951/mapping-specs/internal/testutil"
)

// createTestStore creates a new store in a temp directory with predictable
// record IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequenceIDGenerator("rec")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testCompilation creates a compilation with the given hashes.
func testCompilation(specHash, sqlHash string) Compilation {
	return Compilation{
		SpecHash: specHash,
		SQLHash:  sqlHash,
		Source:   "testdata/" + specHash + ".yaml",
		SQL:      "SELECT\n    1 AS one\nFROM c.s.t AS t;",
	}
}
