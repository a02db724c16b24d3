package activation

import (
	"path/filepath"
	"sort"
	"testing"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAddRemove(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "layla.db"))

	if s.IsActive("chan-1") {
		t.Error("fresh store should have no active channels")
	}

	if err := s.Add("chan-1"); err != nil {
		t.Fatalf("adding channel: %v", err)
	}
	if !s.IsActive("chan-1") {
		t.Error("channel should be active after Add")
	}

	// Adding twice must not error.
	if err := s.Add("chan-1"); err != nil {
		t.Fatalf("re-adding channel: %v", err)
	}

	if err := s.Remove("chan-1"); err != nil {
		t.Fatalf("removing channel: %v", err)
	}
	if s.IsActive("chan-1") {
		t.Error("channel should be inactive after Remove")
	}

	// Removing an absent channel must not error.
	if err := s.Remove("never-added"); err != nil {
		t.Fatalf("removing absent channel: %v", err)
	}
}

func TestStoreList(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "layla.db"))

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Add(id); err != nil {
			t.Fatalf("adding %q: %v", id, err)
		}
	}

	got := s.List()
	sort.Strings(got)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("List returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layla.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	if err := s.Add("chan-keep"); err != nil {
		t.Fatalf("adding channel: %v", err)
	}
	if err := s.Add("chan-drop"); err != nil {
		t.Fatalf("adding channel: %v", err)
	}
	if err := s.Remove("chan-drop"); err != nil {
		t.Fatalf("removing channel: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	reopened := openTestStore(t, path)
	if !reopened.IsActive("chan-keep") {
		t.Error("persisted channel lost across reopen")
	}
	if reopened.IsActive("chan-drop") {
		t.Error("removed channel resurrected across reopen")
	}
}
