package rules

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestLibraryCandidatesExplicitExtension(t *testing.T) {
	got := libraryCandidates("plugins/life.so")
	if len(got) != 1 || got[0] != "plugins/life.so" {
		t.Fatalf("candidates = %v, want the explicit path only", got)
	}
}

func TestLibraryCandidatesWithDirectory(t *testing.T) {
	got := libraryCandidates("plugins/life")
	want := make([]string, 0, len(libraryPatterns))
	for _, pat := range libraryPatterns {
		want = append(want, filepath.Join("plugins", fmt.Sprintf(pat, "life")))
	}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLibraryCandidatesBareNameTriesLocalFirst(t *testing.T) {
	got := libraryCandidates("life")
	want := make([]string, 0, 2*len(libraryPatterns))
	for _, pat := range libraryPatterns {
		file := fmt.Sprintf(pat, "life")
		want = append(want, "./"+file, file)
	}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBindingLoadMissingLibrary(t *testing.T) {
	b := &binding{}
	err := b.load(filepath.Join(t.TempDir(), "no-such-plugin"), "update")
	if err == nil {
		t.Fatal("load succeeded for a nonexistent library")
	}
	if b.loaded() {
		t.Fatal("binding reports loaded after a failed load")
	}
}

func TestBindingUnloadIdempotent(t *testing.T) {
	b := &binding{}
	b.unload()
	b.unload()
	if b.loaded() {
		t.Fatal("zero-value binding reports loaded")
	}
}
