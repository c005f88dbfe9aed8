package cache

import (
	"os"
	"path/filepath"
	"testing"

	"DiligenceScanner/internal/domain"
)

func TestStorePutGetRoundtrip(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}

	doc := domain.NewExtractedDoc("fund_deck.txt")
	doc.AUM.Value = domain.Ptr(1.2e9)
	doc.AUM.Confidence = 0.95
	doc.AUM.Evidence = domain.Evidence{DocName: "fund_deck.txt", Page: domain.Ptr(1), Snippet: "AUM: $1.20B"}
	doc.Notes = append(doc.Notes, "note kept verbatim")

	hash := "1111111111111111111111111111111111111111111111111111111111111111"
	if err := store.Put(hash, doc); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok, err := store.Get(hash)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit after Put")
	}
	if got.DocName != "fund_deck.txt" {
		t.Errorf("DocName = %q, want fund_deck.txt", got.DocName)
	}
	if got.AUM.Value == nil || *got.AUM.Value != 1.2e9 {
		t.Errorf("AUM value not preserved: %+v", got.AUM.Value)
	}
	if got.AUM.Confidence != 0.95 {
		t.Errorf("AUM confidence = %v, want 0.95", got.AUM.Confidence)
	}
	if len(got.Notes) != 1 || got.Notes[0] != "note kept verbatim" {
		t.Errorf("Notes not preserved: %v", got.Notes)
	}
}

func TestStoreGetMiss(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}

	_, ok, err := store.Get("2222222222222222222222222222222222222222222222222222222222222222")
	if err != nil {
		t.Fatalf("Get on missing entry returned error: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss")
	}
}

func TestStoreGetCorruptEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}

	hash := "3333333333333333333333333333333333333333333333333333333333333333"
	if err := os.WriteFile(filepath.Join(dir, hash+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt entry: %v", err)
	}

	if _, _, err := store.Get(hash); err == nil {
		t.Fatal("expected an error for a corrupt cache entry")
	}
}

func TestStoreGetRepairsNilSlices(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}

	hash := "4444444444444444444444444444444444444444444444444444444444444444"
	entry := []byte(`{"doc_name": "hand_edited.txt", "notes": null, "missing_fields": null}`)
	if err := os.WriteFile(filepath.Join(dir, hash+".json"), entry, 0o644); err != nil {
		t.Fatalf("write entry: %v", err)
	}

	got, ok, err := store.Get(hash)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Notes == nil || got.MissingFields == nil {
		t.Error("expected nil slices to be repaired to empty slices")
	}
}
