package loader

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestRegistryLoadText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fund_deck.txt")
	if err := os.WriteFile(path, []byte("AUM: $1.20B\nNet IRR: 18.5%"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	docName, pages, err := NewDefaultRegistry().Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if docName != "fund_deck.txt" {
		t.Errorf("docName = %q, want fund_deck.txt", docName)
	}
	if len(pages) != 1 {
		t.Fatalf("expected one page for plain text, got %d", len(pages))
	}
	if pages[0].PageNum != 1 {
		t.Errorf("PageNum = %d, want 1", pages[0].PageNum)
	}
	if pages[0].Text != "AUM: $1.20B\nNet IRR: 18.5%" {
		t.Errorf("unexpected page text: %q", pages[0].Text)
	}
}

func TestRegistryLoadHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "terms.html")
	html := "<html><body><p>Management Fee: 2.0%</p></body></html>"
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	docName, pages, err := NewDefaultRegistry().Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if docName != "terms.html" {
		t.Errorf("docName = %q, want terms.html", docName)
	}
	if len(pages) != 1 {
		t.Fatalf("expected one page for HTML, got %d", len(pages))
	}
	if want := "Management Fee: 2.0%"; !strings.Contains(pages[0].Text, want) {
		t.Errorf("page text %q does not contain %q", pages[0].Text, want)
	}
}

func TestRegistryUnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, _, err := NewDefaultRegistry().Load("report.docx")
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if ufe.Path != "report.docx" {
		t.Errorf("Path = %q, want report.docx", ufe.Path)
	}
}

func TestRegistryExtensionCaseInsensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "NOTES.TXT")
	if err := os.WriteFile(path, []byte("Target IRR: 20%"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, _, err := NewDefaultRegistry().Load(path); err != nil {
		t.Fatalf("Load returned error for upper-case extension: %v", err)
	}
}

func TestRegistryExtensions(t *testing.T) {
	t.Parallel()

	exts := NewDefaultRegistry().Extensions()
	sort.Strings(exts)

	want := []string{".htm", ".html", ".pdf", ".txt"}
	if len(exts) != len(want) {
		t.Fatalf("Extensions() = %v, want %v", exts, want)
	}
	for i := range want {
		if exts[i] != want[i] {
			t.Fatalf("Extensions() = %v, want %v", exts, want)
		}
	}
}
