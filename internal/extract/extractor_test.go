package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtract_PlainFormats(t *testing.T) {
	dir := t.TempDir()
	e := NewExtractor()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"markdown", "doc.md", "# Title\n\nBody text."},
		{"html", "doc.html", "<html><h1>Title</h1><p>Body</p></html>"},
		{"text", "doc.txt", "just text"},
		{"unknown extension", "doc.weird", "still text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			got, err := e.Extract(path)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.content {
				t.Errorf("got %q, want %q", got, tt.content)
			}
		})
	}
}

func TestExtractBytes_InvalidUTF8(t *testing.T) {
	got, err := NewExtractor().ExtractBytes([]byte{0x68, 0x69, 0xff}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "hi") {
		t.Errorf("got %q", got)
	}
	if strings.ContainsRune(got, 0xff) {
		t.Error("invalid byte survived")
	}
}

func TestExtractBytes_DOCX(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document><w:body>
<w:p><w:r><w:t>Heading One</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Body </w:t></w:r><w:r><w:t>text.</w:t></w:r></w:p>
</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(docXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := NewExtractor().ExtractBytes(buf.Bytes(), ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if !strings.Contains(got, "Heading One") {
		t.Errorf("missing heading in %q", got)
	}
	if !strings.Contains(got, "Body text.") {
		t.Errorf("missing body in %q", got)
	}
	// Paragraphs become separate lines.
	if !strings.Contains(got, "Heading One\n") {
		t.Errorf("paragraph break lost in %q", got)
	}
}

func TestExtractBytes_DOCX_NotAZip(t *testing.T) {
	if _, err := NewExtractor().ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for invalid zip")
	}
}

func TestExtractBytes_PDF_Invalid(t *testing.T) {
	if _, err := NewExtractor().ExtractBytes([]byte("not a pdf"), ".pdf"); err == nil {
		t.Error("expected error for invalid pdf")
	}
}
