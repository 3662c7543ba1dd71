package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// docxDocumentPath is the main document body inside a .docx package.
const docxDocumentPath = "word/document.xml"

// wordTextRe matches <w:t>text</w:t> including variants with attributes
// such as xml:space="preserve".
var wordTextRe = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// paragraphEndRe marks paragraph boundaries so headings stay on their own lines.
var paragraphEndRe = regexp.MustCompile(`</w:p>`)

// extractDOCX extracts text from .docx bytes. DOCX is a ZIP containing
// word/document.xml (OOXML); all <w:t> text nodes are collected so content is
// searchable regardless of run attributes, with paragraph breaks preserved
// as newlines.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("extract DOCX: open %s: %w", f.Name, err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("extract DOCX: read %s: %w", f.Name, err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("extract DOCX: %s not found", docxDocumentPath)
	}

	// Turn paragraph ends into newlines before collecting text nodes so the
	// chunker still sees paragraph boundaries.
	marked := paragraphEndRe.ReplaceAllString(string(docXML), "\n")
	var b strings.Builder
	for _, line := range strings.Split(marked, "\n") {
		parts := wordTextRe.FindAllStringSubmatch(line, -1)
		for i, p := range parts {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.TrimSpace(p[1]))
		}
		if len(parts) > 0 {
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String()), nil
}
