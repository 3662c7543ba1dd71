// Package ingest turns raw documentation pages into enriched, indexed chunks.
package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperjump/docdex/pkg/utils"
)

// Section is a titled span of page text produced by structural chunking.
type Section struct {
	Title   string
	Content string
}

// Chunker splits raw pages into sections. Structural chunking (HTML or
// Markdown headings) is preferred; when it yields nothing, paragraph-based
// chunking takes over.
type Chunker struct {
	minChunkLength     int
	paragraphChunkSize int
	paragraphGroup     int
	minTailLength      int
}

// NewChunker creates a chunker. minChunkLength is the minimum content length
// for a structural section to be retained; paragraphChunkSize and
// paragraphGroup bound paragraph accumulation; minTailLength is the minimum
// length for the final flushed remainder.
func NewChunker(minChunkLength, paragraphChunkSize, paragraphGroup, minTailLength int) *Chunker {
	return &Chunker{
		minChunkLength:     minChunkLength,
		paragraphChunkSize: paragraphChunkSize,
		paragraphGroup:     paragraphGroup,
		minTailLength:      minTailLength,
	}
}

var (
	htmlMarkerRe      = regexp.MustCompile(`(?i)<(html|body|h[1-6]|section|article|div|p)\b`)
	markdownHeadingRe = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
)

// Chunk splits raw into sections. HTML pages are parsed and split on heading
// boundaries; Markdown and plain text split on heading lines. Sections with an
// empty title or content shorter than the minimum are dropped. When no
// structural section survives, paragraph chunking is used instead.
func (c *Chunker) Chunk(raw string) ([]Section, error) {
	var sections []Section
	if htmlMarkerRe.MatchString(raw) {
		var err error
		sections, err = c.chunkHTML(raw)
		if err != nil {
			return nil, err
		}
	} else {
		sections = c.chunkMarkdown(raw)
	}
	if len(sections) == 0 {
		sections = c.chunkParagraphs(raw)
	}
	return sections, nil
}

// chunkHTML parses raw as HTML and emits one section per heading, containing
// the text between that heading and the next.
func (c *Chunker) chunkHTML(raw string) ([]Section, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var sections []Section
	var title string
	var content strings.Builder
	flush := func() {
		c.appendSection(&sections, title, content.String())
		content.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				flush()
				title = utils.CollapseWhitespace(textContent(n))
				return
			}
		}
		if n.Type == html.TextNode {
			content.WriteString(n.Data)
			content.WriteByte(' ')
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	flush()
	return sections, nil
}

// chunkMarkdown splits raw on Markdown heading lines.
func (c *Chunker) chunkMarkdown(raw string) []Section {
	var sections []Section
	var title string
	var content strings.Builder
	flush := func() {
		c.appendSection(&sections, title, content.String())
		content.Reset()
	}

	for _, line := range strings.Split(raw, "\n") {
		if m := markdownHeadingRe.FindStringSubmatch(line); m != nil {
			flush()
			title = strings.TrimSpace(m[1])
			continue
		}
		content.WriteString(line)
		content.WriteByte('\n')
	}
	flush()
	return sections
}

// appendSection adds a section when the title is non-empty and the content
// meets the minimum length; shorter or untitled fragments are dropped.
func (c *Chunker) appendSection(sections *[]Section, title, content string) {
	content = utils.CollapseWhitespace(content)
	if title == "" || len(content) <= c.minChunkLength {
		return
	}
	*sections = append(*sections, Section{Title: title, Content: content})
}

// chunkParagraphs accumulates paragraphs until the accumulated length exceeds
// the size threshold or every Nth paragraph, then emits a numbered part.
// A remainder longer than the tail minimum is flushed as a final part.
func (c *Chunker) chunkParagraphs(raw string) []Section {
	paragraphs := splitParagraphs(raw)
	var sections []Section
	var acc strings.Builder
	part := 1
	emit := func() {
		sections = append(sections, Section{
			Title:   fmt.Sprintf("Part %d", part),
			Content: strings.TrimSpace(acc.String()),
		})
		part++
		acc.Reset()
	}

	for i, p := range paragraphs {
		if acc.Len() > 0 {
			acc.WriteString("\n\n")
		}
		acc.WriteString(p)
		if acc.Len() > c.paragraphChunkSize || (i+1)%c.paragraphGroup == 0 {
			emit()
		}
	}
	if acc.Len() > c.minTailLength {
		emit()
	}
	return sections
}

func splitParagraphs(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, "\n\n") {
		p = utils.CollapseWhitespace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// textContent returns the concatenated text of a node's subtree.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
