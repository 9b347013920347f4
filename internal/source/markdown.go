package source

import (
	"strings"

	"github.com/dgnsrekt/brl/utils"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// PlainText reduces a Markdown document to the text a reader would see.
// Headings, paragraphs and list items become one line each, code blocks are
// kept line by line, links and images keep their text, and HTML is dropped.
func PlainText(markdown string) string {
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var lines []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if l := strings.TrimSpace(inlineText(n, source)); l != "" {
				lines = append(lines, l)
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\r\n"))
			}
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(lines, "\n")
}

func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			switch {
			case c.HardLineBreak():
				b.WriteByte('\n')
			case c.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.URL(source))
		case *ast.RawHTML:
			// dropped
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}

// Prepare readies a document for transliteration. Markdown documents lose
// their frontmatter and are reduced to plain text; anything else is returned
// as is, so a leading "---" line in a text file is kept.
func Prepare(doc string, markdown bool) string {
	if !markdown {
		return doc
	}
	return PlainText(string(utils.RemoveFrontmatter([]byte(doc))))
}
