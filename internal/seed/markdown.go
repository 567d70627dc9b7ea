package seed

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Summarize extracts plain text from markdown and truncates it to max
// runes. The summary column is what the keyword filter searches, so
// markup must not leak into it.
func Summarize(markdown string, max int) string {
	plain := plainText([]byte(markdown))
	runes := []rune(plain)
	if len(runes) <= max {
		return plain
	}
	return strings.TrimSpace(string(runes[:max]))
}

// plainText walks the goldmark AST collecting text segments. Code blocks
// are skipped; their content is markup, not prose.
func plainText(source []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
