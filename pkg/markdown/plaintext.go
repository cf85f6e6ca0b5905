package markdown

import (
	"strings"

	"github.com/russross/blackfriday/v2"
)

// ToPlainText strips incidental markdown formatting from a model-produced
// reply, keeping only the literal text. Replies are shown inside chat-style
// UI bubbles where raw asterisks and backticks read as noise.
func ToPlainText(md string) string {
	if md == "" {
		return ""
	}

	parser := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	root := parser.Parse([]byte(md))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				b.Write(node.Literal)
			}
		case blackfriday.Softbreak:
			if entering {
				b.WriteString(" ")
			}
		case blackfriday.Hardbreak:
			if entering {
				b.WriteString("\n")
			}
		case blackfriday.Paragraph, blackfriday.Heading:
			// Item paragraphs get their newline from the item itself.
			if !entering && (node.Parent == nil || node.Parent.Type != blackfriday.Item) {
				b.WriteString("\n")
			}
		case blackfriday.Item:
			if entering {
				b.WriteString("• ")
			} else {
				b.WriteString("\n")
			}
		}
		return blackfriday.GoToNext
	})

	// Collapse the trailing newlines block elements leave behind.
	out := strings.TrimSpace(b.String())
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return out
}
