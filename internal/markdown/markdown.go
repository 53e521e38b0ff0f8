// Package markdown turns Markdown bodies into plain text for excerpts, search and
// reading-time estimates.
package markdown

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	md        = goldmark.New(goldmark.WithExtensions(extension.GFM))
	htmlOnce  sync.Once
	htmlStrip *bluemonday.Policy
)

// stripPolicy removes every tag and drops script/style contents, keeping visible text.
func stripPolicy() *bluemonday.Policy {
	htmlOnce.Do(func() {
		htmlStrip = bluemonday.StrictPolicy()
	})
	return htmlStrip
}

// PlainText renders body as whitespace-normalized text with all Markdown syntax removed.
//
// Heading markers, emphasis, link targets and images are dropped; link text and code
// contents are kept. Raw HTML blocks contribute only their visible text, so embedded
// <script> blocks (structured data) vanish entirely.
func PlainText(body []byte) string {
	root := md.Parser().Parse(text.NewReader(body))

	var b strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		switch node := n.(type) {
		case *gmast.HTMLBlock:
			if entering {
				var raw strings.Builder
				writeLines(&raw, node.Lines(), body)
				if node.HasClosure() {
					raw.Write(node.ClosureLine.Value(body))
				}
				b.WriteString(html.UnescapeString(stripPolicy().Sanitize(raw.String())))
				b.WriteByte(' ')
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			if entering {
				writeLines(&b, node.Lines(), body)
				b.WriteByte(' ')
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.RawHTML, *gmast.Image:
			return gmast.WalkSkipChildren, nil
		case *gmast.AutoLink:
			if entering {
				b.Write(node.Label(body))
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			if entering {
				b.Write(textValue(node, body))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *gmast.String:
			if entering {
				b.Write(node.Value)
			}
		}
		if !entering && n.Type() == gmast.TypeBlock {
			b.WriteByte(' ')
		}
		return gmast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

// WordCount counts whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// textValue resolves backslash escapes and character references the way an HTML
// renderer would. Code span contents are literal.
func textValue(node *gmast.Text, source []byte) []byte {
	v := node.Segment.Value(source)
	if p := node.Parent(); p != nil && p.Kind() == gmast.KindCodeSpan {
		return v
	}
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}

func writeLines(b *strings.Builder, lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
}
