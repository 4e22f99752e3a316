package html

import (
	"io"
	"strings"

	"github.com/fwojciec/htmlmeta"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderInner serializes the content of the root element: its text and
// every child together with its tail. The root tag itself is not written.
func (t *Tree) RenderInner() (string, error) {
	var b strings.Builder
	if err := t.renderInner(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Render serializes the tree including the root element.
func (t *Tree) Render(w io.Writer) error {
	if err := html.Render(w, t.toNode(Root)); err != nil {
		return htmlmeta.Errorf(htmlmeta.EINTERNAL, "failed to render HTML: %v", err)
	}
	return nil
}

func (t *Tree) renderInner(w io.Writer) error {
	root := t.toNode(Root)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return htmlmeta.Errorf(htmlmeta.EINTERNAL, "failed to render HTML: %v", err)
		}
	}
	return nil
}

func (t *Tree) toNode(i int) *html.Node {
	n := t.Node(i)
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if n.Text != "" {
		out.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		out.AppendChild(t.toNode(c))
		if tail := t.Node(c).Tail; tail != "" {
			out.AppendChild(&html.Node{Type: html.TextNode, Data: tail})
		}
	}
	return out
}
