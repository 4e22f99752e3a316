package html

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/htmlmeta"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Parse decodes input, parses it as an HTML document and returns the tree
// rooted at the first element matching selector. An empty selector, or one
// matching nothing, roots the tree at the <html> element.
// Nesting deeper than maxDepth elements below the root fails with ETOODEEP.
func Parse(input []byte, selector string, maxDepth int) (*Tree, error) {
	// Sniffing only looks at the first 1024 bytes, so valid UTF-8 is
	// taken as is rather than risk a legacy-encoding guess.
	var r io.Reader = bytes.NewReader(input)
	if !utf8.Valid(input) {
		var err error
		r, err = charset.NewReader(r, "")
		if err != nil {
			return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "failed to decode HTML: %v", err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "failed to parse HTML: %v", err)
	}

	var start *html.Node
	if selector != "" {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			start = sel.Get(0)
		}
	}
	if start == nil {
		start = documentElement(doc.Get(0))
	}
	if start == nil {
		return NewTree("html", nil), nil
	}

	t := NewTree(start.Data, convertAttrs(start.Attr))
	b := &builder{tree: t, maxDepth: maxDepth}
	if err := b.children(Root, start.FirstChild, 1); err != nil {
		return nil, err
	}
	return t, nil
}

// parseFragment parses markup as the content of an element with the given
// tag and attributes.
func parseFragment(markup, tag string, attrs []htmlmeta.Attr, maxDepth int) (*Tree, error) {
	contextNode := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), contextNode)
	if err != nil {
		return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "failed to parse HTML fragment: %v", err)
	}

	// ParseFragment returns orphaned siblings; link them so the builder
	// can walk them like children of a real node.
	parent := &html.Node{Type: html.ElementNode, Data: tag}
	for _, n := range nodes {
		parent.AppendChild(n)
	}

	t := NewTree(tag, attrs)
	b := &builder{tree: t, maxDepth: maxDepth}
	if err := b.children(Root, parent.FirstChild, 1); err != nil {
		return nil, err
	}
	return t, nil
}

// documentElement returns the <html> element of a document node.
func documentElement(doc *html.Node) *html.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == html.ElementNode {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// builder copies an x/net/html subtree into a Tree.
type builder struct {
	tree     *Tree
	maxDepth int
}

// children appends the siblings starting at first below parent. Text
// before the first element joins the parent's text; text after an element
// joins that element's tail. Comments and doctypes are dropped.
func (b *builder) children(parent int, first *html.Node, depth int) error {
	last := -1
	for c := first; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if last < 0 {
				b.tree.Node(parent).Text += c.Data
			} else {
				b.tree.Node(last).Tail += c.Data
			}
		case html.ElementNode:
			if depth > b.maxDepth {
				return htmlmeta.Errorf(htmlmeta.ETOODEEP, "document nesting exceeds %d levels", b.maxDepth)
			}
			last = b.tree.Append(parent, c.Data, convertAttrs(c.Attr))
			if err := b.children(last, c.FirstChild, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func convertAttrs(attrs []html.Attribute) []htmlmeta.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]htmlmeta.Attr, 0, len(attrs))
	for _, a := range attrs {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		out = append(out, htmlmeta.Attr{Key: key, Val: a.Val})
	}
	return out
}
