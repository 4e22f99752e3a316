// Package html implements htmlmeta.Extractor on top of golang.org/x/net/html.
//
// Documents are parsed into an arena Tree whose nodes carry lxml-style text
// and tail strings, cleaned until a fixpoint is reached, then walked once to
// produce the plain text and its metadata records.
package html

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/htmlmeta"
)

// Root is the index of the root node of every Tree.
const Root = 0

// Node is an element of a Tree. Text holds the characters between the open
// tag and the first child; Tail holds the characters between the close tag
// and the next sibling or the parent's close tag.
type Node struct {
	Tag      string
	Attrs    []htmlmeta.Attr
	Text     string
	Tail     string
	Parent   int
	Children []int
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, appending it if absent.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, htmlmeta.Attr{Key: key, Val: val})
}

// EffectiveTag returns the tag a node stands for: the folded tag for fold
// markers, the node's own tag otherwise.
func (n *Node) EffectiveTag() string {
	if htmlmeta.IsFoldMarker(n.Tag) {
		if tag, ok := n.Attr(htmlmeta.FoldOfAttr); ok {
			return tag
		}
	}
	return n.Tag
}

// Tree is an arena of nodes addressed by index. Removed nodes stay in the
// arena but are unreachable from Root.
type Tree struct {
	nodes []Node
}

// NewTree returns a tree holding a single root element.
func NewTree(tag string, attrs []htmlmeta.Attr) *Tree {
	return &Tree{nodes: []Node{{Tag: tag, Attrs: attrs, Parent: -1}}}
}

// Node returns the node at index i.
func (t *Tree) Node(i int) *Node {
	return &t.nodes[i]
}

// Append adds a new element as the last child of parent and returns its index.
func (t *Tree) Append(parent int, tag string, attrs []htmlmeta.Attr) int {
	i := len(t.nodes)
	t.nodes = append(t.nodes, Node{Tag: tag, Attrs: attrs, Parent: parent})
	t.nodes[parent].Children = append(t.nodes[parent].Children, i)
	return i
}

// Rename changes the tag of node i.
func (t *Tree) Rename(i int, tag string) {
	t.nodes[i].Tag = tag
}

// Remove detaches node i and its subtree. The node's tail moves to the
// previous sibling's tail, or to the parent's text when i is the first
// child. The root cannot be removed.
func (t *Tree) Remove(i int) {
	n := &t.nodes[i]
	if n.Parent < 0 {
		return
	}
	p := &t.nodes[n.Parent]
	pos := slices.Index(p.Children, i)
	if pos < 0 {
		return
	}
	if n.Tail != "" {
		if pos > 0 {
			prev := &t.nodes[p.Children[pos-1]]
			prev.Tail = splice(prev.Tail, n.Tail)
		} else {
			p.Text = splice(p.Text, n.Tail)
		}
	}
	p.Children = slices.Delete(p.Children, pos, pos+1)
	n.Parent = -1
	n.Tail = ""
}

// Depth returns the number of ancestors of node i.
func (t *Tree) Depth(i int) int {
	d := 0
	for p := t.nodes[i].Parent; p >= 0; p = t.nodes[p].Parent {
		d++
	}
	return d
}

// Content returns the text rendered by node i and its descendants,
// excluding the node's own tail.
func (t *Tree) Content(i int) string {
	var b strings.Builder
	t.writeContent(&b, i)
	return b.String()
}

func (t *Tree) writeContent(b *strings.Builder, i int) {
	n := &t.nodes[i]
	b.WriteString(n.Text)
	for _, c := range n.Children {
		t.writeContent(b, c)
		b.WriteString(t.nodes[c].Tail)
	}
}

// Walk calls fn for every node reachable from Root in pre-order.
func (t *Tree) Walk(fn func(i int, n *Node)) {
	var walk func(i int)
	walk = func(i int) {
		fn(i, &t.nodes[i])
		for _, c := range t.nodes[i].Children {
			walk(c)
		}
	}
	walk(Root)
}

// splice joins a and b without producing two adjacent separators.
func splice(a, b string) string {
	last, _ := utf8.DecodeLastRuneInString(a)
	if a == "" || !unicode.IsSpace(last) {
		return a + b
	}
	return a + strings.TrimLeftFunc(b, unicode.IsSpace)
}
