// Package etree renders extraction results as annotated XML: the plain text
// wrapped in one element per metadata record.
package etree

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/htmlmeta"
)

// RootTag is the tag of the document element of an annotation.
const RootTag = "document"

// boundary orders record boundaries sharing a character offset by the rank
// assigned to them during extraction.
type boundary struct {
	offset, rank int
}

func (b boundary) less(o boundary) bool {
	if b.offset != o.offset {
		return b.offset < o.offset
	}
	return b.rank < o.rank
}

type open struct {
	el  *etree.Element
	end boundary
}

// Annotate builds an XML document whose character data is res.Text and
// whose elements mirror res.Metadata. Records must nest; overlapping spans
// fail with EINVALID.
func Annotate(res *htmlmeta.Result) (*etree.Document, error) {
	text := []rune(res.Text)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(RootTag)

	var stack []open
	cursor := 0
	parent := func() *etree.Element {
		if len(stack) == 0 {
			return root
		}
		return stack[len(stack)-1].el
	}
	flush := func(el *etree.Element, to int) {
		if to > cursor {
			el.CreateText(string(text[cursor:to]))
			cursor = to
		}
	}

	for i, m := range res.Metadata {
		start := boundary{m.CharStartIdx, m.RelativeStartPos}
		end := boundary{m.CharStartIdx + m.Len(), m.RelativeEndPos}
		if start.offset < cursor || end.offset > len(text) {
			return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "metadata %d: span [%d, %d) out of order", i, start.offset, end.offset)
		}

		for len(stack) > 0 && stack[len(stack)-1].end.less(start) {
			top := stack[len(stack)-1]
			flush(top.el, top.end.offset)
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 && stack[len(stack)-1].end.less(end) {
			return nil, htmlmeta.Errorf(htmlmeta.EINVALID, "metadata %d: <%s> overlaps its enclosing record", i, m.Value)
		}

		flush(parent(), start.offset)
		el := parent().CreateElement(m.Value)
		for j, name := range m.HTMLAttrs.Names {
			el.CreateAttr(name, m.HTMLAttrs.Values[j])
		}
		stack = append(stack, open{el: el, end: end})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		flush(top.el, top.end.offset)
		stack = stack[:len(stack)-1]
	}
	flush(root, len(text))

	return doc, nil
}

// Text returns the character data of el and its descendants in document
// order.
func Text(el *etree.Element) string {
	var b strings.Builder
	writeText(&b, el)
	return b.String()
}

func writeText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			writeText(b, t)
		}
	}
}
