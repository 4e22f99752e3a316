package html

import (
	"strings"

	"github.com/fwojciec/htmlmeta"
)

// Folder merges single-child nesting of the same tag.
type Folder struct {
	tags map[string]struct{}
}

// NewFolder returns a Folder for the given foldable tags.
func NewFolder(tags []string) *Folder {
	f := &Folder{tags: make(map[string]struct{}, len(tags))}
	for _, tag := range tags {
		f.tags[strings.ToLower(tag)] = struct{}{}
	}
	return f
}

// Fold folds node i with its only element child when both stand for the
// same foldable tag. The child is renamed to a fold marker and its
// attributes move to the nearest ancestor that is not a marker, values of
// shared names joined by a space. Text and tails are left untouched.
// It reports whether the tree changed.
func (f *Folder) Fold(t *Tree, i int) bool {
	n := t.Node(i)
	tag := n.EffectiveTag()
	if _, ok := f.tags[tag]; !ok || len(n.Children) != 1 {
		return false
	}
	ci := n.Children[0]
	child := t.Node(ci)
	if htmlmeta.IsFoldMarker(child.Tag) || child.Tag != tag {
		return false
	}

	target := i
	for htmlmeta.IsFoldMarker(t.Node(target).Tag) && t.Node(target).Parent >= 0 {
		target = t.Node(target).Parent
	}
	owner := t.Node(target)
	for _, a := range child.Attrs {
		if v, ok := owner.Attr(a.Key); ok {
			owner.SetAttr(a.Key, v+" "+a.Val)
		} else {
			owner.SetAttr(a.Key, a.Val)
		}
	}

	child.Attrs = []htmlmeta.Attr{{Key: htmlmeta.FoldOfAttr, Val: tag}}
	t.Rename(ci, htmlmeta.FoldMarker(tag))
	return true
}
