package html

import (
	"log/slog"
	"slices"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/htmlmeta"
)

// CleanStats describes a run of the structural cleaning loop.
type CleanStats struct {
	Iterations int
	Converged  bool
}

// Cleaner repeatedly folds and prunes a tree until its minified markup
// stops changing.
type Cleaner struct {
	Policy        *htmlmeta.RemovalPolicy
	Folder        *Folder
	MaxIterations int
	MaxDepth      int
	Logger        *slog.Logger
}

// Clean runs the fixpoint loop on t and returns the cleaned tree. Each
// iteration serializes and minifies the tree, parses the markup back,
// applies one depth-first pass and compares the new markup with the
// previous one. Hitting MaxIterations is not an error: the tree obtained
// so far is returned with Converged unset.
func (c *Cleaner) Clean(t *Tree) (*Tree, CleanStats, error) {
	root := t.Node(Root)
	tag, attrs := root.Tag, root.Attrs

	markup, err := c.markup(t)
	if err != nil {
		return nil, CleanStats{}, err
	}
	digest := xxhash.Sum64String(markup)

	for i := 1; i <= c.MaxIterations; i++ {
		tree, err := parseFragment(markup, tag, attrs, c.MaxDepth)
		if err != nil {
			return nil, CleanStats{}, err
		}
		c.visit(tree, Root)

		next, err := c.markup(tree)
		if err != nil {
			return nil, CleanStats{}, err
		}
		nextDigest := xxhash.Sum64String(next)
		changed := nextDigest != digest
		c.logger().Debug("cleaning pass", "iteration", i, "changed", changed)
		if !changed {
			return tree, CleanStats{Iterations: i, Converged: true}, nil
		}

		// Folding may have moved attributes onto the root.
		attrs = tree.Node(Root).Attrs
		markup, digest = next, nextDigest
	}

	c.logger().Warn("cleaning did not converge", "iterations", c.MaxIterations)
	tree, err := parseFragment(markup, tag, attrs, c.MaxDepth)
	if err != nil {
		return nil, CleanStats{}, err
	}
	return tree, CleanStats{Iterations: c.MaxIterations}, nil
}

// visit applies folding and removal to the subtree at i. Top-down rules see
// a child's content before its own subtree is cleaned; bottom-up rules see
// what is left afterwards.
func (c *Cleaner) visit(t *Tree, i int) {
	if c.Folder != nil && c.Folder.Fold(t, i) {
		c.logger().Debug("folded", "tag", t.Node(i).EffectiveTag())
	}

	for _, ci := range slices.Clone(t.Node(i).Children) {
		tag := t.Node(ci).EffectiveTag()
		if c.remove(t, ci, tag, htmlmeta.PhaseTopDown) {
			continue
		}
		c.visit(t, ci)
		c.remove(t, ci, tag, htmlmeta.PhaseBottomUp)
	}
}

func (c *Cleaner) remove(t *Tree, i int, tag string, phase htmlmeta.Phase) bool {
	if c.Policy == nil || !c.Policy.Wants(tag, phase) {
		return false
	}
	content := t.Content(i)
	var matched bool
	if phase == htmlmeta.PhaseTopDown {
		matched = c.Policy.MatchesTopDown(tag, content)
	} else {
		matched = c.Policy.MatchesBottomUp(tag, content)
	}
	if !matched {
		return false
	}
	c.logger().Debug("removed with content",
		"tag", tag,
		"phase", string(phase),
		"length", utf8.RuneCountInString(content),
	)
	t.Remove(i)
	return true
}

func (c *Cleaner) markup(t *Tree) (string, error) {
	s, err := t.RenderInner()
	if err != nil {
		return "", err
	}
	return Minify(s)
}

func (c *Cleaner) logger() *slog.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)
