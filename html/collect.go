package html

import "github.com/fwojciec/htmlmeta"

// collector walks a cleaned tree once, writing its text and recording the
// span of every node. All state lives here so concurrent extractions never
// share anything.
type collector struct {
	tree      *Tree
	text      TextBuilder
	filter    *htmlmeta.AttributeFilter
	policy    *htmlmeta.RemovalPolicy
	convertBr bool

	// ranks counts the boundaries recorded at each offset.
	ranks    map[int]int
	records  []*htmlmeta.Metadata
	verbatim int
}

// Collect returns the plain text of t and the metadata records of the
// nodes that survive alone-removal, in pre-order.
func Collect(t *Tree, filter *htmlmeta.AttributeFilter, policy *htmlmeta.RemovalPolicy, convertBr bool) (string, []*htmlmeta.Metadata) {
	c := &collector{
		tree:      t,
		filter:    filter,
		policy:    policy,
		convertBr: convertBr,
		ranks:     make(map[int]int),
	}
	c.walk(Root)

	records := make([]*htmlmeta.Metadata, 0, len(c.records))
	for _, m := range c.records {
		if !policy.DropAlone(m.Value, m.Len()) {
			records = append(records, m)
		}
	}
	return c.text.String(), records
}

func (c *collector) walk(i int) {
	n := c.tree.Node(i)
	class := htmlmeta.Classify(n.Tag)
	br := c.convertBr && n.Tag == htmlmeta.BrTag
	if br {
		class = htmlmeta.ClassPlain
	}
	pre := n.EffectiveTag() == htmlmeta.VerbatimTag

	c.text.Separate(class)
	if br {
		c.text.Newline()
	}

	start := c.text.Len()
	m := &htmlmeta.Metadata{
		Key:              htmlmeta.MetadataKey,
		Type:             htmlmeta.MetadataType,
		Value:            n.Tag,
		HTMLAttrs:        c.filter.Filter(n.Attrs),
		CharStartIdx:     start,
		RelativeStartPos: c.rank(start),
	}
	c.records = append(c.records, m)

	if pre {
		c.verbatim++
	}
	c.text.Write(n.Text, c.verbatim > 0)
	for _, child := range n.Children {
		c.walk(child)
	}
	if pre {
		c.verbatim--
	}

	end := c.text.Len()
	m.RelativeEndPos = c.rank(end)
	if end == start {
		m.SelfClosing = true
	} else {
		m.CharEndIdx = &end
	}

	c.text.Separate(class)
	c.text.Write(n.Tail, c.verbatim > 0)
}

// rank returns the next tie-breaking position at offset.
func (c *collector) rank(offset int) int {
	r := c.ranks[offset]
	c.ranks[offset] = r + 1
	return r
}
