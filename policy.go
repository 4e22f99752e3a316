package htmlmeta

import (
	"strings"
	"unicode/utf8"
)

// RemovalPolicy decides which tags are removed alone and which are removed
// together with their content.
type RemovalPolicy struct {
	alone       map[string][]TagToRemoveAlone
	withContent map[string]TagToRemoveWithContent
}

// NewRemovalPolicy builds a policy from the rules in c. When
// ConvertBrTagToBreakingLine is set, <br> is removed alone.
// If several with-content rules name the same tag, the last one wins.
func NewRemovalPolicy(c Config) *RemovalPolicy {
	p := &RemovalPolicy{
		alone:       make(map[string][]TagToRemoveAlone),
		withContent: make(map[string]TagToRemoveWithContent),
	}
	for _, r := range c.TagsToRemoveAlone {
		r.Tag = strings.ToLower(r.Tag)
		p.alone[r.Tag] = append(p.alone[r.Tag], r)
	}
	if c.ConvertBrTagToBreakingLine {
		p.alone[BrTag] = append(p.alone[BrTag], NewTagToRemoveAlone(BrTag))
	}
	for _, r := range c.TagsToRemoveWithContent {
		r.Tag = strings.ToLower(r.Tag)
		if phase, err := ParsePhase(string(r.Phase)); err == nil {
			r.Phase = phase
		}
		p.withContent[r.Tag] = r
	}
	return p
}

// IsAloneRemovable reports whether tag has an alone-removal rule.
// Fold markers are always alone-removable.
func (p *RemovalPolicy) IsAloneRemovable(tag string) bool {
	if IsFoldMarker(tag) {
		return true
	}
	_, ok := p.alone[tag]
	return ok
}

// DropAlone reports whether a record for tag spanning length characters
// must be suppressed.
func (p *RemovalPolicy) DropAlone(tag string, length int) bool {
	if IsFoldMarker(tag) {
		return true
	}
	for _, r := range p.alone[tag] {
		if r.Matches(length) {
			return true
		}
	}
	return false
}

// Wants reports whether a with-content rule exists for tag in phase.
// Callers use it to avoid rendering content no rule will look at.
func (p *RemovalPolicy) Wants(tag string, phase Phase) bool {
	r, ok := p.withContent[tag]
	return ok && r.Phase == phase
}

// MatchesTopDown reports whether a top-down rule removes tag with the given
// rendered content, excluding the tag's tail.
func (p *RemovalPolicy) MatchesTopDown(tag, content string) bool {
	return p.matches(tag, content, PhaseTopDown)
}

// MatchesBottomUp reports whether a bottom-up rule removes tag with the
// given rendered content, excluding the tag's tail.
func (p *RemovalPolicy) MatchesBottomUp(tag, content string) bool {
	return p.matches(tag, content, PhaseBottomUp)
}

func (p *RemovalPolicy) matches(tag, content string, phase Phase) bool {
	r, ok := p.withContent[tag]
	if !ok || r.Phase != phase {
		return false
	}
	return r.Matches(utf8.RuneCountInString(content))
}
