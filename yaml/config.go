// Package yaml loads htmlmeta.Config from YAML documents. Since YAML is a
// superset of JSON, JSON configuration files load too.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/htmlmeta"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the configuration file. Optional scalars are pointers
// so that absent keys keep their defaults.
type fileConfig struct {
	AttrsToKeep                yaml.Node `yaml:"attrs_to_keep"`
	TagsToRemoveAlone          []rule    `yaml:"tags_to_remove_alone"`
	TagsToRemoveWithContent    []rule    `yaml:"tags_to_remove_with_content"`
	StartParsingAtTag          *string   `yaml:"start_parsing_at_tag"`
	ConsecutiveTagsToFold      []string  `yaml:"consecutive_tags_to_fold"`
	ConvertBrTagToBreakingLine *bool     `yaml:"convert_br_tag_to_breaking_line"`
	MaxIterations              *int      `yaml:"max_iterations"`
	MaxDepth                   *int      `yaml:"max_depth"`
}

// rule is a removal rule written either as a bare tag name or as a mapping.
type rule struct {
	Tag    string `yaml:"tag"`
	MinLen *int   `yaml:"content_min_char_length"`
	MaxLen *int   `yaml:"content_max_char_length"`
	Method string `yaml:"method"`
	Phase  string `yaml:"phase"`
}

func (r *rule) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		r.Tag = n.Value
		return nil
	}
	type plain rule
	return n.Decode((*plain)(r))
}

func (r rule) bounds() (min int, max *int) {
	if r.MinLen != nil {
		min = *r.MinLen
	}
	return min, r.MaxLen
}

// LoadConfig decodes a configuration from r on top of htmlmeta.DefaultConfig
// and validates it. An empty document yields the defaults.
func LoadConfig(r io.Reader) (*htmlmeta.Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, htmlmeta.Errorf(htmlmeta.ECONFIG, "failed to parse config: %v", err)
	}

	c := htmlmeta.DefaultConfig()

	attrs, err := attrsToKeep(&fc.AttrsToKeep)
	if err != nil {
		return nil, err
	}
	c.AttrsToKeep = attrs

	for _, r := range fc.TagsToRemoveAlone {
		min, max := r.bounds()
		c.TagsToRemoveAlone = append(c.TagsToRemoveAlone, htmlmeta.TagToRemoveAlone{
			Tag:    r.Tag,
			MinLen: min,
			MaxLen: max,
		})
	}
	for _, r := range fc.TagsToRemoveWithContent {
		method := r.Method
		if method == "" {
			method = r.Phase
		}
		phase, err := htmlmeta.ParsePhase(method)
		if err != nil {
			return nil, err
		}
		min, max := r.bounds()
		c.TagsToRemoveWithContent = append(c.TagsToRemoveWithContent, htmlmeta.TagToRemoveWithContent{
			Tag:    r.Tag,
			MinLen: min,
			MaxLen: max,
			Phase:  phase,
		})
	}

	if fc.StartParsingAtTag != nil {
		c.StartParsingAtTag = *fc.StartParsingAtTag
	}
	c.ConsecutiveTagsToFold = fc.ConsecutiveTagsToFold
	if fc.ConvertBrTagToBreakingLine != nil {
		c.ConvertBrTagToBreakingLine = *fc.ConvertBrTagToBreakingLine
	}
	if fc.MaxIterations != nil {
		c.MaxIterations = *fc.MaxIterations
	}
	if fc.MaxDepth != nil {
		c.MaxDepth = *fc.MaxDepth
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfigFile loads the configuration file at path.
func LoadConfigFile(path string) (*htmlmeta.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, htmlmeta.Errorf(htmlmeta.ECONFIG, "failed to open config: %v", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// attrsToKeep accepts a list of names, a mapping of names to booleans, or
// nothing at all, which leaves attributes unrestricted.
func attrsToKeep(n *yaml.Node) ([]string, error) {
	switch {
	case n.Kind == 0, n.ShortTag() == "!!null":
		return nil, nil
	case n.Kind == yaml.SequenceNode:
		out := []string{}
		if err := n.Decode(&out); err != nil {
			return nil, htmlmeta.Errorf(htmlmeta.ECONFIG, "attrs_to_keep: %v", err)
		}
		return out, nil
	case n.Kind == yaml.MappingNode:
		out := []string{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			var keep bool
			if err := n.Content[i+1].Decode(&keep); err != nil {
				return nil, htmlmeta.Errorf(htmlmeta.ECONFIG, "attrs_to_keep: %q is not a boolean", n.Content[i+1].Value)
			}
			if keep {
				out = append(out, n.Content[i].Value)
			}
		}
		return out, nil
	}
	return nil, htmlmeta.Errorf(htmlmeta.ECONFIG, "attrs_to_keep: expected a list or a mapping")
}
