package extract

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	// KindText reads the trimmed text of the first selector match.
	KindText Kind = "text"
	// KindAttr reads one attribute of the first selector match.
	KindAttr Kind = "attr"
	// KindFallback tries each step of Chain and keeps the first non-empty value.
	KindFallback Kind = "fallback"

	// Labeled kinds search the items of their Group for a name containing Label.
	KindContentGroup  Kind = "content_group"
	KindAttributeItem Kind = "attribute_item"
	KindLabeledValue  Kind = "labeled_value"
)

func (k Kind) labeled() bool {
	return k == KindContentGroup || k == KindAttributeItem || k == KindLabeledValue
}

// Group describes a repeated block on the page: Items selects the blocks,
// Name the label inside each block and Value the content to return.
type Group struct {
	Items string `yaml:"items" json:"items"`
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
	// HTML returns the value's inner markup instead of its text.
	HTML bool `yaml:"html,omitempty" json:"html,omitempty"`
}

// Step is one link of a fallback chain. An empty Attr reads text.
type Step struct {
	Selector string `yaml:"selector" json:"selector"`
	Attr     string `yaml:"attr,omitempty" json:"attr,omitempty"`
}

type Rule struct {
	Kind     Kind   `yaml:"kind" json:"kind"`
	Selector string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Attr     string `yaml:"attr,omitempty" json:"attr,omitempty"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
	// Absolute resolves an attribute value against the page URL.
	Absolute bool   `yaml:"absolute,omitempty" json:"absolute,omitempty"`
	Chain    []Step `yaml:"chain,omitempty" json:"chain,omitempty"`
}

// Table is the whole site-specific extraction configuration, keyed by
// record field name (the JobRecord JSON key).
type Table struct {
	Groups map[Kind]Group  `yaml:"groups" json:"groups"`
	Fields map[string]Rule `yaml:"fields" json:"fields"`
}

//go:embed default_rules.yml
var defaultRules []byte

// DefaultTable returns the built-in table for 123job.vn detail pages.
func DefaultTable() (Table, error) {
	var t Table
	if err := yaml.Unmarshal(defaultRules, &t); err != nil {
		return Table{}, fmt.Errorf("parse default rules: %w", err)
	}
	return t, nil
}

// MustDefault compiles the built-in table and panics if it is broken.
func MustDefault() *RuleSet {
	t, err := DefaultTable()
	if err != nil {
		panic(err)
	}
	rs, err := Compile(t)
	if err != nil {
		panic(err)
	}
	return rs
}
