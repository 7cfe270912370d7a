package extract

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/KhuatDuy04/crawl/internal/domain"
)

// RuleSet is a compiled Table. It is safe for concurrent use.
type RuleSet struct {
	fields []field
}

type field struct {
	name    string
	set     func(*domain.JobRecord, string)
	extract func(root *goquery.Selection, base *url.URL) string
}

type group struct {
	items, name, value cascadia.Selector
	html               bool
}

// Compile validates every rule of t and compiles its selectors.
func Compile(t Table) (*RuleSet, error) {
	var problems []error

	groups := make(map[Kind]group, len(t.Groups))
	for kind, g := range t.Groups {
		if !kind.labeled() {
			problems = append(problems, fmt.Errorf("groups.%s: unknown group kind", kind))
			continue
		}
		var cg group
		var err error
		if cg.items, err = compileSel(g.Items); err != nil {
			problems = append(problems, fmt.Errorf("groups.%s.items: %w", kind, err))
		}
		if cg.name, err = compileSel(g.Name); err != nil {
			problems = append(problems, fmt.Errorf("groups.%s.name: %w", kind, err))
		}
		if cg.value, err = compileSel(g.Value); err != nil {
			problems = append(problems, fmt.Errorf("groups.%s.value: %w", kind, err))
		}
		cg.html = g.HTML
		groups[kind] = cg
	}

	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	rs := &RuleSet{}
	for _, name := range names {
		set, ok := domain.FieldSetters[name]
		if !ok {
			problems = append(problems, fmt.Errorf("fields.%s: unknown record field", name))
			continue
		}
		fn, err := compileRule(t.Fields[name], groups)
		if err != nil {
			problems = append(problems, fmt.Errorf("fields.%s: %w", name, err))
			continue
		}
		rs.fields = append(rs.fields, field{name: name, set: set, extract: fn})
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return rs, nil
}

func compileRule(r Rule, groups map[Kind]group) (func(*goquery.Selection, *url.URL) string, error) {
	switch {
	case r.Kind == KindText:
		sel, err := compileSel(r.Selector)
		if err != nil {
			return nil, err
		}
		return func(root *goquery.Selection, _ *url.URL) string {
			return strings.TrimSpace(root.FindMatcher(sel).First().Text())
		}, nil

	case r.Kind == KindAttr:
		sel, err := compileSel(r.Selector)
		if err != nil {
			return nil, err
		}
		if r.Attr == "" {
			return nil, errors.New("attr is required")
		}
		attr, absolute := r.Attr, r.Absolute
		return func(root *goquery.Selection, base *url.URL) string {
			v := root.FindMatcher(sel).First().AttrOr(attr, "")
			if absolute {
				return resolve(base, v)
			}
			return v
		}, nil

	case r.Kind == KindFallback:
		if len(r.Chain) == 0 {
			return nil, errors.New("chain must have at least one step")
		}
		type step struct {
			sel  cascadia.Selector
			attr string
		}
		steps := make([]step, 0, len(r.Chain))
		for i, s := range r.Chain {
			sel, err := compileSel(s.Selector)
			if err != nil {
				return nil, fmt.Errorf("chain[%d]: %w", i, err)
			}
			steps = append(steps, step{sel: sel, attr: s.Attr})
		}
		return func(root *goquery.Selection, _ *url.URL) string {
			for _, s := range steps {
				el := root.FindMatcher(s.sel).First()
				var v string
				if s.attr != "" {
					v = el.AttrOr(s.attr, "")
				} else {
					v = strings.TrimSpace(el.Text())
				}
				if v != "" {
					return v
				}
			}
			return ""
		}, nil

	case r.Kind.labeled():
		g, ok := groups[r.Kind]
		if !ok {
			return nil, fmt.Errorf("no group configured for kind %q", r.Kind)
		}
		if r.Label == "" {
			return nil, errors.New("label is required")
		}
		label := r.Label
		return func(root *goquery.Selection, _ *url.URL) string {
			return g.lookup(root, label)
		}, nil
	}
	return nil, fmt.Errorf("unknown rule kind %q", r.Kind)
}

// lookup returns the value of the first item whose name contains label.
// If that item has no value element the result is "", later items are not
// considered.
func (g group) lookup(root *goquery.Selection, label string) string {
	var out string
	root.FindMatcher(g.items).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		name := strings.TrimSpace(item.FindMatcher(g.name).First().Text())
		if !strings.Contains(name, label) {
			return true
		}
		v := item.FindMatcher(g.value).First()
		if v.Length() == 0 {
			return false
		}
		if g.html {
			h, err := v.Html()
			if err == nil {
				out = strings.TrimSpace(h)
			}
			return false
		}
		out = strings.TrimSpace(v.Text())
		return false
	})
	return out
}

// Apply runs every rule against doc. Missing targets yield "", it never fails.
// doc.Url, when set, is the base for relative attribute values.
func (rs *RuleSet) Apply(doc *goquery.Document) domain.JobRecord {
	var rec domain.JobRecord
	if rs == nil || doc == nil {
		return rec
	}
	for _, f := range rs.fields {
		f.set(&rec, f.extract(doc.Selection, doc.Url))
	}
	return rec
}

// Fields lists the record fields this set fills, sorted.
func (rs *RuleSet) Fields() []string {
	out := make([]string, 0, len(rs.fields))
	for _, f := range rs.fields {
		out = append(out, f.name)
	}
	return out
}

func compileSel(s string) (cascadia.Selector, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("selector is required")
	}
	sel, err := cascadia.Compile(s)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", s, err)
	}
	return sel, nil
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
