// Package classifier maps a source file's location to a human-readable
// description and a category tag.
//
// Classification is an ordered, first-match-wins walk over two levels of
// substring predicates on the lowercased path: groupings (top-level source
// divisions) and, inside a grouping, rules (sub-groupings). Several markers share a prefix
// ("plugins/effects" contains "plugins"), so the most specific rule must
// come first. The tables in rules.go are read-only after init.
package classifier

import "strings"

const modulePrefix = "tracktion_"

// Recognised source suffixes, longest first so ".hpp" is not cut as ".h".
var sourceSuffixes = []string{".cpp", ".hpp", ".h"}

// rule is one sub-grouping: a set of directory markers and the way files
// under them are described.
type rule struct {
	markers  []string
	category string
	label    string            // fallback prefix, "label: stem"
	fixed    string            // if set, every file gets this description
	known    map[string]string // lowercased stem -> description
}

func (r *rule) matches(p string) bool {
	for _, m := range r.markers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}

func (r *rule) describe(stem string) string {
	if r.fixed != "" {
		return r.fixed
	}
	if d, ok := r.known[strings.ToLower(stem)]; ok {
		return d
	}
	return r.label + ": " + stem
}

// grouping is a top-level division of the tree.
type grouping struct {
	name     string
	markers  []string
	rules    []rule
	fallback func(filename, stem string) (string, string)
}

func (g *grouping) matches(p string) bool {
	for _, m := range g.markers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}

// Classify returns the description and category for the file at relPath
// (relative to the catalog root, any separator) named filename. It never
// fails and never returns an empty description.
func Classify(relPath, filename string) (description, category string) {
	lowered := strings.ToLower(strings.ReplaceAll(relPath, "\\", "/"))
	full := "/" + lowered

	for i := range groupings {
		g := &groupings[i]
		if !g.matches(full) {
			continue
		}
		stem := Stem(filename)
		for j := range g.rules {
			r := &g.rules[j]
			if r.matches(lowered) {
				return r.describe(stem), r.category
			}
		}
		return g.fallback(filename, stem)
	}

	return "Module file: " + filename, CategoryUnknown
}

// Stem strips the module prefix and one source suffix from filename.
// The original case is preserved; callers lowercase it for lookups.
// An empty result falls back to filename.
func Stem(filename string) string {
	name := filename
	if len(name) >= len(modulePrefix) && strings.EqualFold(name[:len(modulePrefix)], modulePrefix) {
		name = name[len(modulePrefix):]
	}
	lower := strings.ToLower(name)
	for _, suf := range sourceSuffixes {
		if strings.HasSuffix(lower, suf) {
			name = name[:len(name)-len(suf)]
			break
		}
	}
	if name == "" {
		return filename
	}
	return name
}

// Groupings returns the grouping names in evaluation order.
func Groupings() []string {
	out := make([]string, 0, len(groupings))
	for _, g := range groupings {
		out = append(out, g.name)
	}
	return out
}
