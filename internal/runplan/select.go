package runplan

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/ethpandaops/lilytest/pkg/registry"
)

// Select filters entries by the include and exclude patterns and moves the
// run_first and run_last suites to the front and back. The relative order of
// all other entries is kept.
func (p *Plan) Select(entries []registry.Entry) []registry.Entry {
	filtered := make([]registry.Entry, 0, len(entries))
	for _, e := range entries {
		if p.included(e) {
			filtered = append(filtered, e)
		}
	}

	var (
		first  = make([]registry.Entry, 0, len(p.RunFirst))
		last   = make([]registry.Entry, 0, len(p.RunLast))
		middle = make([]registry.Entry, 0, len(filtered))
		placed = make(map[int]bool, len(p.RunFirst)+len(p.RunLast))
	)

	pick := func(names StringList, into *[]registry.Entry) {
		for _, name := range names {
			for i, e := range filtered {
				if !placed[i] && matchesName(e, name) {
					placed[i] = true
					*into = append(*into, e)
				}
			}
		}
	}

	pick(p.RunFirst, &first)
	pick(p.RunLast, &last)

	for i, e := range filtered {
		if !placed[i] {
			middle = append(middle, e)
		}
	}

	out := append(first, middle...)

	return append(out, last...)
}

func (p *Plan) included(e registry.Entry) bool {
	if len(p.Include) > 0 && !matchAny(p.Include, e) {
		return false
	}

	return !matchAny(p.Exclude, e)
}

// matchAny reports whether any pattern matches the entry path or its bare
// suite name.
func matchAny(patterns []string, e registry.Entry) bool {
	for _, pattern := range patterns {
		for _, candidate := range []string{e.Path(), e.Suite.Name()} {
			if ok, _ := doublestar.Match(pattern, candidate); ok {
				return true
			}
		}
	}

	return false
}

func matchesName(e registry.Entry, name string) bool {
	return e.Suite.Name() == name || e.Path() == name
}
