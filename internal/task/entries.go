package task

import "sort"

// ResolveEntries expands a unit's named entry patterns into a deduplicated,
// deterministic file list. Patterns are resolved in name order so repeated
// runs see the same sequence. An empty result is valid; the unit simply
// becomes a succeeding no-op.
func ResolveEntries(patterns map[string]string, resolver EntryResolver) ([]string, error) {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []string
	seen := make(map[string]struct{})
	for _, name := range names {
		matches, err := resolver.Resolve(patterns[name])
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			entries = append(entries, match)
		}
	}
	return entries, nil
}
