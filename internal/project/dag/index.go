package dag

import (
	"sort"
)

type NodeID uint32

// Index assigns dense ids to object names in sorted order.
type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// BuildIndex collects every object name, including parents that are only
// referenced, sorts them and hands out ids in that order.
func BuildIndex(nodes []Node) Index {
	uniq := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Name != "" {
			uniq[n.Name] = struct{}{}
		}
		if n.Parent != "" {
			uniq[n.Parent] = struct{}{}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]NodeID, len(names))
	for i, name := range names {
		nameToID[name] = NodeID(i) // #nosec G115 -- bounded by the manifest size
	}

	return Index{
		NameToID: nameToID,
		IDToName: names,
	}
}
