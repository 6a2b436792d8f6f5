// Package dag orders objects so that a parent object is always processed
// before its children.
package dag

// Node is one object and the name of its parent object, if any. Names are
// already case-folded.
type Node struct {
	Name   string
	Parent string
}

type Graph struct {
	Edges   [][]NodeID // Edges[parent] = children
	Indeg   []int
	Present []bool // the object exists, not just named as a parent
}

// Problem is a parent link that could not become an edge.
type Problem struct {
	Child  string
	Parent string
	Self   bool // the object names itself as parent
}

// BuildGraph links every present object to its parent. Links to objects
// that are not present are returned as problems and left out of the graph.
func BuildGraph(idx Index, nodes []Node) (Graph, []Problem) {
	count := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, count),
		Indeg:   make([]int, count),
		Present: make([]bool, count),
	}
	for _, n := range nodes {
		if id, ok := idx.NameToID[n.Name]; ok {
			g.Present[int(id)] = true
		}
	}

	var problems []Problem
	for _, n := range nodes {
		if n.Parent == "" {
			continue
		}
		child, ok := idx.NameToID[n.Name]
		if !ok {
			continue
		}
		if n.Parent == n.Name {
			problems = append(problems, Problem{Child: n.Name, Parent: n.Parent, Self: true})
			continue
		}
		parent := idx.NameToID[n.Parent]
		if !g.Present[int(parent)] {
			problems = append(problems, Problem{Child: n.Name, Parent: n.Parent})
			continue
		}
		g.Edges[int(parent)] = append(g.Edges[int(parent)], child)
		g.Indeg[int(child)]++
	}
	return g, problems
}
