package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []NodeID   // parents before children
	Batches [][]NodeID // depth levels of the hierarchy
	Cyclic  bool
	Cycles  []NodeID // objects left in a parent cycle
}

func ToposortKahn(g Graph) *Topo {
	count := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]NodeID, 0, count),
		Batches: make([][]NodeID, 0),
	}

	active := 0
	current := make([]NodeID, 0, count)
	for i := 0; i < count; i++ {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, nodeID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		slices.Sort(current)
		batch := make([]NodeID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]NodeID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := 0; i < count; i++ {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, nodeID(i))
			}
		}
	}
	return topo
}

// Order returns the object names parents first, ties by name. Objects
// caught in a cycle come last, by name.
func Order(nodes []Node) (order []string, problems []Problem, cycles []string) {
	idx := BuildIndex(nodes)
	g, problems := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	for _, id := range topo.Order {
		order = append(order, idx.IDToName[int(id)])
	}
	for _, id := range topo.Cycles {
		cycles = append(cycles, idx.IDToName[int(id)])
	}
	order = append(order, cycles...)
	return order, problems, cycles
}

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("object id overflow: %w", err))
	}
	return id
}
