package dag

import (
	"slices"
	"testing"
)

func idsToNames(idx Index, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func TestBuildIndexIncludesParents(t *testing.T) {
	nodes := []Node{
		{Name: "oplayer", Parent: "oactor"},
		{Name: "owall"},
	}
	idx := BuildIndex(nodes)
	want := []string{"oactor", "oplayer", "owall"}
	if !slices.Equal(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if id, ok := idx.NameToID[name]; !ok || int(id) != i {
			t.Fatalf("NameToID[%q] = %v, want %d", name, id, i)
		}
	}
}

func TestToposortParentsFirst(t *testing.T) {
	nodes := []Node{
		{Name: "oplayer", Parent: "oactor"},
		{Name: "oactor", Parent: "oentity"},
		{Name: "oentity"},
		{Name: "owall"},
		{Name: "obullet", Parent: "oentity"},
	}
	idx := BuildIndex(nodes)
	g, problems := BuildGraph(idx, nodes)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("expected acyclic hierarchy")
	}
	got := idsToNames(idx, topo.Order)
	want := []string{"oentity", "owall", "oactor", "obullet", "oplayer"}
	if !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if len(topo.Batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(topo.Batches))
	}
	if first := idsToNames(idx, topo.Batches[0]); !slices.Equal(first, []string{"oentity", "owall"}) {
		t.Fatalf("first batch = %v", first)
	}
}

func TestBuildGraphProblems(t *testing.T) {
	nodes := []Node{
		{Name: "oa", Parent: "ogone"},
		{Name: "ob", Parent: "ob"},
	}
	idx := BuildIndex(nodes)
	g, problems := BuildGraph(idx, nodes)
	if len(problems) != 2 {
		t.Fatalf("problems = %v, want 2", problems)
	}
	if problems[0].Child != "oa" || problems[0].Parent != "ogone" || problems[0].Self {
		t.Fatalf("unexpected first problem %+v", problems[0])
	}
	if !problems[1].Self {
		t.Fatalf("expected self parent problem, got %+v", problems[1])
	}
	if g.Present[int(idx.NameToID["ogone"])] {
		t.Fatalf("a parent that is only named must not be present")
	}
	topo := ToposortKahn(g)
	if got := idsToNames(idx, topo.Order); !slices.Equal(got, []string{"oa", "ob"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestOrderPutsCyclesLast(t *testing.T) {
	nodes := []Node{
		{Name: "oa", Parent: "ob"},
		{Name: "ob", Parent: "oa"},
		{Name: "oc"},
	}
	order, problems, cycles := Order(nodes)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if !slices.Equal(cycles, []string{"oa", "ob"}) {
		t.Fatalf("cycles = %v", cycles)
	}
	if !slices.Equal(order, []string{"oc", "oa", "ob"}) {
		t.Fatalf("order = %v", order)
	}
}
