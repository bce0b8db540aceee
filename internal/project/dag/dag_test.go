package dag

import (
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/project"
	"lumen/internal/source"
)

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Path: "src::main",
			Imports: []project.ImportMeta{
				{Path: "std::math"},
				{Path: "src::util"},
			},
		},
		{Path: "src::util"},
	}

	idx := BuildIndex(metas)

	wantNames := []string{"src::main", "src::util", "std::math"}
	be.Equal(t, idx.IDToName, wantNames)
	for i, want := range wantNames {
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("idx.NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestBuildGraphEdges(t *testing.T) {
	mainMeta := project.ModuleMeta{
		Path: "app",
		Imports: []project.ImportMeta{
			{Path: "util", Span: source.Span{Start: 5, End: 8}},
			{Path: "core", Span: source.Span{Start: 1, End: 4}},
			{Path: "core", Span: source.Span{Start: 9, End: 12}},
			{Path: "app"},
		},
	}
	coreMeta := project.ModuleMeta{
		Path:    "core",
		Imports: []project.ImportMeta{{Path: "util"}},
	}

	idx := BuildIndex([]project.ModuleMeta{mainMeta, coreMeta})
	graph, slots := BuildGraph(idx, []project.ModuleMeta{mainMeta, coreMeta})

	appID := idx.NameToID["app"]
	coreID := idx.NameToID["core"]
	utilID := idx.NameToID["util"]

	be.Equal(t, graph.Edges[int(appID)], []ModuleID{coreID, utilID})
	be.Equal(t, graph.Edges[int(coreID)], []ModuleID{utilID})
	be.Equal(t, graph.Present, []bool{true, true, false})
	be.Equal(t, graph.Indeg[int(coreID)], 1)
	be.Equal(t, graph.Indeg[int(utilID)], 0)
	be.True(t, !slots[int(utilID)].Present)
}

func TestToposortKahnBatches(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "b", Imports: []project.ImportMeta{{Path: "c"}}},
		{Path: "a"},
		{Path: "c"},
	}

	idx := BuildIndex(metas)
	graph, _ := BuildGraph(idx, metas)

	topo := ToposortKahn(graph)
	be.True(t, !topo.Cyclic)
	be.Equal(t, idx.Names(topo.Order), []string{"a", "b", "c"})
	be.Equal(t, idx.Names(topo.DepsFirst()), []string{"c", "b", "a"})

	be.Equal(t, len(topo.Batches), 2)
	be.Equal(t, idx.Names(topo.Batches[0]), []string{"a", "b"})
	be.Equal(t, idx.Names(topo.Batches[1]), []string{"c"})
}

func TestToposortKahnCycles(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "a", Imports: []project.ImportMeta{{Path: "b"}, {Path: "x"}}},
		{Path: "b", Imports: []project.ImportMeta{{Path: "a"}}},
		{Path: "m", Imports: []project.ImportMeta{{Path: "a"}}},
		{Path: "x"},
		{Path: "p", Imports: []project.ImportMeta{{Path: "q"}}},
		{Path: "q", Imports: []project.ImportMeta{{Path: "p"}}},
	}

	idx := BuildIndex(metas)
	graph, _ := BuildGraph(idx, metas)
	topo := ToposortKahn(graph)

	be.True(t, topo.Cyclic)
	be.Equal(t, len(topo.Cycles), 2)
	be.Equal(t, idx.Names(topo.Cycles[0]), []string{"a", "b"})
	be.Equal(t, idx.Names(topo.Cycles[1]), []string{"p", "q"})
	be.Equal(t, idx.Names(topo.Order), []string{"m"})
	be.Equal(t, idx.Names(topo.Stuck), []string{"a", "b", "p", "q", "x"})
}

func TestComputeModuleHashes(t *testing.T) {
	build := func(xContent byte) []ModuleSlot {
		metas := []project.ModuleMeta{
			{Path: "a", ContentHash: project.Digest{1}, Imports: []project.ImportMeta{{Path: "b"}, {Path: "x"}}},
			{Path: "b", ContentHash: project.Digest{2}, Imports: []project.ImportMeta{{Path: "a"}}},
			{Path: "x", ContentHash: project.Digest{xContent}},
			{Path: "y", ContentHash: project.Digest{4}},
		}
		idx := BuildIndex(metas)
		graph, slots := BuildGraph(idx, metas)
		ComputeModuleHashes(graph, slots)
		return slots
	}

	first := build(3)
	again := build(3)
	changed := build(9)

	for i := range first {
		be.Equal(t, first[i].Meta.ModuleHash, again[i].Meta.ModuleHash)
	}
	// a видит x; b хешируется раньше a (ребро b→a замыкает цикл), y независим.
	be.True(t, first[0].Meta.ModuleHash != changed[0].Meta.ModuleHash)
	be.Equal(t, first[1].Meta.ModuleHash, changed[1].Meta.ModuleHash)
	be.True(t, first[2].Meta.ModuleHash != changed[2].Meta.ModuleHash)
	be.Equal(t, first[3].Meta.ModuleHash, changed[3].Meta.ModuleHash)
	be.Equal(t, first[3].Meta.ModuleHash, project.ModuleDigest("y", project.Digest{4}))
}
