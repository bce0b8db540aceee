package driver

import (
	"lumen/internal/compiler"
	"lumen/internal/project"
	"lumen/internal/project/dag"
)

// ModuleGraph is the import graph of the loaded modules. Cycles are legal
// in Lumen; the graph only records them.
type ModuleGraph struct {
	Index dag.ModuleIndex
	Graph dag.Graph
	Slots []dag.ModuleSlot
	Topo  *dag.Topo
}

func buildModuleGraph(ctx *compiler.Context) *ModuleGraph {
	metas := project.CollectMetas(ctx.Modules, ctx.Files, ctx.Options.Prelude)
	idx := dag.BuildIndex(metas)
	g, slots := dag.BuildGraph(idx, metas)
	dag.ComputeModuleHashes(g, slots)
	return &ModuleGraph{Index: idx, Graph: g, Slots: slots, Topo: dag.ToposortKahn(g)}
}

// Order lists module keys so that every module follows its imports.
// Modules caught in cycles are appended at the end in key order.
func (m *ModuleGraph) Order() []string {
	out := m.Index.Names(m.Topo.DepsFirst())
	return append(out, m.Index.Names(m.Topo.Stuck)...)
}

// CycleNames returns each import cycle as module keys.
func (m *ModuleGraph) CycleNames() [][]string {
	out := make([][]string, 0, len(m.Topo.Cycles))
	for _, c := range m.Topo.Cycles {
		out = append(out, m.Index.Names(c))
	}
	return out
}

// Imports returns the direct imports of key, prelude included.
func (m *ModuleGraph) Imports(key string) []string {
	id, ok := m.Index.NameToID[key]
	if !ok {
		return nil
	}
	return m.Index.Names(m.Graph.Edges[int(id)])
}

// Hash returns the aggregated module hash of key.
func (m *ModuleGraph) Hash(key string) (project.Digest, bool) {
	id, ok := m.Index.NameToID[key]
	if !ok || !m.Slots[int(id)].Present {
		return project.Digest{}, false
	}
	return m.Slots[int(id)].Meta.ModuleHash, true
}
