package dag

import (
	"slices"

	"lumen/internal/project"
)

// Graph - рёбра «импортирующий → импортируемый».
type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to
	Indeg   []int        // входящие степени для Kahn (учитывает только присутствующие модули)
	Present []bool       // признак, что модуль реально существует (а не только импортируется)
}

type ModuleSlot struct {
	Meta    project.ModuleMeta
	Present bool
}

// BuildGraph builds the import graph. It never reports: missing modules were
// already reported by the resolver and cycles are legal. Self edges and
// duplicate imports are dropped; an import of an absent module keeps its
// edge but does not count towards in-degrees.
func BuildGraph(idx ModuleIndex, metas []project.ModuleMeta) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, meta := range metas {
		if meta.Path == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Path]
		if !ok || slots[int(id)].Present {
			// коллекция не допускает дубликатов, индекс строится на тех же метаданных
			continue
		}
		slots[int(id)] = ModuleSlot{Meta: meta, Present: true}
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			toID, ok := idx.NameToID[dep.Path]
			if !ok || ModuleID(from) == toID { // #nosec G115 -- from < len(IDToName)
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

// ComputeModuleHashes fills ModuleHash of every present slot:
// H(path || content || hash(dep1) || ...), dependencies first. An edge closing a
// cycle is skipped, so hashes stay deterministic on cyclic graphs.
func ComputeModuleHashes(g Graph, slots []ModuleSlot) {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]uint8, len(slots))
	var visit func(id int)
	visit = func(id int) {
		state[id] = inProgress
		deps := make([]project.Digest, 0, len(g.Edges[id]))
		for _, to := range g.Edges[id] {
			w := int(to)
			if !g.Present[w] {
				continue
			}
			if state[w] == unvisited {
				visit(w)
			}
			if state[w] == done {
				deps = append(deps, slots[w].Meta.ModuleHash)
			}
		}
		slots[id].Meta.ModuleHash = project.ModuleDigest(slots[id].Meta.Path, slots[id].Meta.ContentHash, deps...)
		state[id] = done
	}
	for id := range slots {
		if slots[id].Present && state[id] == unvisited {
			visit(id)
		}
	}
}
