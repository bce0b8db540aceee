package dag

import (
	"slices"
)

type Topo struct {
	Order   []ModuleID   // линейный порядок: импортирующие раньше импортируемых
	Batches [][]ModuleID // волны независимых модулей
	Cyclic  bool
	Cycles  [][]ModuleID // компоненты сильной связности размером > 1, по возрастанию
	Stuck   []ModuleID   // модули вне Order: участники циклов и всё, что они импортируют
}

// DepsFirst returns Order reversed, so every module follows its imports.
// Modules stuck in cycles are not part of Order.
func (t *Topo) DepsFirst() []ModuleID {
	out := slices.Clone(t.Order)
	slices.Reverse(out)
	return out
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ModuleID, 0, nodeCount),
		Batches: make([][]ModuleID, 0),
	}

	active := 0
	current := make([]ModuleID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		topo.Cycles = stronglyConnected(g)
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Stuck = append(topo.Stuck, toID(i))
			}
		}
	}
	return topo
}

// stronglyConnected is Tarjan's algorithm restricted to present modules.
func stronglyConnected(g Graph) [][]ModuleID {
	n := len(g.Edges)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		stack  []int
		next   int
		groups [][]ModuleID
	)

	var visit func(v int)
	visit = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true
		for _, to := range g.Edges[v] {
			w := int(to)
			if !g.Present[w] {
				continue
			}
			if index[w] < 0 {
				visit(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] != index[v] {
			return
		}
		var group []ModuleID
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			group = append(group, toID(w))
			if w == v {
				break
			}
		}
		if len(group) > 1 {
			slices.Sort(group)
			groups = append(groups, group)
		}
	}

	for v := range n {
		if g.Present[v] && index[v] < 0 {
			visit(v)
		}
	}
	slices.SortFunc(groups, func(a, b []ModuleID) int { return int(a[0]) - int(b[0]) })
	return groups
}
