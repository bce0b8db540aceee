package ast

// Inspect обходит дерево в глубину в порядке исходника; если f вернул false,
// дети узла пропускаются.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Children returns the direct sub-nodes of n in source order.
func Children(n *Node) []*Node {
	switch n.Kind {
	case NodeBlock:
		return n.Block.Stmts
	case NodeDeclare:
		return nonNil(n.Declare.Value)
	case NodeCall:
		return n.Call.Args
	case NodeReturn:
		return nonNil(n.Return.Value)
	case NodeFunction:
		return nonNil(n.Function.Body)
	case NodeAssign:
		return nonNil(n.Assign.Target, n.Assign.Value)
	case NodeIf:
		return nonNil(n.If.Cond, n.If.Then, n.If.Else)
	case NodeBinary:
		return nonNil(n.Binary.Left, n.Binary.Right)
	case NodeUnary:
		return nonNil(n.Unary.Operand)
	}
	return nil
}

func nonNil(nodes ...*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
