package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump пишет модуль в виде дерева с отступами; формат стабилен и используется в тестах.
func Dump(w io.Writer, m *Module) {
	fmt.Fprintf(w, "module %s\n", m.Path)
	for _, imp := range m.Imports {
		fmt.Fprintf(w, "  import %s\n", imp.Path)
	}
	for _, n := range m.Body {
		dumpNode(w, n, 1)
	}
}

// DumpString is Dump into a string.
func DumpString(m *Module) string {
	var sb strings.Builder
	Dump(&sb, m)
	return sb.String()
}

func dumpNode(w io.Writer, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, a := range n.Attrs {
		args := make([]string, 0, len(a.Args))
		for _, arg := range a.Args {
			args = append(args, arg.Text)
		}
		fmt.Fprintf(w, "%s#[%s(%s)]\n", indent, a.Name, strings.Join(args, ", "))
	}
	switch n.Kind {
	case NodeFunction:
		fn := n.Function
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			mut := ""
			if p.Mutable {
				mut = "mut "
			}
			params = append(params, fmt.Sprintf("%s%s: %s", mut, p.Name, p.Type))
		}
		fmt.Fprintf(w, "%sFunction %s(%s) -> %s\n", indent, fn.Name, strings.Join(params, ", "), fn.ReturnType)
	case NodeStruct:
		fields := make([]string, 0, len(n.Struct.Fields))
		for _, f := range n.Struct.Fields {
			fields = append(fields, fmt.Sprintf("%s: %s", f.Name, f.Type))
		}
		fmt.Fprintf(w, "%sStruct %s { %s }\n", indent, n.Struct.Name, strings.Join(fields, ", "))
	case NodeDeclare:
		d := n.Declare
		mut := ""
		if d.Mutable {
			mut = "mut "
		}
		typ := "_"
		if d.Type != nil {
			typ = d.Type.String()
		}
		fmt.Fprintf(w, "%sDeclare %s%s: %s\n", indent, mut, d.Name, typ)
	case NodeBlock:
		fmt.Fprintf(w, "%sBlock\n", indent)
	case NodeCall:
		fmt.Fprintf(w, "%sCall %s\n", indent, n.Call.Callee)
	case NodeReturn:
		fmt.Fprintf(w, "%sReturn\n", indent)
	case NodeIdent:
		fmt.Fprintf(w, "%sIdent %s\n", indent, n.Ident.Path)
	case NodeLiteral:
		fmt.Fprintf(w, "%sLiteral %s %s\n", indent, n.Literal.Kind, n.Literal.Text)
	case NodeAssign:
		fmt.Fprintf(w, "%sAssign\n", indent)
	case NodeIf:
		fmt.Fprintf(w, "%sIf\n", indent)
	case NodeBinary:
		fmt.Fprintf(w, "%sBinary %s\n", indent, n.Binary.Op)
	case NodeUnary:
		fmt.Fprintf(w, "%sUnary %s\n", indent, strings.TrimSpace(n.Unary.Op.String()))
	default:
		fmt.Fprintf(w, "%s<invalid>\n", indent)
	}
	for _, c := range Children(n) {
		dumpNode(w, c, depth+1)
	}
}
