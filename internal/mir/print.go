package mir

import (
	"fmt"
	"io"
	"strings"
)

// Printer dumps MIR in the same indented form as the HIR printer.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes every module of p in program order.
func Dump(w io.Writer, p *Program) error {
	pr := NewPrinter(w)
	for _, m := range p.Modules {
		if err := pr.PrintModule(m); err != nil {
			return err
		}
	}
	return nil
}

func DumpString(p *Program) string {
	var sb strings.Builder
	_ = Dump(&sb, p)
	return sb.String()
}

func (p *Printer) PrintModule(m *Module) error {
	p.line("module %s", m.Key)
	p.indent++
	for _, imp := range m.Imports {
		p.line("import %s", imp)
	}
	for _, g := range m.Globals {
		mut := ""
		if g.Mutable {
			mut = "mut "
		}
		p.line("Global %s%s: %s = %s", mut, g.Symbol, g.Type, literalStr(g.Value))
	}
	for _, f := range m.Funcs {
		p.PrintFunc(f)
	}
	p.indent--
	return p.err
}

func (p *Printer) PrintFunc(f *Func) {
	params := make([]string, 0, len(f.Params))
	for _, prm := range f.Params {
		s := prm.Name + ": " + prm.Type.String()
		if prm.Pointer {
			s += " ptr"
		}
		if prm.Indirect {
			s += " indirect"
		}
		params = append(params, s)
	}
	head := fmt.Sprintf("Function %s(%s) -> %s", f.Symbol, strings.Join(params, ", "), f.Result)
	if f.Extern {
		p.line("%s extern %q", head, f.LinkName)
		return
	}
	p.line("%s", head)
	p.indent++
	p.node(f.Body)
	p.indent--
}

func (p *Printer) node(n *Node) {
	switch n.Kind {
	case NodeBlock:
		if len(n.Block.Nodes) == 0 {
			p.line("Block []")
			return
		}
		p.line("Block")
		p.indent++
		for _, st := range n.Block.Nodes {
			p.node(st)
		}
		p.indent--
	case NodeDeclare:
		p.line("DeclareVariable %s: %s = %s", n.Declare.Name, n.Declare.Value.Type, exprStr(n.Declare.Value))
	case NodeAssign:
		p.line("Assign %s = %s", n.Assign.Name, exprStr(n.Assign.Value))
	case NodeReturn:
		if n.Return.Value == nil {
			p.line("Return")
		} else {
			p.line("Return %s", exprStr(n.Return.Value))
		}
	case NodeIf:
		p.line("If %s", exprStr(n.If.Cond))
		p.indent++
		p.node(n.If.Then)
		p.indent--
		if n.If.Else != nil {
			p.line("Else")
			p.indent++
			p.node(n.If.Else)
			p.indent--
		}
	default:
		p.line("Expr %s", exprStr(n))
	}
}

func exprStr(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case NodeLiteral:
		return literalStr(n.Literal)
	case NodeLocal:
		return "Local(" + n.Local.Name + ")"
	case NodeGlobal:
		return "Global(" + n.Global.Symbol + ")"
	case NodeCall:
		args := make([]string, 0, len(n.Call.Args))
		for _, a := range n.Call.Args {
			args = append(args, exprStr(a))
		}
		return "Call(" + n.Call.Symbol + ", [" + strings.Join(args, ", ") + "])"
	case NodeBinary:
		return fmt.Sprintf("Binary(%s, %s, %s)", n.Binary.Op, exprStr(n.Binary.Left), exprStr(n.Binary.Right))
	case NodeUnary:
		return fmt.Sprintf("Unary(%s, %s)", n.Unary.Op, exprStr(n.Unary.Operand))
	case NodeAddressOf:
		op := "&"
		if n.AddressOf.Mutable {
			op = "&mut "
		}
		return "AddressOf(" + op + exprStr(n.AddressOf.Operand) + ")"
	}
	return "<" + n.Kind.String() + ">"
}

func literalStr(l *Literal) string {
	if l == nil {
		return "<nil>"
	}
	return "Literal(" + l.Text + ")"
}

func (p *Printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}
