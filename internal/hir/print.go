package hir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"lumen/internal/ast"
	"lumen/internal/types"
)

// Printer is used to dump HIR to text format.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	indent   int
	err      error
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes every module of the program, in program order.
func Dump(w io.Writer, prog *Program) error {
	p := NewPrinter(w, prog.Types)
	for _, m := range prog.Modules {
		if err := p.PrintModule(m); err != nil {
			return err
		}
	}
	return nil
}

// DumpString is Dump into a string.
func DumpString(prog *Program) string {
	var sb strings.Builder
	_ = Dump(&sb, prog)
	return sb.String()
}

// PrintModule prints a complete module.
func (p *Printer) PrintModule(m *Module) error {
	p.line("module %s", m.Path)
	p.indent++
	for _, imp := range m.Imports {
		p.line("import %s", imp)
	}
	for _, sd := range m.Structs {
		fields := p.interner.StructFields(sd.Type)
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.Name+": "+p.typeStr(f.Type))
		}
		p.line("Struct %s { %s }", sd.Name, strings.Join(parts, ", "))
	}
	for _, g := range m.Globals {
		mut := ""
		if g.Mutable {
			mut = "mut "
		}
		p.line("Global %s%s: %s = %s", mut, g.Symbol, p.typeStr(g.Type), p.exprStr(g.Value))
	}
	for _, f := range m.Funcs {
		p.PrintFunc(f)
	}
	p.indent--
	return p.err
}

// PrintFunc prints a function.
func (p *Printer) PrintFunc(f *Func) {
	params := make([]string, 0, len(f.Params))
	for _, prm := range f.Params {
		mut := ""
		if prm.Mutable {
			mut = "mut "
		}
		params = append(params, fmt.Sprintf("%s%s: %s", mut, prm.Name, p.typeStr(prm.Type)))
	}
	head := fmt.Sprintf("Function %s(%s) -> %s", f.Symbol, strings.Join(params, ", "), p.typeStr(f.Result))
	if f.Extern {
		p.line("%s extern %q", head, f.LinkName)
		return
	}
	p.line("%s", head)
	p.indent++
	p.printBlock(f.Body)
	p.indent--
}

func (p *Printer) printBlock(b *Block) {
	if b == nil || len(b.Stmts) == 0 {
		p.line("Block []")
		return
	}
	p.line("Block")
	p.indent++
	for _, st := range b.Stmts {
		p.printStmt(st)
	}
	p.indent--
}

func (p *Printer) printStmt(st *Stmt) {
	switch data := st.Data.(type) {
	case *DeclareData:
		p.line("DeclareVariable %s: %s = %s", data.Name, p.typeStr(data.Type), p.exprStr(data.Value))
	case *ExprStmtData:
		p.line("Expr %s", p.exprStr(data.Expr))
	case *AssignData:
		p.line("Assign %s = %s", data.Name, p.exprStr(data.Value))
	case *ReturnData:
		if data.Value == nil {
			p.line("Return")
		} else {
			p.line("Return %s", p.exprStr(data.Value))
		}
	case *IfData:
		p.line("If %s", p.exprStr(data.Cond))
		p.indent++
		p.printBlock(data.Then)
		p.indent--
		if data.Else != nil {
			p.line("Else")
			p.indent++
			p.printBlock(data.Else)
			p.indent--
		}
	case *BlockData:
		p.printBlock(data.Block)
	default:
		p.line("<unknown stmt %s>", st.Kind)
	}
}

func (p *Printer) exprStr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch data := e.Data.(type) {
	case *LiteralData:
		switch data.Kind {
		case ast.LitString:
			return "Literal(" + strconv.Quote(data.Value) + ")"
		case ast.LitChar:
			r, _ := utf8.DecodeRuneInString(data.Value)
			return "Literal(" + strconv.QuoteRune(r) + ")"
		}
		return "Literal(" + data.Text + ")"
	case *LocalData:
		return "Local(" + data.Name + ")"
	case *GlobalData:
		return "Global(" + data.Symbol + ")"
	case *CallData:
		args := make([]string, 0, len(data.Args))
		for _, a := range data.Args {
			args = append(args, p.exprStr(a))
		}
		return "Call(" + data.Symbol + ", [" + strings.Join(args, ", ") + "])"
	case *BinaryData:
		return fmt.Sprintf("Binary(%s, %s, %s)", data.Op, p.exprStr(data.Left), p.exprStr(data.Right))
	case *UnaryData:
		return fmt.Sprintf("Unary(%s, %s)", data.Op, p.exprStr(data.Operand))
	case *AddressOfData:
		op := "&"
		if data.Mutable {
			op = "&mut "
		}
		return "AddressOf(" + op + p.exprStr(data.Operand) + ")"
	}
	return "<unknown expr " + e.Kind.String() + ">"
}

func (p *Printer) typeStr(id types.TypeID) string {
	return types.Label(p.interner, id)
}

func (p *Printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}
