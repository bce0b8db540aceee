// Package llvm generates LLVM IR from MIR with github.com/llir/llvm.
// Every MIR module becomes one IR module; SSA values, blocks and stack
// slots are named by the compilation's name counter.
package llvm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"lumen/internal/mir"
)

// DefaultTriple is the only supported target.
const DefaultTriple = "x86_64-unknown-linux-gnu"

// ErrNoMain is returned when the entry module does not define `main`.
var ErrNoMain = errors.New("entry module does not define `fn main()`")

// Namer hands out fresh names. compiler.Context satisfies it.
type Namer interface {
	FreshName() string
}

type Options struct {
	TargetTriple string
	Names        Namer
}

// Unit is the IR of one MIR module.
type Unit struct {
	Key    string
	Module *ir.Module
}

// Emit generates IR for every module of p. The entry module additionally
// gets the native `main`.
func Emit(p *mir.Program, opts Options) ([]Unit, error) {
	if opts.Names == nil {
		return nil, errors.New("llvm: no name source")
	}
	if opts.TargetTriple == "" {
		opts.TargetTriple = DefaultTriple
	}
	if p.Entry != "" {
		if _, err := entryMain(p); err != nil {
			return nil, err
		}
	}
	units := make([]Unit, 0, len(p.Modules))
	for _, m := range p.Modules {
		mod, err := EmitModule(p, m, opts)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Key, err)
		}
		units = append(units, Unit{Key: m.Key, Module: mod})
	}
	return units, nil
}

// EmitModule generates the IR module for m.
func EmitModule(p *mir.Program, m *mir.Module, opts Options) (*ir.Module, error) {
	e := &Emitter{
		prog:    p,
		mod:     m,
		out:     ir.NewModule(),
		names:   opts.Names,
		funcs:   p.Funcs(),
		globals: make(map[string]*mir.Global),
		llFuncs: make(map[string]*ir.Func),
		llGlobs: make(map[string]*ir.Global),
		strs:    make(map[string]*stringConst),
	}
	for _, pm := range p.Modules {
		for _, g := range pm.Globals {
			e.globals[g.Symbol] = g
		}
	}
	e.out.SourceFilename = m.Key
	e.out.TargetTriple = opts.TargetTriple

	for _, f := range m.Funcs {
		e.function(f.Symbol)
	}
	for _, g := range m.Globals {
		e.global(g.Symbol)
	}
	for _, f := range m.Funcs {
		if !f.HasBody() {
			continue
		}
		if err := e.emitFunc(f); err != nil {
			return nil, fmt.Errorf("function %s: %w", f.Symbol, err)
		}
	}
	if m.Key == p.Entry {
		if err := e.emitNativeMain(); err != nil {
			return nil, err
		}
	}
	return e.out, nil
}

// Emitter holds the state of one IR module.
type Emitter struct {
	prog    *mir.Program
	mod     *mir.Module
	out     *ir.Module
	names   Namer
	funcs   map[string]*mir.Func
	globals map[string]*mir.Global
	llFuncs map[string]*ir.Func
	llGlobs map[string]*ir.Global
	strs    map[string]*stringConst
}

// SymbolName is the IR name of f: its link name for externs, otherwise
// the path segments and the name joined with '.'.
func SymbolName(f *mir.Func) string {
	if f.Extern && f.LinkName != "" {
		return f.LinkName
	}
	return mangle(f.Symbol)
}

func mangle(symbol string) string {
	return strings.ReplaceAll(symbol, "::", ".")
}

// function declares (or returns the declared) IR function for symbol.
// Bodies are attached later by emitFunc.
func (e *Emitter) function(symbol string) *ir.Func {
	if fn, ok := e.llFuncs[symbol]; ok {
		return fn
	}
	f := e.funcs[symbol]
	if f == nil {
		panic("internal compiler error: call to unknown function " + symbol)
	}
	params := make([]*ir.Param, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, ir.NewParam(e.names.FreshName(), paramType(p)))
	}
	fn := e.out.NewFunc(SymbolName(f), llvmType(f.Result), params...)
	e.llFuncs[symbol] = fn
	return fn
}

// global defines a global of this module or declares one owned by another.
func (e *Emitter) global(symbol string) *ir.Global {
	if g, ok := e.llGlobs[symbol]; ok {
		return g
	}
	decl := e.globals[symbol]
	if decl == nil {
		panic("internal compiler error: unknown global " + symbol)
	}
	var g *ir.Global
	if e.ownsGlobal(symbol) {
		g = e.out.NewGlobalDef(mangle(symbol), e.literal(decl.Value, decl.Type))
		g.Immutable = !decl.Mutable
	} else {
		g = e.out.NewGlobal(mangle(symbol), llvmType(decl.Type))
		g.Linkage = enum.LinkageExternal
	}
	e.llGlobs[symbol] = g
	return g
}

func (e *Emitter) ownsGlobal(symbol string) bool {
	for _, g := range e.mod.Globals {
		if g.Symbol == symbol {
			return true
		}
	}
	return false
}
