package llvm

import (
	"math"
	"math/big"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"lumen/internal/mir"
)

type stringConst struct {
	global *ir.Global
	data   *constant.CharArray
}

// literal builds the constant for a MIR literal of type t.
func (e *Emitter) literal(lit *mir.Literal, t mir.Type) constant.Constant {
	switch lit.Kind {
	case mir.LitBool:
		return constant.NewBool(lit.Text == "true")
	case mir.LitInt, mir.LitChar:
		return intConst(intType(t), lit.Text)
	case mir.LitFloat:
		return e.floatBits(lit.Text, t)
	case mir.LitString:
		return e.stringValue(lit.Value)
	}
	panic("internal compiler error: unknown literal kind")
}

// intConst parses a decimal literal and wraps it into the signed range of
// typ, so u64 max prints as -1 the way LLVM expects.
func intConst(typ *types.IntType, text string) *constant.Int {
	x, ok := new(big.Int).SetString(text, 10)
	if !ok {
		panic("internal compiler error: bad integer literal " + text)
	}
	bits := uint(typ.BitSize)
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	x.Mod(x, mod)
	if x.Cmp(new(big.Int).Rsh(mod, 1)) >= 0 {
		x.Sub(x, mod)
	}
	return &constant.Int{Typ: typ, X: x}
}

func (e *Emitter) floatBits(text string, t mir.Type) constant.Constant {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		panic("internal compiler error: bad float literal " + text)
	}
	if t.N == 4 {
		return constant.NewInt(types.I32, int64(int32(math.Float32bits(float32(v)))))
	}
	return constant.NewInt(types.I64, int64(math.Float64bits(v)))
}

// stringValue packs {ptr, len} into an i128: the pointer in the low word,
// the length in the high word.
func (e *Emitter) stringValue(s string) constant.Constant {
	if s == "" {
		return constant.NewInt(types.I128, 0)
	}
	sc, ok := e.strs[s]
	if !ok {
		data := constant.NewCharArrayFromString(s)
		g := e.out.NewGlobalDef("str."+e.names.FreshName(), data)
		g.Immutable = true
		g.Linkage = enum.LinkagePrivate
		sc = &stringConst{global: g, data: data}
		e.strs[s] = sc
	}
	zero := constant.NewInt(types.I64, 0)
	ptr := constant.NewPtrToInt(constant.NewGetElementPtr(sc.data.Typ, sc.global, zero, zero), types.I128)
	length := new(big.Int).Lsh(big.NewInt(int64(len(s))), 64)
	return constant.NewAdd(ptr, &constant.Int{Typ: types.I128, X: length})
}
