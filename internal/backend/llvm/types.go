package llvm

import (
	"github.com/llir/llvm/ir/types"

	"lumen/internal/mir"
)

// llvmType maps a MIR type to its IR carrier. Bytes(n) travels as i<8n>.
func llvmType(t mir.Type) types.Type {
	switch t.Kind {
	case mir.TypeBoolean:
		return types.I1
	case mir.TypeInt, mir.TypeBytes:
		return types.NewInt(uint64(t.Bits()))
	}
	return types.Void
}

// paramType is the IR type of a parameter; pointer params are i8*.
func paramType(p mir.Param) types.Type {
	if p.Pointer {
		return types.I8Ptr
	}
	return llvmType(p.Type)
}

func intType(t mir.Type) *types.IntType {
	it, ok := llvmType(t).(*types.IntType)
	if !ok {
		panic("internal compiler error: " + t.String() + " is not carried as an integer")
	}
	return it
}
