package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"lumen/internal/mir"
)

// entryMain finds the user entry point: `fn main()` with no parameters,
// returning nothing or an i32 exit code.
func entryMain(p *mir.Program) (*mir.Func, error) {
	m := p.Module(p.Entry)
	if m == nil {
		return nil, fmt.Errorf("entry module %s is missing", p.Entry)
	}
	for _, f := range m.Funcs {
		if f.Name != "main" {
			continue
		}
		if len(f.Params) != 0 || (!f.Result.IsVoid() && f.Result != mir.Int(32)) {
			return nil, fmt.Errorf("`main` must take no parameters and return nothing or i32")
		}
		return f, nil
	}
	return nil, ErrNoMain
}

// emitNativeMain defines the C entry point that calls the user main.
func (e *Emitter) emitNativeMain() error {
	user, err := entryMain(e.prog)
	if err != nil {
		return err
	}
	fn := e.out.NewFunc("main", types.I32)
	entry := fn.NewBlock(e.names.FreshName())
	call := entry.NewCall(e.function(user.Symbol))
	if user.Result.IsVoid() {
		entry.NewRet(constant.NewInt(types.I32, 0))
		return nil
	}
	call.SetName(e.names.FreshName())
	entry.NewRet(call)
	return nil
}
