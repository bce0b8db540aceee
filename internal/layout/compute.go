package layout

import (
	"lumen/internal/types"
)

func (e *LayoutEngine) computeLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	if e.Types == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{Size: 0, Align: 1}, nil
	}

	switch tt.Kind {
	case types.KindVoid:
		return TypeLayout{Size: 0, Align: 1}, nil

	case types.KindBool:
		return TypeLayout{Size: 1, Align: 1}, nil

	case types.KindInt, types.KindUint, types.KindFloat:
		return scalarLayoutBytes(int(tt.Width) / 8), nil

	case types.KindChar:
		return scalarLayoutBytes(4), nil

	case types.KindString:
		// { ptr, len }
		ptr := e.ptrLayout()
		return TypeLayout{Size: 2 * ptr.Size, Align: ptr.Align}, nil

	case types.KindReference:
		return e.ptrLayout(), nil

	case types.KindStruct:
		return e.structLayout(id, state)

	default:
		return TypeLayout{Size: 0, Align: 1}, nil
	}
}

func (e *LayoutEngine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayoutBytes(size int) TypeLayout {
	if size <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: size, Align: size}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

// structLayout - C-подобная раскладка: поля по порядку, каждое выровнено.
func (e *LayoutEngine) structLayout(id types.TypeID, state *layoutState) (TypeLayout, *LayoutError) {
	fields := e.Types.StructFields(id)
	if len(fields) == 0 {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	offsets := make([]int, len(fields))
	size := 0
	align := 1
	for i := range fields {
		fl, err := e.layoutOf(fields[i].Type, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		fAlign := max(fl.Align, 1)
		size = roundUp(size, fAlign)
		offsets[i] = size
		size += fl.Size
		align = max(align, fAlign)
	}
	size = roundUp(size, align)
	return TypeLayout{Size: size, Align: align, FieldOffsets: offsets}, nil
}
