package types

import "fmt"

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindChar:
		return "char"
	case KindInt:
		return fmt.Sprintf("i%d", tt.Width)
	case KindUint:
		return fmt.Sprintf("u%d", tt.Width)
	case KindFloat:
		return fmt.Sprintf("f%d", tt.Width)
	case KindReference:
		if tt.Mutable {
			return "&mut " + labelDepth(typesIn, tt.Elem, depth+1)
		}
		return "&" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindStruct:
		if info, ok := typesIn.StructInfo(id); ok {
			return info.Name
		}
		return "struct?"
	default:
		return "?"
	}
}
