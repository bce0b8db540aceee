package mir

import "fmt"

// TypeKind enumerates the canonical MIR types.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBytes
	TypeBoolean
	TypeInt
)

// Type is a lowered type. N is the byte count for Bytes and the bit width
// for Int; it is zero otherwise.
type Type struct {
	Kind TypeKind `msgpack:"k"`
	N    uint32   `msgpack:"n,omitempty"`
}

// Void is the type of functions without a result.
func Void() Type { return Type{Kind: TypeVoid} }

// Boolean is the lowered bool.
func Boolean() Type { return Type{Kind: TypeBoolean} }

// Bytes is an opaque value of n bytes.
func Bytes(n uint32) Type { return Type{Kind: TypeBytes, N: n} }

// Int is an integer of the given bit width.
func Int(width uint32) Type { return Type{Kind: TypeInt, N: width} }

func (t Type) IsVoid() bool { return t.Kind == TypeVoid }

// Bits returns the storage width in bits, 0 for Void.
func (t Type) Bits() uint32 {
	switch t.Kind {
	case TypeBoolean:
		return 1
	case TypeInt:
		return t.N
	case TypeBytes:
		return t.N * 8
	}
	return 0
}

func (t Type) String() string {
	switch t.Kind {
	case TypeVoid:
		return "Void"
	case TypeBoolean:
		return "Boolean"
	case TypeInt:
		return fmt.Sprintf("Int(%d)", t.N)
	case TypeBytes:
		return fmt.Sprintf("Bytes(%d)", t.N)
	}
	return "Invalid"
}

// valid reports whether t belongs to the closed MIR type set.
func (t Type) valid() bool {
	switch t.Kind {
	case TypeVoid, TypeBoolean:
		return t.N == 0
	case TypeBytes:
		return t.N > 0
	case TypeInt:
		switch t.N {
		case 1, 8, 16, 32, 64:
			return true
		}
	}
	return false
}
