package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindChar
	KindStruct
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindChar:
		return "char"
	case KindStruct:
		return "struct"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // для ссылок
	Width   Width  // для числовых примитивов
	Mutable bool   // для ссылок
	Payload uint32 // индекс StructInfo для nominal-типов
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable}
}
