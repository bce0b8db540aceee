package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Invalid TypeID
	Void    TypeID
	Bool    TypeID
	String  TypeID
	Char    TypeID
	I8      TypeID
	I16     TypeID
	I32     TypeID
	I64     TypeID
	U8      TypeID
	U16     TypeID
	U32     TypeID
	U64     TypeID
	F32     TypeID
	F64     TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal structs are never deduplicated: each RegisterStruct yields a new id.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	byName   map[string]TypeID
	structs  []StructInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.I8 = in.Intern(MakeInt(Width8))
	in.builtins.I16 = in.Intern(MakeInt(Width16))
	in.builtins.I32 = in.Intern(MakeInt(Width32))
	in.builtins.I64 = in.Intern(MakeInt(Width64))
	in.builtins.U8 = in.Intern(MakeUint(Width8))
	in.builtins.U16 = in.Intern(MakeUint(Width16))
	in.builtins.U32 = in.Intern(MakeUint(Width32))
	in.builtins.U64 = in.Intern(MakeUint(Width64))
	in.builtins.F32 = in.Intern(MakeFloat(Width32))
	in.builtins.F64 = in.Intern(MakeFloat(Width64))

	b := in.builtins
	in.byName = map[string]TypeID{
		"void": b.Void, "bool": b.Bool, "str": b.String, "char": b.Char,
		"i8": b.I8, "i16": b.I16, "i32": b.I32, "i64": b.I64,
		"u8": b.U8, "u16": b.U16, "u32": b.U32, "u64": b.U64,
		"f32": b.F32, "f64": b.F64,
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Builtin looks up a primitive by its source spelling (`i32`, `str`, ...).
func (in *Interner) Builtin(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("internal compiler error: types: invalid TypeID")
	}
	return tt
}

// Len is the number of interned descriptors, including the invalid sentinel.
func (in *Interner) Len() int {
	return len(in.types)
}

type typeKey Type
