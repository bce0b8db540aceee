package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"lumen/internal/modpath"
	"lumen/internal/source"
)

// StructField describes a single field inside a nominal struct type.
type StructField struct {
	Name string
	Type TypeID
	Span source.Span
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name   string
	Module modpath.Path
	Decl   source.Span
	Fields []StructField
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
func (in *Interner) RegisterStruct(module modpath.Path, name string, decl source.Span) TypeID {
	in.structs = append(in.structs, StructInfo{Name: name, Module: module.Normalize(), Decl: decl})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields stores the resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(typeID TypeID, fields []StructField) {
	info := in.structInfo(typeID)
	if info == nil {
		return
	}
	info.Fields = slices.Clone(fields)
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	return info, info != nil
}

// StructFields returns a copy of struct fields for the TypeID.
func (in *Interner) StructFields(typeID TypeID) []StructField {
	info := in.structInfo(typeID)
	if info == nil || len(info.Fields) == 0 {
		return nil
	}
	return slices.Clone(info.Fields)
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}
