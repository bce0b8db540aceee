package types

import (
	"math/big"
)

// IsIntegral reports whether id is a signed or unsigned integer.
func (in *Interner) IsIntegral(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && (tt.Kind == KindInt || tt.Kind == KindUint)
}

func (in *Interner) IsVoid(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindVoid
}

// IsCopy: копируются только скаляры, которые в MIR становятся Int(n) или
// Boolean (char это Int(32)). Всё, что опускается в Bytes(n), перемещается:
// str, float, ссылки и структуры.
func (in *Interner) IsCopy(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return true
	}
	switch tt.Kind {
	case KindBool, KindInt, KindUint, KindChar:
		return true
	default:
		return false
	}
}

// IntFits reports whether the decimal literal text fits into the integer type id.
func (in *Interner) IntFits(id TypeID, text string) bool {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindInt && tt.Kind != KindUint) {
		return false
	}
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return false
	}
	bits := uint(tt.Width)
	var lo, hi big.Int
	if tt.Kind == KindInt {
		hi.Lsh(big.NewInt(1), bits-1)
		lo.Neg(&hi)
		hi.Sub(&hi, big.NewInt(1))
	} else {
		hi.Lsh(big.NewInt(1), bits)
		hi.Sub(&hi, big.NewInt(1))
	}
	return v.Cmp(&lo) >= 0 && v.Cmp(&hi) <= 0
}
