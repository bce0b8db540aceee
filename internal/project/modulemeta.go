package project

import (
	"crypto/sha256"

	"lumen/internal/ast"
	"lumen/internal/modpath"
	"lumen/internal/source"
)

// Digest is a SHA-256 sum; it has the layout of source.File.Hash.
type Digest [32]byte

// ModuleDigest hashes a module: H(key || 0 || content || dep1 || dep2 ...).
// The logical path is part of the sum, so a moved file with unchanged
// text gets a new hash. deps must come in a deterministic order.
func ModuleDigest(key string, content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(key))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

type ImportMeta struct {
	Path string
	Span source.Span
}

// ModuleMeta - то, что граф модулей знает о модуле: путь, импорты, хеши.
type ModuleMeta struct {
	Path        string       // нормализованный логический путь: "src::main"
	Span        source.Span  // span всего файла
	Std         bool         // модуль из встроенной библиотеки
	Imports     []ImportMeta // в порядке исходника; неявный prelude последним
	ContentHash Digest       // хеш содержимого файла (из FileSet)
	ModuleHash  Digest       // агрегированный хеш модуля с учётом зависимостей
}

// CollectMetas extracts metadata from every module in the collection, ordered
// by path. prelude is added as an implicit import of every other module.
func CollectMetas(coll *ast.Collection, files *source.FileSet, prelude modpath.Path) []ModuleMeta {
	mods := coll.Modules()
	metas := make([]ModuleMeta, 0, len(mods))
	for _, m := range mods {
		f := files.Get(m.File)
		meta := ModuleMeta{
			Path:        m.Path.Key(),
			Span:        source.Span{File: m.File, Start: 0, End: uint32(len(f.Content))}, // #nosec G115 -- размер файла ограничен FileSet
			Std:         m.Path.IsStd(),
			Imports:     make([]ImportMeta, 0, len(m.Imports)+1),
			ContentHash: Digest(f.Hash),
		}
		for _, imp := range m.Imports {
			meta.Imports = append(meta.Imports, ImportMeta{Path: imp.Path.Key(), Span: imp.Span})
		}
		if !m.Path.Equal(prelude) {
			meta.Imports = append(meta.Imports, ImportMeta{Path: prelude.Key()})
		}
		metas = append(metas, meta)
	}
	return metas
}
