package project

import (
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/ast"
	"lumen/internal/modpath"
	"lumen/internal/source"
)

func TestCollectMetasAddsPrelude(t *testing.T) {
	fs := source.NewFileSet()
	mainFile := fs.AddVirtual("src/main.lm", []byte("import std::io;\nfn main() {}\n"))
	preludeFile := fs.AddVirtual("stdlib/std/mod.lm", []byte("fn exit() {}\n"))

	coll := ast.NewCollection()
	importSpan := source.Span{File: mainFile, Start: 7, End: 14}
	coll.Insert(&ast.Module{
		Path:    modpath.Of("src", "main"),
		File:    mainFile,
		Imports: []ast.Import{{Path: modpath.Parse("std::io"), Span: importSpan}},
	})
	coll.Insert(&ast.Module{Path: modpath.Parse("std::mod"), File: preludeFile})

	metas := CollectMetas(coll, fs, modpath.Parse("std::mod"))
	be.Equal(t, len(metas), 2)

	main := metas[0]
	be.Equal(t, main.Path, "src::main")
	be.True(t, !main.Std)
	be.Equal(t, main.Imports, []ImportMeta{{Path: "std::io", Span: importSpan}, {Path: "std::mod"}})
	be.Equal(t, main.ContentHash, Digest(fs.Get(mainFile).Hash))
	be.Equal(t, main.Span.End, uint32(len(fs.Get(mainFile).Content)))

	prelude := metas[1]
	be.Equal(t, prelude.Path, "std::mod")
	be.True(t, prelude.Std)
	be.Equal(t, len(prelude.Imports), 0)
}

func TestModuleDigestCoversPath(t *testing.T) {
	content := Digest{7}
	a := ModuleDigest("src::a", content)
	be.Equal(t, a, ModuleDigest("src::a", content))
	// тот же текст под другим путём - другой модуль
	be.True(t, a != ModuleDigest("src::b", content))
	be.True(t, a != ModuleDigest("src::a", content, Digest{1}))
	// ключ отделён от содержимого
	be.True(t, ModuleDigest("src::a", Digest{}) != ModuleDigest("src::a\x00", Digest{}))
}
