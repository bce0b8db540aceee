package modpath

import (
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestConstructorsArePure(t *testing.T) {
	base := Single("src")
	a := base.Join("main")
	b := base.Join("util")

	be.Equal(t, base.String(), "src")
	be.Equal(t, a.String(), "src::main")
	be.Equal(t, b.String(), "src::util")

	withExt := a.WithExtension(".lm")
	be.Equal(t, withExt.Ext, "lm")
	be.Equal(t, a.Ext, "")
	be.True(t, withExt.Equal(a))
}

func TestNormalizeAndParse(t *testing.T) {
	p := Parse("std::::io")
	be.Equal(t, p.Segments, []string{"std", "io"})
	be.True(t, p.IsStd())
	be.Equal(t, Of("src", ".", "main").Key(), "src::main")
	be.Equal(t, Entry("lm").Key(), "src::main")
	be.True(t, !Parse("src::main").IsStd())
	be.Equal(t, Parse("").Empty(), true)
}

func TestFilePathAndMangle(t *testing.T) {
	p := Of("src", "net", "http")
	be.Equal(t, p.FilePath("/proj", "lm"), filepath.Join("/proj", "src", "net", "http.lm"))
	be.Equal(t, p.Mangle(), "src.net.http")
	be.Equal(t, Entry("x").FilePath("/r", "lm"), filepath.Join("/r", "src", "main.x"))
}

func TestCompare(t *testing.T) {
	be.Equal(t, Parse("src::a").Compare(Parse("src::b")), -1)
	be.Equal(t, Parse("std::io").Compare(Parse("src::main")), 1)
	be.Equal(t, Parse("std::io").Compare(Parse("std::io")), 0)
}
