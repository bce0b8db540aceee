package stdlib

import (
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/modpath"
)

func TestModules(t *testing.T) {
	var names []string
	for _, p := range Modules() {
		names = append(names, p.String())
	}
	be.Equal(t, names, []string{"std::io", "std::math", "std::mod", "std::thread"})
}

func TestSource(t *testing.T) {
	src, ok := Source(modpath.Parse("std::io"))
	be.True(t, ok)
	be.True(t, len(src) > 0)

	_, ok = Source(modpath.Parse("std::net"))
	be.True(t, !ok)
	_, ok = Source(modpath.Parse("src::main"))
	be.True(t, !ok)

	be.Equal(t, VirtualPath(modpath.Parse("std::math")), "stdlib/std/math.lm")
}
