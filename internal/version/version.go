// Package version holds the build identity printed by `lumen version`.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
	dimColor   = color.New(color.Faint)
)

// Colored renders Version with the major, minor and patch parts in
// separate colours. Anything that is not x.y.z is returned as is.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the full text printed by `lumen version`.
func Banner() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", nameColor.Sprint("lumen"), Colored())
	if GitCommit != "" {
		fmt.Fprintf(&b, "%s %s\n", dimColor.Sprint("commit:"), GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, "%s %s\n", dimColor.Sprint("built:"), BuildDate)
	}
	fmt.Fprintf(&b, "%s %s %s/%s\n", dimColor.Sprint("go:"), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return b.String()
}
