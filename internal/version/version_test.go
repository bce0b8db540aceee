package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	noColor := color.NoColor
	color.NoColor = true
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origV, origC, origD
		color.NoColor = noColor
	})
}

func TestColoredKeepsText(t *testing.T) {
	cases := []string{"0.1.0", "1.2.3-rc.1", "weird", "1.2"}
	for _, v := range cases {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestBannerOptionalLines(t *testing.T) {
	withVersion(t, "0.1.0-dev", "", "")
	b := Banner()
	if !strings.HasPrefix(b, "lumen 0.1.0-dev\n") {
		t.Fatalf("unexpected banner %q", b)
	}
	if strings.Contains(b, "commit:") || strings.Contains(b, "built:") {
		t.Fatalf("empty fields printed: %q", b)
	}

	withVersion(t, "1.0.0", "abc123", "2026-01-15")
	b = Banner()
	for _, want := range []string{"commit: abc123", "built: 2026-01-15", "go: "} {
		if !strings.Contains(b, want) {
			t.Fatalf("missing %q in %q", want, b)
		}
	}
}
