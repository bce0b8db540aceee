package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"lumen/internal/testkit"
	"lumen/stdlib"
)

const maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса

// addCorpusSeeds feeds the stdlib sources and every source fence of the
// scenario files to the fuzzer.
func addCorpusSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("fn main() {}\n"))
	for _, p := range stdlib.Modules() {
		if src, ok := stdlib.Source(p); ok {
			f.Add(clampSeed(src))
		}
	}

	paths, err := filepath.Glob(filepath.Join("..", "testkit", "testdata", "*.md"))
	if err != nil {
		return
	}
	for _, path := range paths {
		// #nosec G304 -- path comes from repository testdata
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cases, err := testkit.ExtractCases(data)
		if err != nil {
			continue
		}
		for _, c := range cases {
			for _, file := range c.Files {
				f.Add(clampSeed([]byte(file.Text)))
			}
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func truncateForLog(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
