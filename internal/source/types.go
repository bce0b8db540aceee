package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (stdlib, test, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// Pos is a resolved position, 0-based in every component.
type Pos struct {
	Offset uint32
	Line   uint32
	Col    uint32
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Human converts a 0-based position into its rendered form.
func (p Pos) Human() LineCol {
	return LineCol{Line: p.Line + 1, Col: p.Col + 1}
}
