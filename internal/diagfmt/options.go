package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	Context   int // строк контекста до строки с ошибкой
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	IncludeNotes     bool
	Max              int // обрезка вывода, не Bag
}
