package compiler

import "lumen/internal/modpath"

// Options - настройки одной компиляции.
type Options struct {
	// Status включает печать прогресса по фазам.
	Status bool
	// Extension - расширение исходников без точки.
	Extension string
	// MaxDiagnostics ограничивает размер Bag.
	MaxDiagnostics int
	// Prelude неявно импортируется каждым пользовательским модулем.
	Prelude modpath.Path
}

const (
	DefaultExtension      = "lm"
	DefaultMaxDiagnostics = 100
)

// DefaultOptions returns the options used by the CLI unless overridden.
func DefaultOptions() Options {
	return Options{
		Extension:      DefaultExtension,
		MaxDiagnostics: DefaultMaxDiagnostics,
		Prelude:        modpath.Of("std", "mod"),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Extension == "" {
		o.Extension = def.Extension
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = def.MaxDiagnostics
	}
	if o.Prelude.Empty() {
		o.Prelude = def.Prelude
	}
	return o
}
