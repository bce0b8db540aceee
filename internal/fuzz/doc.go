// Package fuzztests houses Go fuzz harnesses for the front end of the
// Lumen pipeline (source -> lexer -> parser). They guard against panics,
// hangs and broken spans on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
