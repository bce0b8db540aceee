package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"mut":    KwMut,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"import": KwImport,
	"struct": KwStruct,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
