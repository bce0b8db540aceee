package lexer

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDelimiter(b byte) bool {
	_, ok := delimiters[b]
	return ok
}

// isPunctByte: ASCII-пунктуация, кроме кавычек, '_' и разделителей.
func isPunctByte(b byte) bool {
	switch b {
	case '!', '#', '$', '%', '&', '*', '+', '-', '.', '/', ':', '<', '=', '>', '?', '@', '\\', '^', '|', '~', '`':
		return true
	}
	return false
}
