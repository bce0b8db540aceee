package compiler

// NameCounter выдаёт свежие имена: число в base-16 с цифрами 'a'..'p',
// чтобы имена не путались с шестнадцатеричными литералами в IR.
// 0 → "a", 15 → "p", 16 → "ba".
type NameCounter struct {
	next uint64
}

const nameAlphabet = "abcdefghijklmnop"

// Next returns a name never returned before by this counter.
func (c *NameCounter) Next() string {
	n := c.next
	c.next++
	return EncodeName(n)
}

// Count is the number of names handed out so far.
func (c *NameCounter) Count() uint64 {
	return c.next
}

// EncodeName renders n over the a..p alphabet, most significant digit first.
func EncodeName(n uint64) string {
	var buf [16]byte
	i := len(buf)
	for {
		i--
		buf[i] = nameAlphabet[n%16]
		n /= 16
		if n == 0 {
			break
		}
	}
	return string(buf[i:])
}
