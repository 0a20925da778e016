package logic

// WordBits is the number of bits in a Word.
const WordBits = 4

// A Word is a 4-bit vector of logic values, least significant bit first.
type Word [WordBits]Value

// WordFromUint builds a determined word from the low 4 bits of u.
func WordFromUint(u uint8) Word {
	var w Word
	for i := range w {
		w[i] = FromBool(u&(1<<i) != 0)
	}
	return w
}

// Uint returns the numeric reading of a fully determined word. The second
// return value is false if any bit is Unknown or HiZ.
func (w Word) Uint() (uint8, bool) {
	var u uint8
	for i, v := range w {
		b, ok := v.Bool()
		if !ok {
			return 0, false
		}
		if b {
			u |= 1 << i
		}
	}
	return u, true
}

// Determined returns true if every bit is Low or High.
func (w Word) Determined() bool {
	for _, v := range w {
		if !v.Determined() {
			return false
		}
	}
	return true
}

// Normalized maps every indeterminate bit to Unknown, so that a stored word
// never retains a HiZ reading.
func (w Word) Normalized() Word {
	for i, v := range w {
		if !v.Determined() {
			w[i] = Unknown
		}
	}
	return w
}

// UnknownWord returns a word with every bit Unknown.
func UnknownWord() Word {
	return Word{Unknown, Unknown, Unknown, Unknown}
}

// BitString renders the word most significant bit first, e.g. "1010".
func (w Word) BitString() string {
	buf := make([]rune, WordBits)
	for i, v := range w {
		buf[WordBits-1-i] = v.Rune()
	}
	return string(buf)
}

// ParseWord parses a most-significant-bit-first rendering produced by
// BitString.
func ParseWord(s string) (Word, bool) {
	runes := []rune(s)
	if len(runes) != WordBits {
		return Word{}, false
	}

	var w Word
	for i := range w {
		v, ok := ParseValue(string(runes[WordBits-1-i]))
		if !ok {
			return Word{}, false
		}
		w[i] = v
	}
	return w, true
}

// AddWords performs ripple addition of two words with a carry-in.
//
// Per bit, the three contributors are a's bit, b's bit, and the incoming
// carry. Each contributor is tested for determinacy on its own. With no
// indeterminate contributor the bit and the carry are exact. When the
// determined contributors alone already sum to two or more, the carry-out is
// High even though the sum bit is Unknown. In every other indeterminate case
// the carry chain is poisoned: the bit and the outgoing carry are Unknown.
func AddWords(a, b Word, cin Value) (sum Word, carry Value) {
	carry = cin

	for i := range sum {
		highs, indeterminate := 0, 0
		for _, v := range [3]Value{a[i], b[i], carry} {
			switch {
			case v == High:
				highs++
			case v != Low:
				indeterminate++
			}
		}

		switch {
		case indeterminate == 0:
			sum[i] = FromBool(highs%2 == 1)
			carry = FromBool(highs >= 2)
		case highs >= 2:
			sum[i] = Unknown
			carry = High
		default:
			sum[i] = Unknown
			carry = Unknown
		}
	}

	return sum, carry
}

// SubWords computes (a - b) mod 16 with wraparound. Both operands must be
// fully determined; otherwise every result bit and the borrow are Unknown.
// The borrow flag is High when b is greater than a as unsigned integers.
func SubWords(a, b Word) (diff Word, borrow Value) {
	ua, aOK := a.Uint()
	ub, bOK := b.Uint()
	if !aOK || !bOK {
		return UnknownWord(), Unknown
	}

	d := int(ua) - int(ub)
	if d < 0 {
		d += 16
	}

	return WordFromUint(uint8(d)), FromBool(ub > ua)
}

// AndWords combines two words bit by bit.
func AndWords(a, b Word) Word {
	var w Word
	for i := range w {
		w[i] = And(a[i], b[i])
	}
	return w
}

// OrWords combines two words bit by bit.
func OrWords(a, b Word) Word {
	var w Word
	for i := range w {
		w[i] = Or(a[i], b[i])
	}
	return w
}

// ZeroFlag reports whether a result word is zero. It is High only when every
// bit is a determined Low. Any High bit makes it Low. Any indeterminate bit
// makes it Unknown, since the word might or might not be zero.
func ZeroFlag(w Word) Value {
	zero := High
	for _, v := range w {
		switch {
		case v == High:
			return Low
		case v != Low:
			zero = Unknown
		}
	}
	return zero
}
