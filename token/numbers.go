package token

// number returns the length of the JSON number at the start of d. A number
// that is malformed still reports the bytes it consumed so the caller can
// skip them.
func number(d []byte) (int, error) {
	i := 0
	if i < len(d) && d[i] == '-' {
		i++
	}
	digits := asciiDigits(d[i:])
	if digits == 0 {
		return max(i, literalRun(d[i:])+i), ErrNumber
	}
	var err error
	if digits > 1 && d[i] == '0' {
		err = ErrNumber
	}
	i += digits
	f := fract(d[i:])
	if f < 0 {
		return i + 1, ErrNumber
	}
	i += f
	e := exp(d[i:])
	if e < 0 {
		return i + 1, ErrNumber
	}
	return i + e, err
}

func asciiDigits(d []byte) int {
	i := 0
	for i < len(d) {
		if !asciiDigit(d[i]) {
			return i
		}
		i++
	}
	return i
}

func asciiDigit(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}

// exp returns -1 for an exponent marker not followed by digits.
func exp(d []byte) int {
	if len(d) == 0 {
		return 0
	}
	switch d[0] {
	case 'e', 'E':
	default:
		return 0
	}
	i := 1
	if i < len(d) {
		switch d[i] {
		case '+', '-':
			i++
		}
	}
	n := asciiDigits(d[i:])
	if n == 0 {
		return -1
	}
	return n + i
}

// fract returns -1 for a '.' not followed by digits (rfc 7159).
func fract(d []byte) int {
	if len(d) == 0 || d[0] != '.' {
		return 0
	}
	n := asciiDigits(d[1:])
	if n == 0 {
		return -1
	}
	return n + 1
}
