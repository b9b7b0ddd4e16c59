// Package conv holds allocation-free numeric formatting and parsing used by
// the record codec and on-device diagnostics. No fmt/strconv dependency.
package conv

// AppendInt appends the base-10 representation of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}

// AppendUint appends the base-10 representation of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var buf [20]byte
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, buf[i:]...)
}

// AppendDeci appends a fixed-point tenths value with one decimal place,
// e.g. 231 => "23.1", -5 => "-0.5", 0 => "0.0".
func AppendDeci(dst []byte, deci int32) []byte {
	n := int64(deci)
	if n < 0 {
		dst = append(dst, '-')
		n = -n
	}
	dst = AppendUint(dst, uint64(n/10))
	dst = append(dst, '.')
	return append(dst, byte('0'+n%10))
}

// ParseInt parses a signed base-10 integer. Empty or malformed input errors.
func ParseInt(s string) (int64, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, errSyntax{}
	}
	var v int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errSyntax{}
		}
		v = v*10 + int64(c-'0')
	}
	if neg {
		v = -v
	}
	return v, nil
}

// ParseDeci parses the AppendDeci format back to tenths. A missing fraction
// ("23") is accepted as whole units; more than one fractional digit errors.
func ParseDeci(s string) (int32, error) {
	whole := s
	frac := byte('0')
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			if i+2 != len(s) {
				return 0, errSyntax{}
			}
			whole = s[:i]
			frac = s[i+1]
			break
		}
	}
	if frac < '0' || frac > '9' {
		return 0, errSyntax{}
	}
	w, err := ParseInt(whole)
	if err != nil {
		return 0, err
	}
	d := w * 10
	if len(whole) > 0 && whole[0] == '-' {
		d -= int64(frac - '0')
	} else {
		d += int64(frac - '0')
	}
	return int32(d), nil
}

type errSyntax struct{}

func (errSyntax) Error() string { return "invalid syntax" }
