package jsonpath

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// isIdentStart reports whether r may begin an unquoted identifier in a
// dot step. '$' is a legal leading key character after '.'.
func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

// isIdentRune reports whether r may continue an unquoted dot-step
// identifier. The charset is wider than in brackets: ':' and '-' occur
// in real-world keys and cannot collide with slice syntax here.
func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || r == ':' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isAlphaNumeric reports whether r is a letter, digit, or underscore.
func isAlphaNumeric(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// unquoteExtend is almost the same as strconv.Unquote(), but it also
// accepts single quotes around a string.
func unquoteExtend(s string) (string, error) {
	n := len(s)
	if n < 2 {
		return "", fmt.Errorf("quoted str too short")
	}
	quote := s[0]
	if quote != s[n-1] {
		return "", fmt.Errorf("start quote not matching end quote")
	}
	s = s[1 : n-1]

	if quote != '"' && quote != '\'' {
		return "", fmt.Errorf("expected single or double quotes")
	}

	// Is it trivial? Avoid allocation.
	if !containsByte(s, '\\') && !containsByte(s, quote) {
		return s, nil
	}

	var runeTmp [utf8.UTFMax]byte
	buf := make([]byte, 0, 3*len(s)/2)
	for len(s) > 0 {
		c, multibyte, ss, err := strconv.UnquoteChar(s, quote)
		if err != nil {
			return "", err
		}
		s = ss
		if c < utf8.RuneSelf || !multibyte {
			buf = append(buf, byte(c))
		} else {
			n := utf8.EncodeRune(runeTmp[:], c)
			buf = append(buf, runeTmp[:n]...)
		}
	}
	return string(buf), nil
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}
