package jsonpath

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const eof = -1

// scanner is the rune-level cursor shared by the query parser. It keeps
// the unconsumed window [start,pos) so error positions point at the
// offending rune in the original input.
type scanner struct {
	input string

	start int
	width int
	pos   int
}

func (s *scanner) next() rune {
	if s.pos >= len(s.input) {
		s.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	s.width = w
	s.pos += s.width
	return r
}

func (s *scanner) peek() rune {
	if s.pos >= len(s.input) {
		s.width = 0
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
	return r
}

func (s *scanner) peekAt(offset int) rune {
	if s.pos+offset >= len(s.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.pos+offset:])
	return r
}

func (s *scanner) peekConsumingAllWhitespaces() rune {
	for {
		r := s.peek()
		switch r {
		case ' ', '\t', '\n', '\r':
			s.consumeNext()
		default:
			return r
		}
	}
}

// consume returns the parsed text since the last consume.
func (s *scanner) consume() string {
	value := s.input[s.start:s.pos]
	s.start = s.pos
	s.width = 0
	return value
}

func (s *scanner) consumeNext() rune {
	r := s.next()
	s.consume()
	return r
}

// parseInteger parses an integer with an optional +/- sign prefix.
func (s *scanner) parseInteger() (int, error) {
	switch r := s.peekConsumingAllWhitespaces(); {
	case r == '-' || r == '+' || unicode.IsDigit(r):
		s.next()
	default:
		return 0, fmt.Errorf("unexpected char %c in number", r)
	}
Loop:
	for {
		switch r := s.peek(); {
		case unicode.IsDigit(r):
			s.next()
		default:
			break Loop
		}
	}
	text := s.consume()
	i, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer '%s' - %v", text, err)
	}
	return int(i), nil
}

// parseQuote parses and unquotes a string inside double or single
// quotes.
func (s *scanner) parseQuote() (string, error) {
	q := s.next() // ASSERT: must be the opening '"' or '\''
Loop:
	for {
	Unescaped:
		switch s.next() {
		case eof:
			return "", fmt.Errorf("unterminated quoted string")
		case '\\':
			r := s.next()
			switch r {
			case '\n':
				return "", fmt.Errorf("newline not supported in quoted strings")
			case '\\', '/', q, 'b', 'r', 'f', 'n', 't':
				break Unescaped
			case 'u':
				if err := s.scan4DigitHex(); err != nil {
					return "", err
				}
				break Unescaped
			default:
				return "", fmt.Errorf("unexpected escaping of char: %s", string(r))
			}
		case q:
			break Loop
		}
	}
	return unquoteExtend(s.consume())
}

func (s *scanner) scan4DigitHex() error {
	for i := 0; i < 4; i++ {
		switch s.next() {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
			'A', 'a', 'B', 'b', 'C', 'c', 'D', 'd', 'E', 'e', 'F', 'f':
		default:
			return fmt.Errorf("unexpected char/len of unicode hex value")
		}
	}
	return nil
}

func (s *scanner) unwrapByDelimiters(leftDelim, rightDelim rune, inner func() error) error {
	if s.consumeNext() != leftDelim {
		return fmt.Errorf("expected left delimiter '%s'", string(leftDelim))
	}
	s.peekConsumingAllWhitespaces()
	if err := inner(); err != nil {
		return err
	}
	if s.peekConsumingAllWhitespaces() != rightDelim {
		return fmt.Errorf("expected right delimiter '%s'", string(rightDelim))
	}
	s.consumeNext()
	return nil
}
