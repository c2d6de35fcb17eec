package scanner

import (
	"strconv"

	"github.com/havrydotdev/golox/report"
	"github.com/havrydotdev/golox/token"
)

type Scanner struct {
	source string
	tokens []*token.Token
	errors []error

	start   int
	current int
	line    int
}

func New(source string) *Scanner {
	return &Scanner{source: source, tokens: make([]*token.Token, 0), start: 0, current: 0, line: 1}
}

// Scan turns the whole source into tokens. Scanning continues past
// malformed input so every error in the source is reported; the returned
// slice always ends with an Eof token.
func (s *Scanner) Scan() ([]*token.Token, []error) {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}

	eof := token.New(token.Eof, "", nil, s.line)
	s.tokens = append(s.tokens, eof)

	return s.tokens, s.errors
}

func (s *Scanner) scanToken() {
	c := s.advance()

	switch c {
	// one-character tokens
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)

	// two or one character tokens
	case '!':
		s.addToken(s.pick('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.pick('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.pick('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.pick('=', token.GreaterEqual, token.Greater))

	// multiple character tokens
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else if s.match('*') {
			s.blockComment()
		} else {
			s.addToken(token.Slash)
		}

	// special characters
	case ' ', '\t', '\r':

	case '\n':
		s.line++

	// literals
	case '"':
		s.string()

	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.errors = append(s.errors, report.AtLine(s.line, "Unexpected character."))
		}
	}
}

func (s *Scanner) blockComment() {
	for !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}

		if s.peek() == '*' && s.peekNext() == '/' {
			// eat comment terminator
			s.advance()
			s.advance()
			return
		}

		s.advance()
	}

	s.errors = append(s.errors, report.AtLine(s.line, "Unterminated comment."))
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[s.start:s.current]
	kind, ok := keywords[text]
	if !ok {
		kind = token.Identifier
	}

	switch kind {
	case token.True:
		s.addToken(kind, true)
	case token.False:
		s.addToken(kind, false)
	default:
		s.addToken(kind)
	}
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()

		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// the lexeme is always well formed; only overflow to ±Inf is reported
	num, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil {
		s.errors = append(s.errors, report.AtLine(s.line, "Number literal out of range."))
	}

	s.addToken(token.Number, num)
}

func (s *Scanner) string() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}

		s.advance()
	}

	if s.isAtEnd() {
		s.errors = append(s.errors, report.AtLine(s.line, "Unterminated string."))
		return
	}

	s.advance()
	s.addToken(token.String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) addToken(kind token.Kind, literal ...any) {
	var l any
	if len(literal) != 0 {
		l = literal[0]
	}

	lexeme := s.source[s.start:s.current]

	s.tokens = append(s.tokens, token.New(kind, lexeme, l, s.line))
}

// pick consumes expected when present and returns matched, otherwise single.
func (s *Scanner) pick(expected byte, matched, single token.Kind) token.Kind {
	if s.match(expected) {
		return matched
	}

	return single
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}

	s.current++
	return true
}

func (s *Scanner) advance() byte {
	curr := s.current
	s.current++
	return s.source[curr]
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return '\000'
	}

	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return '\000'
	}

	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}
