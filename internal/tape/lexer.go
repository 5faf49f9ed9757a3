package tape

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TokenType classifies a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenWord
	TokenString
)

// Token is a lexeme with its source line.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer splits a script into words, quoted strings and line breaks. A '#'
// outside a string starts a comment that runs to the end of the line.
type Lexer struct {
	src  []rune
	pos  int
	line int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case r == '\n':
			l.pos++
			tok := Token{Type: TokenNewline, Line: l.line}
			l.line++
			return tok, nil
		case r == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case unicode.IsSpace(r):
			l.pos++
		case r == '"' || r == '\'':
			return l.quoted(r)
		default:
			return l.word(), nil
		}
	}
	return Token{Type: TokenEOF, Line: l.line}, nil
}

func (l *Lexer) word() Token {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		if unicode.IsSpace(r) || r == '#' || r == '"' || r == '\'' {
			break
		}
		l.pos++
	}
	return Token{Type: TokenWord, Value: string(l.src[start:l.pos]), Line: l.line}
}

func (l *Lexer) quoted(q rune) (Token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch r {
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return Token{}, fmt.Errorf("line %d: unterminated string", l.line)
		case q:
			l.pos++
			raw := string(l.src[start:l.pos])
			if q == '\'' {
				return Token{Type: TokenString, Value: raw[1 : len(raw)-1], Line: l.line}, nil
			}
			s, err := strconv.Unquote(raw)
			if err != nil {
				return Token{}, fmt.Errorf("line %d: %w", l.line, err)
			}
			return Token{Type: TokenString, Value: s, Line: l.line}, nil
		}
		l.pos++
	}
	return Token{}, fmt.Errorf("line %d: unterminated string", l.line)
}

// Tokenize returns every token of src up to and including EOF.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer(strings.ReplaceAll(src, "\r\n", "\n"))
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}
