package query

import (
	"strings"
	"unicode"
)

// Token represents a lexical token. Pos is the rune offset of the token's
// first character in the original query.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int
}

// TokenKind is the type of token
type TokenKind int

const (
	TokTerm TokenKind = iota
	TokPhrase
	TokField
	TokFuzzy
	TokAnd
	TokOr
	TokNot
	TokLParen
	TokRParen
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokTerm:
		return "TERM"
	case TokPhrase:
		return "PHRASE"
	case TokField:
		return "FIELD"
	case TokFuzzy:
		return "FUZZY"
	case TokAnd:
		return "AND"
	case TokOr:
		return "OR"
	case TokNot:
		return "NOT"
	case TokLParen:
		return "LPAREN"
	case TokRParen:
		return "RPAREN"
	case TokEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// startsOperand reports whether a token of this kind can begin a NOT
// expression or atom.
func (k TokenKind) startsOperand() bool {
	switch k {
	case TokTerm, TokPhrase, TokField, TokFuzzy, TokNot, TokLParen:
		return true
	}
	return false
}

// Lexer tokenizes a query string
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a new lexer for the input string
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		pos:   0,
	}
}

// Tokenize splits query into tokens. The result always ends with exactly one
// EOF token positioned at the query length.
func Tokenize(query string) []Token {
	lexer := NewLexer(query)
	var tokens []Token

	for {
		tok, ok := lexer.Next()
		if !ok {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}

	return tokens
}

// Next returns the next token. ok is false when input was consumed without
// producing a token (an empty phrase); callers should simply call Next again.
func (l *Lexer) Next() (tok Token, ok bool) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: len(l.input)}, true
	}

	start := l.pos
	switch l.input[l.pos] {
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Value: "(", Pos: start}, true
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Value: ")", Pos: start}, true
	case '"':
		value := l.scanQuoted()
		if value == "" {
			return Token{}, false
		}
		return Token{Kind: TokPhrase, Value: value, Pos: start}, true
	}

	return l.scanWord(), true
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

// scanQuoted consumes a double-quoted run starting at the opening quote and
// returns its contents. An unterminated quote runs to the end of input.
func (l *Lexer) scanQuoted() string {
	l.pos++ // consume opening quote
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '"' {
		l.pos++
	}
	value := string(l.input[start:l.pos])
	if l.pos < len(l.input) {
		l.pos++ // consume closing quote
	}
	return value
}

func (l *Lexer) scanWord() Token {
	start := l.pos

	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	word := string(l.input[start:l.pos])

	// field:"quoted value"
	if l.pos < len(l.input) && l.input[l.pos] == '"' && strings.HasSuffix(word, ":") {
		name := strings.TrimSuffix(word, ":")
		if isFieldName(name) {
			value := l.scanQuoted()
			if value != "" {
				return Token{Kind: TokField, Value: name + ":" + value, Pos: start}
			}
		}
	}

	switch word {
	case "AND":
		return Token{Kind: TokAnd, Value: word, Pos: start}
	case "OR":
		return Token{Kind: TokOr, Value: word, Pos: start}
	case "NOT":
		return Token{Kind: TokNot, Value: word, Pos: start}
	}

	if name, value, found := strings.Cut(word, ":"); found && isFieldName(name) && value != "" {
		return Token{Kind: TokField, Value: word, Pos: start}
	}

	if stem, found := strings.CutSuffix(word, "~"); found && stem != "" {
		return Token{Kind: TokFuzzy, Value: stem, Pos: start}
	}

	return Token{Kind: TokTerm, Value: word, Pos: start}
}

func isWordChar(ch rune) bool {
	return !unicode.IsSpace(ch) && ch != '(' && ch != ')' && ch != '"'
}

func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' && ch != '-' {
			return false
		}
	}
	return true
}
