// Copyright 2023 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/src-d/go-prepared-sql/sql"
)

// TokenType is the kind of a lexed token.
type TokenType uint

const (
	ErrorToken TokenType = iota
	EOFToken
	LeftParenToken
	RightParenToken
	CommaToken
	DotToken
	KeywordToken
	IdentifierToken
	IntToken
	FloatToken
	StringToken
	PlaceholderToken
	OpToken
)

// Token is a lexeme of a query. Pos and End are byte offsets in the lexed
// input, so the text of a token is always input[Pos:End].
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	End   int
}

func (t *Token) String() string {
	switch t.Type {
	case EOFToken:
		return "end of input"
	case ErrorToken:
		return t.Value
	}
	return fmt.Sprintf("%q", t.Value)
}

// is reports whether the token is the given keyword, ignoring case.
func (t *Token) is(kw string) bool {
	return t.Type == KeywordToken && strings.EqualFold(t.Value, kw)
}

type stateFunc func(*Lexer) stateFunc

// Lexer splits a query into tokens. It only knows enough SQL to find
// statement headers and positional parameters; the statement bodies are
// parsed by sqlparser.
type Lexer struct {
	input  string
	start  int
	pos    int
	width  int
	state  stateFunc
	tokens []*Token
	idx    int
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		state: lexLine,
	}
}

const eof rune = -1

const (
	comma       = ','
	dot         = '.'
	leftParen   = '('
	rightParen  = ')'
	quote       = '"'
	singleQuote = '\''
	backtick    = '`'
	semiColon   = ';'
	backslash   = '\\'
	dollar      = '$'
)

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *Lexer) backup() {
	l.pos -= l.width
}

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *Lexer) ignore() {
	l.start = l.pos
}

func (l *Lexer) emit(typ TokenType) {
	l.tokens = append(l.tokens, &Token{
		Type:  typ,
		Value: l.input[l.start:l.pos],
		Pos:   l.start,
		End:   l.pos,
	})
	l.start = l.pos
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.tokens = append(l.tokens, &Token{
		Type:  ErrorToken,
		Value: fmt.Sprintf(format, args...),
		Pos:   l.start,
		End:   l.pos,
	})
	return nil
}

// Run lexes the whole input. A lexing error is returned as ErrSyntax.
func (l *Lexer) Run() error {
	for l.state != nil {
		l.state = l.state(l)
	}

	if last := l.tokens[len(l.tokens)-1]; last.Type == ErrorToken {
		return sql.ErrSyntax.New(fmt.Sprintf("%s at position %d", last.Value, last.Pos+1))
	}
	return nil
}

// Tokens returns all the lexed tokens.
func (l *Lexer) Tokens() []*Token {
	return l.tokens
}

// Next returns the next token, or the final token once the input has been
// consumed.
func (l *Lexer) Next() *Token {
	tk := l.Peek()
	if l.idx < len(l.tokens) {
		l.idx++
	}
	return tk
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() *Token {
	if len(l.tokens) == 0 {
		return &Token{Type: EOFToken, Pos: len(l.input), End: len(l.input)}
	}
	if l.idx >= len(l.tokens) {
		return l.tokens[len(l.tokens)-1]
	}
	return l.tokens[l.idx]
}

func lexLine(l *Lexer) stateFunc {
	r := l.next()
	switch true {
	case r == eof:
		l.emit(EOFToken)
		return nil
	case isSpace(r) || isEOL(r):
		return lexSpaces
	case r == '-' && l.peek() == '-', r == '#':
		return lexLineComment
	case r == '/' && l.peek() == '*':
		return lexBlockComment
	case isLetter(r):
		return lexIdentifier
	case r == backtick:
		return lexQuotedIdentifier
	case r == dollar:
		return lexPlaceholder
	case r == '?' || r == ':':
		return l.errorf("unsupported parameter marker %q, parameters are written $1, $2, ...", r)
	case isAllowedInOp(r):
		return lexOp
	case r == comma:
		l.emit(CommaToken)
		return lexLine
	case r == dot:
		l.emit(DotToken)
		return lexLine
	case r == leftParen:
		l.emit(LeftParenToken)
		return lexLine
	case r == rightParen:
		l.emit(RightParenToken)
		return lexLine
	case r == singleQuote:
		return lexSingleQuote
	case r == quote:
		return lexQuote
	case unicode.IsDigit(r):
		return lexNumber
	case r == semiColon:
		return l.errorf("multiple statements are not supported")
	}

	return l.errorf("unexpected character: %q", r)
}

func scanDigits(l *Lexer) int {
	var n int
	for unicode.IsDigit(l.next()) {
		n++
	}
	l.backup()
	return n
}

func lexNumber(l *Lexer) stateFunc {
	scanDigits(l)

	typ := IntToken
	if l.peek() == dot {
		l.next()
		scanDigits(l)
		typ = FloatToken
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		l.next()
		if r := l.peek(); r == '+' || r == '-' {
			l.next()
		}
		if scanDigits(l) == 0 {
			return l.errorf("invalid number syntax: %q", l.input[l.start:l.pos])
		}
		typ = FloatToken
	}

	if isAllowedInIdentifier(l.peek()) || l.peek() == dot {
		l.next()
		return l.errorf("invalid number syntax: %q", l.input[l.start:l.pos])
	}

	l.emit(typ)
	return lexLine
}

var keywords = []string{
	"prepare", "execute", "explain", "deallocate", "drop", "as",
}

func isKeyword(kw string) bool {
	kw = strings.ToLower(kw)
	for _, k := range keywords {
		if k == kw {
			return true
		}
	}
	return false
}

func lexIdentifier(l *Lexer) stateFunc {
	for isAllowedInIdentifier(l.next()) {
	}
	l.backup()

	typ := IdentifierToken
	if isKeyword(l.input[l.start:l.pos]) {
		typ = KeywordToken
	}

	l.emit(typ)
	return lexLine
}

func lexQuotedIdentifier(l *Lexer) stateFunc {
	for {
		switch l.next() {
		case eof:
			return l.errorf("unterminated quoted identifier")
		case backtick:
			if l.peek() == backtick {
				l.next()
				continue
			}
			l.emit(IdentifierToken)
			return lexLine
		}
	}
}

func lexPlaceholder(l *Lexer) stateFunc {
	if scanDigits(l) == 0 || isAllowedInIdentifier(l.peek()) {
		l.next()
		return l.errorf("invalid parameter %q", l.input[l.start:l.pos])
	}

	l.emit(PlaceholderToken)
	return lexLine
}

func lexOp(l *Lexer) stateFunc {
	for {
		r := l.next()
		if !isAllowedInOp(r) {
			l.backup()
			break
		}

		// An operator never swallows the start of a comment.
		if p := l.peek(); (r == '-' && p == '-') || (r == '/' && p == '*') {
			l.backup()
			break
		}
	}

	l.emit(OpToken)
	return lexLine
}

func lexQuote(l *Lexer) stateFunc {
	return lexString(l, quote)
}

func lexSingleQuote(l *Lexer) stateFunc {
	return lexString(l, singleQuote)
}

func lexString(l *Lexer, quoteRune rune) stateFunc {
	var escaped bool
	for {
		r := l.next()
		switch {
		case r == eof:
			return l.errorf("unterminated string")
		case escaped:
			escaped = false
		case r == backslash:
			escaped = true
		case r == quoteRune:
			if l.peek() == quoteRune {
				l.next()
				continue
			}
			l.emit(StringToken)
			return lexLine
		}
	}
}

func lexSpaces(l *Lexer) stateFunc {
	for {
		r := l.next()
		if !isSpace(r) && !isEOL(r) {
			l.backup()
			l.ignore()
			return lexLine
		}
	}
}

func lexLineComment(l *Lexer) stateFunc {
	for {
		r := l.next()
		if r == eof || isEOL(r) {
			l.ignore()
			return lexLine
		}
	}
}

func lexBlockComment(l *Lexer) stateFunc {
	// opening "/" was already scanned
	l.next()
	for {
		switch l.next() {
		case eof:
			return l.errorf("unterminated comment")
		case '*':
			if l.peek() == '/' {
				l.next()
				l.ignore()
				return lexLine
			}
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isEOL(r rune) bool {
	return r == '\r' || r == '\n'
}

func isAllowedInOp(r rune) bool {
	return strings.ContainsRune("<>=!+-*/%&|^~", r)
}

func isAllowedInIdentifier(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
