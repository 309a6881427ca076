package css

// Tokens follow the lexical rules of https://www.w3.org/TR/selectors-3/#lex

import (
	"strings"
	"unicode/utf8"
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenSpace
	tokenUniversal
	tokenClass
	tokenIdent
	tokenID
	tokenPseudoClass
	tokenPseudoFunction
	tokenFunctionArguments
	tokenString
	tokenMatcher
	tokenCombinator
	tokenBracketOpen
	tokenBracketClose
)

const eof = -1

// stateFn consumes a part of the input and returns the state for the rest, nil once done or failed.
type stateFn func(*lexer) stateFn

type lexer struct {
	src    string
	pos    int
	start  int
	width  int
	tokens []token
	err    error
}

var punctuation = map[rune]tokenKind{
	'*': tokenUniversal,
	'=': tokenMatcher,
	'>': tokenCombinator,
	'+': tokenCombinator,
	'~': tokenCombinator,
	',': tokenCombinator,
	'[': tokenBracketOpen,
	']': tokenBracketClose,
}

// lex splits selector into tokens. Names and strings are unescaped; a string token holds its
// literal without quotes. Whitespace runs become one tokenSpace.
func lex(selector string) ([]token, error) {
	l := &lexer{src: strings.TrimSpace(selector)}
	for s := stateFn(lexAny); s != nil; s = s(l) {
	}
	return l.tokens, l.err
}

func (l *lexer) read() rune {
	if l.pos >= len(l.src) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.width, l.pos = w, l.pos+w
	return r
}

func (l *lexer) unread() { l.pos -= l.width }

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexer) skip() { l.start = l.pos }

func (l *lexer) skipWhile(f func(rune) bool) {
	for f(l.peek()) {
		l.read()
	}
}

func (l *lexer) emit(k tokenKind) {
	text := l.src[l.start:l.pos]
	switch k {
	case tokenString:
		text = Unescape(text[1 : len(text)-1])
	case tokenClass, tokenIdent, tokenID, tokenPseudoClass, tokenPseudoFunction:
		text = Unescape(text)
	}
	l.tokens = append(l.tokens, token{k, text, l.start})
	l.start = l.pos
}

func (l *lexer) fail(reason string) stateFn {
	l.err = &ParseError{Pos: l.start, Fragment: l.src[l.start:], Reason: reason}
	return nil
}

func (l *lexer) failUnsupported(feature string) stateFn {
	l.err = &UnsupportedFeatureError{feature}
	return nil
}

func lexAny(l *lexer) stateFn {
	if isWhitespace(l.peek()) {
		l.skipWhile(isWhitespace)
		l.emit(tokenSpace)
	}
	r := l.read()
	switch {
	case r == eof:
		l.emit(tokenEOF)
		return nil
	case isMatchChar(r) && l.peek() == '=':
		l.read()
		l.emit(tokenMatcher)
		return lexAny
	case r == '|', r == '*' && l.peek() == '|':
		return l.failUnsupported("namespace prefix")
	}
	if k, ok := punctuation[r]; ok {
		l.emit(k)
		return lexAny
	}
	switch r {
	case '.':
		l.skip()
		return lexName(tokenClass)
	case '#':
		l.skip()
		return lexName(tokenID)
	case ':':
		l.skip()
		return lexPseudo
	case '(':
		return lexArguments
	case '"', '\'':
		l.unread()
		return lexString
	}
	l.unread()
	return lexName(tokenIdent)
}

func lexName(k tokenKind) stateFn {
	return func(l *lexer) stateFn {
		if k == tokenID && !isNameChar(l.peek()) {
			return l.fail("invalid starting char for ID")
		} else if k != tokenID && !l.identStart() {
			return l.fail("invalid starting char for identifier")
		}
		l.acceptNameChars()
		l.emit(k)
		return lexAny
	}
}

func lexPseudo(l *lexer) stateFn {
	if l.peek() == ':' {
		return l.failUnsupported("pseudo element")
	} else if !l.identStart() {
		return l.fail("invalid starting char for identifier")
	}
	l.acceptNameChars()
	if l.peek() == '(' {
		l.emit(tokenPseudoFunction)
	} else {
		l.emit(tokenPseudoClass)
	}
	return lexAny
}

func lexString(l *lexer) stateFn {
	if reason := l.acceptString(); reason != "" {
		return l.fail(reason)
	}
	l.emit(tokenString)
	return lexAny
}

// lexArguments runs after the opening paren and emits everything up to the matching closing one,
// parens included. Parens inside strings do not count.
func lexArguments(l *lexer) stateFn {
	for depth := 1; depth > 0; {
		switch l.peek() {
		case eof:
			return l.fail("unterminated function arguments")
		case '"', '\'':
			if reason := l.acceptString(); reason != "" {
				return l.fail(reason)
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
		}
		l.read()
	}
	l.emit(tokenFunctionArguments)
	return lexAny
}

// identStart consumes an optional leading dash and reports whether a name can start at the
// current position. A lone trailing backslash cannot.
func (l *lexer) identStart() bool {
	if l.peek() == '-' {
		l.read()
	}
	r := l.peek()
	return isNameStart(r) && !(r == '\\' && l.pos+1 >= len(l.src))
}

func (l *lexer) acceptNameChars() {
	for {
		switch r := l.peek(); {
		case r == '\\':
			l.read()
			l.acceptEscape()
		case isNameChar(r):
			l.read()
		default:
			return
		}
	}
}

// acceptEscape consumes what follows a backslash: either up to 6 hex digits plus one optional
// whitespace or a single arbitrary char.
func (l *lexer) acceptEscape() {
	if !isHexDigit(l.peek()) {
		l.read()
		return
	}
	for i := 0; i < 6 && isHexDigit(l.peek()); i++ {
		l.read()
	}
	if isWhitespace(l.peek()) {
		l.read()
	}
}

func (l *lexer) acceptString() string {
	quote := l.read()
	for {
		switch r := l.read(); r {
		case quote:
			return ""
		case eof:
			return "unterminated quoted string"
		case '\n', '\r', '\f':
			return "unescaped newline in quoted string"
		case '\\':
			l.read()
		}
	}
}

// name start: [_a-zA-Z], non-ascii or an escape
func isNameStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' || r == '\\' || r > 127
}

// name char: name start, digit or dash
func isNameChar(r rune) bool {
	return isNameStart(r) || '0' <= r && r <= '9' || r == '-'
}

func isHexDigit(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func isWhitespace(r rune) bool { return r != eof && strings.ContainsRune(" \t\f\r\n", r) }
func isMatchChar(r rune) bool  { return r != eof && Matchers[string(r)+"="] != nil }
