package body

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	identifierCode
	numberCode
	colonCode
	commaCode
	openParenCode
	closeParenCode
	equalsCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	identifierToken = parsly.NewToken(identifierCode, "Identifier", newIdentifierMatcher())
	numberToken     = parsly.NewToken(numberCode, "Number", newNumberMatcher())
	colonToken      = parsly.NewToken(colonCode, ":", matcher.NewByte(':'))
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	openParenToken  = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
	equalsToken     = parsly.NewToken(equalsCode, "=", matcher.NewByte('='))
)

func newIdentifierMatcher() parsly.Matcher {
	return &identifierMatcher{}
}

func newNumberMatcher() parsly.Matcher {
	return &numberMatcher{}
}

// identifierMatcher matches op and operand names
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}

	// First character must be a letter or underscore
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

// numberMatcher matches decimal and 0x-prefixed hexadecimal literals
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size || !isDigit(input[pos]) {
		return 0
	}
	matched := 1
	hex := false
	if input[pos] == '0' && pos+1 < size && (input[pos+1] == 'x' || input[pos+1] == 'X') {
		hex = true
		matched = 2
	}
	for i := pos + matched; i < size; i++ {
		if isDigit(input[i]) || (hex && isHexLetter(input[i])) {
			matched++
			continue
		}
		break
	}
	return matched
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
