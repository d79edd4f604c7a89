package festival

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokEq
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of condition"
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokEq:
		return "'='"
	case tokAnd:
		return "'&'"
	case tokOr:
		return "'|'"
	case tokNot:
		return "'!'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind tokenKind
	text string // folded identifier text
	num  int
	pos  int
}

// lex splits a condition into tokens. Identifiers are case folded.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		start := i

		switch {
		case unicode.IsSpace(r):
			i += size
			continue
		case r == '=':
			toks = append(toks, token{kind: tokEq, pos: start})
			i += size
		case r == '&':
			toks = append(toks, token{kind: tokAnd, pos: start})
			i += size
			// tolerate "&&"
			if i < len(src) && src[i] == '&' {
				i++
			}
		case r == '|':
			toks = append(toks, token{kind: tokOr, pos: start})
			i += size
			if i < len(src) && src[i] == '|' {
				i++
			}
		case r == '!':
			toks = append(toks, token{kind: tokNot, pos: start})
			i += size
		case r == '(':
			toks = append(toks, token{kind: tokLParen, pos: start})
			i += size
		case r == ')':
			toks = append(toks, token{kind: tokRParen, pos: start})
			i += size
		case r >= '0' && r <= '9':
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			n, err := strconv.Atoi(src[start:i])
			if err != nil {
				return nil, &RuleEvaluationError{Condition: src, Pos: start, Reason: fmt.Sprintf("bad number %q", src[start:i])}
			}
			toks = append(toks, token{kind: tokNumber, num: n, pos: start})
		case unicode.IsLetter(r) || r == '_':
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_' || r == '-') {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokIdent, text: fold(src[start:i]), pos: start})
		default:
			return nil, &RuleEvaluationError{Condition: src, Pos: start, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}
