package festival

import (
	"fmt"
	"strings"

	"github.com/zapponejosh/panchangam/internal/calendar"
	"github.com/zapponejosh/panchangam/internal/panchangam"
)

// Grammar, case-insensitive:
//
//	expr   := and ('|' and)*
//	and    := unary ('&' unary)*
//	unary  := '!' unary | '(' expr ')' | atom
//	atom   := words '=' value | words
//	value  := number [shukla|krishna] | words
//	words  := ident+            joined with '_'
//
// '!' binds tightest, then '&', then '|'. Both binary operators are
// left-associative.

// Compile parses a condition into an expression tree. Unknown fields or
// predicates, out-of-range numbers and syntax errors are reported as
// *RuleEvaluationError.
func Compile(condition string) (Expr, error) {
	if strings.TrimSpace(condition) == "" {
		return nil, &RuleEvaluationError{Condition: condition, Pos: -1, Reason: "empty condition"}
	}
	toks, err := lex(condition)
	if err != nil {
		return nil, err
	}

	p := &parser{src: condition, toks: toks}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "expected '&', '|' or end of condition, got %s", describe(tok))
	}
	return expr, nil
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &RuleEvaluationError{Condition: p.src, Pos: tok.pos, Reason: fmt.Sprintf(format, args...)}
}

func describe(tok token) string {
	switch tok.kind {
	case tokIdent:
		return fmt.Sprintf("%q", tok.text)
	case tokNumber:
		return fmt.Sprintf("%d", tok.num)
	default:
		return tok.kind.String()
	}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch tok := p.peek(); tok.kind {
	case tokNot:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	case tokLParen:
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')', got %s", describe(closing))
		}
		return e, nil
	default:
		return p.parseAtom()
	}
}

// words consumes consecutive identifiers and joins them with '_'.
func (p *parser) words() string {
	var parts []string
	for p.peek().kind == tokIdent {
		parts = append(parts, p.next().text)
	}
	return foldName(strings.Join(parts, " "))
}

func (p *parser) parseAtom() (Expr, error) {
	start := p.peek()
	if start.kind != tokIdent {
		return nil, p.errorf(start, "expected field or predicate, got %s", describe(start))
	}
	name := p.words()

	if p.peek().kind != tokEq {
		if !IsPredicate(name) {
			return nil, p.errorf(start, "unknown predicate %q", name)
		}
		return Predicate{Name: name}, nil
	}
	p.next()

	field := Field(name)
	switch field {
	case FieldTithi, FieldNakshatra, FieldYoga, FieldKarana, FieldWeekday:
	default:
		return nil, p.errorf(start, "unknown field %q", name)
	}

	switch tok := p.peek(); tok.kind {
	case tokNumber:
		return p.parseNumber(field)
	case tokIdent:
		value := p.words()
		if field == FieldWeekday {
			wd, err := calendar.ParseWeekday(value)
			if err != nil {
				return nil, p.errorf(tok, "unknown weekday %q", value)
			}
			return Equals{Field: field, HasNumber: true, Number: wd, Name: value}, nil
		}
		return Equals{Field: field, Name: value}, nil
	default:
		return nil, p.errorf(tok, "missing value for %s", field)
	}
}

func (p *parser) parseNumber(field Field) (Expr, error) {
	tok := p.next()
	eq := Equals{Field: field, HasNumber: true, Number: tok.num}

	if q := p.peek(); q.kind == tokIdent && (q.text == "shukla" || q.text == "krishna") {
		if field != FieldTithi {
			return nil, p.errorf(q, "paksha %q is only valid for tithi", q.text)
		}
		p.next()
		eq.Paksha = panchangam.Shukla
		if q.text == "krishna" {
			eq.Paksha = panchangam.Krishna
		}
	}

	limit := 0
	switch field {
	case FieldTithi:
		limit = panchangam.TithiCount
		if eq.Paksha != "" {
			limit = 15
		}
	case FieldNakshatra:
		limit = panchangam.NakshatraCount
	case FieldYoga:
		limit = panchangam.YogaCount
	case FieldKarana:
		return nil, p.errorf(tok, "karana takes a name, not a number")
	case FieldWeekday:
		return nil, p.errorf(tok, "weekday takes a day name, not a number")
	}
	if eq.Number < 1 || eq.Number > limit {
		return nil, p.errorf(tok, "%s number %d outside 1-%d", field, eq.Number, limit)
	}
	return eq, nil
}
