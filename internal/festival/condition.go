// Package festival classifies panchangam days as festival occurrences.
//
// Conditions are written in a small boolean language over the day's
// elements, for example "tithi=14 krishna & !weekday=sunday". Parsing is
// strict: a malformed condition is a *RuleEvaluationError. Evaluation of a
// well-formed condition is permissive: a name that matches no element is
// simply false. Batch builders never abort a scan for a single bad day.
package festival

import (
	"errors"

	"github.com/zapponejosh/panchangam/internal/panchangam"
)

// ErrUnassembledDay is returned when a condition is evaluated against a
// Day the assembler never produced.
var ErrUnassembledDay = errors.New("day was not assembled")

// Condition is a compiled, reusable condition. It is immutable and safe
// for concurrent use.
type Condition struct {
	text string
	expr Expr
}

// ParseCondition compiles text.
func ParseCondition(text string) (*Condition, error) {
	expr, err := Compile(text)
	if err != nil {
		return nil, err
	}
	return &Condition{text: text, expr: expr}, nil
}

// MustParseCondition is ParseCondition that panics on error, for
// conditions fixed at compile time.
func MustParseCondition(text string) *Condition {
	c, err := ParseCondition(text)
	if err != nil {
		panic(err)
	}
	return c
}

// Text returns the condition as written.
func (c *Condition) Text() string { return c.text }

// Expr returns the expression tree.
func (c *Condition) Expr() Expr { return c.expr }

// String returns the canonical form.
func (c *Condition) String() string { return c.expr.String() }

// Eval reports whether day satisfies the condition.
func (c *Condition) Eval(day panchangam.Day) (bool, error) {
	if day.IsZero() {
		return false, &RuleEvaluationError{Condition: c.text, Pos: -1, Reason: ErrUnassembledDay.Error()}
	}
	return evaluate(c.expr, &day), nil
}

// Evaluate compiles and evaluates text against day in one step.
func Evaluate(text string, day panchangam.Day) (bool, error) {
	c, err := ParseCondition(text)
	if err != nil {
		return false, err
	}
	return c.Eval(day)
}
