package festival

import (
	"fmt"
	"strings"

	"github.com/zapponejosh/panchangam/internal/panchangam"
)

// Expr is a compiled condition. The concrete node types are And, Or, Not,
// Equals and Predicate.
type Expr interface {
	// String renders the expression in canonical, fully parenthesised form.
	String() string
	isExpr()
}

// And is true when both operands are.
type And struct{ Left, Right Expr }

// Or is true when either operand is.
type Or struct{ Left, Right Expr }

// Not negates its operand.
type Not struct{ X Expr }

// Field names a day element an Equals node tests.
type Field string

const (
	FieldTithi     Field = "tithi"
	FieldNakshatra Field = "nakshatra"
	FieldYoga      Field = "yoga"
	FieldKarana    Field = "karana"
	FieldWeekday   Field = "weekday"
)

// Equals tests one field. Exactly one of Number or Name is meaningful,
// per HasNumber. Paksha qualifies a tithi number.
type Equals struct {
	Field     Field
	HasNumber bool
	Number    int
	Paksha    panchangam.Paksha
	Name      string // folded, words joined with '_'
}

// Predicate is a named special condition such as "ekadashi".
type Predicate struct{ Name string }

func (And) isExpr()       {}
func (Or) isExpr()        {}
func (Not) isExpr()       {}
func (Equals) isExpr()    {}
func (Predicate) isExpr() {}

func (e And) String() string { return "(" + e.Left.String() + " & " + e.Right.String() + ")" }
func (e Or) String() string  { return "(" + e.Left.String() + " | " + e.Right.String() + ")" }
func (e Not) String() string { return "!" + e.X.String() }

func (e Equals) String() string {
	if !e.HasNumber || e.Field == FieldWeekday {
		return fmt.Sprintf("%s=%s", e.Field, e.Name)
	}
	if e.Paksha != "" {
		return fmt.Sprintf("%s=%d %s", e.Field, e.Number, strings.ToLower(string(e.Paksha)))
	}
	return fmt.Sprintf("%s=%d", e.Field, e.Number)
}

func (e Predicate) String() string { return e.Name }

// evaluate walks the tree against an assembled day.
func evaluate(e Expr, d *panchangam.Day) bool {
	switch n := e.(type) {
	case And:
		return evaluate(n.Left, d) && evaluate(n.Right, d)
	case Or:
		return evaluate(n.Left, d) || evaluate(n.Right, d)
	case Not:
		return !evaluate(n.X, d)
	case Equals:
		return n.matches(d)
	case Predicate:
		p, ok := predicates[n.Name]
		return ok && p(d)
	default:
		return false
	}
}

func (e Equals) matches(d *panchangam.Day) bool {
	switch e.Field {
	case FieldTithi:
		if !e.HasNumber {
			title := foldName(d.Tithi.Title)
			return title == e.Name || strings.HasSuffix(title, "_"+e.Name)
		}
		switch e.Paksha {
		case panchangam.Shukla:
			return d.Tithi.Index == e.Number && strings.Contains(fold(d.Tithi.Name), "shukla")
		case panchangam.Krishna:
			return d.Tithi.Index == e.Number+15 && strings.Contains(fold(d.Tithi.Name), "krishna")
		default:
			return d.Tithi.Index == e.Number
		}
	case FieldNakshatra:
		if e.HasNumber {
			return d.Nakshatra.Index == e.Number
		}
		return foldName(d.Nakshatra.Name) == e.Name
	case FieldYoga:
		if e.HasNumber {
			return d.Yoga.Index == e.Number
		}
		return foldName(d.Yoga.Name) == e.Name
	case FieldKarana:
		return foldName(d.Karana.Name) == e.Name
	case FieldWeekday:
		return d.Weekday == e.Number
	default:
		return false
	}
}
