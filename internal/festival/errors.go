package festival

import (
	"errors"
	"fmt"
)

// ErrRuleEvaluation matches every RuleEvaluationError via errors.Is.
var ErrRuleEvaluation = errors.New("rule evaluation failed")

// RuleEvaluationError reports a malformed condition or a rule that could
// not be evaluated. It is distinct from a condition that simply did not
// match.
type RuleEvaluationError struct {
	Rule      string // empty when compiling a bare condition
	Condition string
	Pos       int // byte offset into Condition, -1 when not positional
	Reason    string
}

func (e *RuleEvaluationError) Error() string {
	var where string
	if e.Rule != "" {
		where = fmt.Sprintf("rule %q: ", e.Rule)
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("%scondition %q at %d: %s", where, e.Condition, e.Pos, e.Reason)
	}
	return fmt.Sprintf("%scondition %q: %s", where, e.Condition, e.Reason)
}

// Is reports ErrRuleEvaluation as a match.
func (e *RuleEvaluationError) Is(target error) bool { return target == ErrRuleEvaluation }

// IsRuleEvaluation checks if an error is a rule evaluation error.
func IsRuleEvaluation(err error) bool {
	return errors.Is(err, ErrRuleEvaluation)
}

// withRule returns a copy of err attributed to rule, if err is a
// RuleEvaluationError.
func withRule(err error, rule string) error {
	var re *RuleEvaluationError
	if errors.As(err, &re) {
		cp := *re
		cp.Rule = rule
		return &cp
	}
	return err
}
