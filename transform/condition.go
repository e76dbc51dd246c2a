package transform

import (
	"fmt"

	"github.com/dlclark/regexp2/v2"

	"github.com/brightloom/promptbridge/jsonpath"
)

// ConditionKind is the closed set of boolean conditions a Conditional rule
// may evaluate.
type ConditionKind string

const (
	ConditionEquals  ConditionKind = "Equals"
	ConditionExists  ConditionKind = "Exists"
	ConditionMatches ConditionKind = "Matches"
	ConditionAnd     ConditionKind = "And"
	ConditionOr      ConditionKind = "Or"
	ConditionNot     ConditionKind = "Not"
)

// Condition is a boolean expression over the in-flight document, evaluated
// by Conditional rules to pick between IfTrue and IfFalse.
type Condition struct {
	Kind ConditionKind

	Path  string // Equals, Exists, Matches
	Value any    // Equals
	Regex string // Matches

	Operands []Condition // And, Or
	Operand  *Condition  // Not
}

// Eval evaluates c against doc, resolving Path-based conditions with the
// jsonpath engine. Matches treats a non-existent path as false, not an
// error, consistent with the jsonpath engine's own exists() contract.
func (c Condition) Eval(doc map[string]any) (bool, error) {
	switch c.Kind {
	case ConditionEquals:
		expr, err := jsonpath.Compile(c.Path)
		if err != nil {
			return false, err
		}

		matches := jsonpath.Execute(expr, doc)
		if len(matches) == 0 {
			return false, nil
		}

		return valuesEqual(matches[0], c.Value), nil

	case ConditionExists:
		expr, err := jsonpath.Compile(c.Path)
		if err != nil {
			return false, err
		}

		return jsonpath.Exists(expr, doc), nil

	case ConditionMatches:
		expr, err := jsonpath.Compile(c.Path)
		if err != nil {
			return false, err
		}

		matches := jsonpath.Execute(expr, doc)
		if len(matches) == 0 {
			return false, nil
		}

		s, ok := matches[0].(string)
		if !ok {
			return false, nil
		}

		re, err := regexp2.Compile(c.Regex, 0)
		if err != nil {
			return false, fmt.Errorf("transform: invalid regex %q: %w", c.Regex, err)
		}

		return re.MatchString(s)

	case ConditionAnd:
		for _, operand := range c.Operands {
			ok, err := operand.Eval(doc)
			if err != nil {
				return false, err
			}

			if !ok {
				return false, nil
			}
		}

		return true, nil

	case ConditionOr:
		for _, operand := range c.Operands {
			ok, err := operand.Eval(doc)
			if err != nil {
				return false, err
			}

			if ok {
				return true, nil
			}
		}

		return false, nil

	case ConditionNot:
		if c.Operand == nil {
			return false, fmt.Errorf("transform: Not condition missing operand")
		}

		ok, err := c.Operand.Eval(doc)
		if err != nil {
			return false, err
		}

		return !ok, nil

	default:
		return false, fmt.Errorf("transform: unknown condition kind %q", c.Kind)
	}
}

func valuesEqual(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)

	if aok && bok {
		return af == bf
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
