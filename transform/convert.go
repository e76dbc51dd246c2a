package transform

import (
	"fmt"
	"strconv"
)

func convertScalar(v any, to ScalarType) (any, error) {
	switch to {
	case ScalarString:
		switch t := v.(type) {
		case string:
			return t, nil
		case float64:
			return strconv.FormatFloat(t, 'g', -1, 64), nil
		case bool:
			return strconv.FormatBool(t), nil
		default:
			return nil, fmt.Errorf("transform: cannot convert %T to string", v)
		}

	case ScalarNumber:
		switch t := v.(type) {
		case float64:
			return t, nil
		case string:
			n, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, fmt.Errorf("transform: cannot convert %q to number", t)
			}

			return n, nil
		case bool:
			if t {
				return float64(1), nil
			}

			return float64(0), nil
		default:
			return nil, fmt.Errorf("transform: cannot convert %T to number", v)
		}

	case ScalarBoolean:
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			b, err := strconv.ParseBool(t)
			if err != nil {
				return nil, fmt.Errorf("transform: cannot convert %q to boolean", t)
			}

			return b, nil
		case float64:
			return t != 0, nil
		default:
			return nil, fmt.Errorf("transform: cannot convert %T to boolean", v)
		}

	default:
		return nil, fmt.Errorf("transform: unknown scalar type %q", to)
	}
}

// sameScalarType reports whether v is already of Go type corresponding to
// want, used to detect the TypeConversion identity case that must emit no
// lossiness per the testable-properties list.
func sameScalarType(v any, want ScalarType) bool {
	switch want {
	case ScalarString:
		_, ok := v.(string)
		return ok
	case ScalarNumber:
		_, ok := v.(float64)
		return ok
	case ScalarBoolean:
		_, ok := v.(bool)
		return ok
	default:
		return false
	}
}

func convertUnit(v any, formula UnitFormula, registry map[string]CustomUnitFunc) (any, error) {
	n, ok := asFloat(v)
	if !ok {
		s, isStr := v.(string)
		if !isStr {
			return nil, fmt.Errorf("transform: cannot parse %T as a number for unit conversion", v)
		}

		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("transform: cannot parse %q as a number for unit conversion", s)
		}

		n = parsed
	}

	switch formula.Kind {
	case "Linear":
		return n*formula.Scale + formula.Offset, nil
	case "Custom":
		fn, ok := registry[formula.Name]
		if !ok {
			return nil, fmt.Errorf("transform: unregistered custom unit formula %q", formula.Name)
		}

		return fn(n), nil
	default:
		return nil, fmt.Errorf("transform: unknown unit formula kind %q", formula.Kind)
	}
}

// CustomUnitFunc computes a custom unit rescale given the parsed numeric
// input value.
type CustomUnitFunc func(value float64) float64
