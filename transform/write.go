package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// writeAt writes value at the location named by a simple dotted/indexed
// JSONPath-shaped target (e.g. "$.a.b[2].c"), creating intermediate objects
// as needed and extending arrays with nulls when the index is past the
// current end. It does not support the full jsonpath grammar (filters,
// slices, wildcards) — targets are write locations, which the ProviderSpec
// mapping table declares as concrete paths, never queries.
func writeAt(doc map[string]any, target string, value any) error {
	steps, err := parseWritePath(target)
	if err != nil {
		return err
	}

	if len(steps) == 0 {
		return fmt.Errorf("transform: empty write target")
	}

	return writeSteps(doc, steps, value)
}

type writeStep struct {
	name    string // set when this step is a member access
	index   int    // set when this step is an index access
	isIndex bool
}

func parseWritePath(target string) ([]writeStep, error) {
	target = strings.TrimPrefix(target, "$")

	var steps []writeStep

	i := 0
	for i < len(target) {
		switch target[i] {
		case '.':
			i++

			start := i
			for i < len(target) && target[i] != '.' && target[i] != '[' {
				i++
			}

			if i == start {
				return nil, fmt.Errorf("transform: malformed write path %q", target)
			}

			steps = append(steps, writeStep{name: target[start:i]})

		case '[':
			end := strings.IndexByte(target[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("transform: unterminated index in write path %q", target)
			}

			raw := target[i+1 : i+end]
			i += end + 1

			if strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
				steps = append(steps, writeStep{name: strings.Trim(raw, "'")})
				continue
			}

			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("transform: non-integer index %q in write path", raw)
			}

			steps = append(steps, writeStep{index: n, isIndex: true})

		default:
			return nil, fmt.Errorf("transform: unexpected character %q in write path %q", target[i], target)
		}
	}

	return steps, nil
}

func writeSteps(root map[string]any, steps []writeStep, value any) error {
	var container any = root

	for i, step := range steps {
		last := i == len(steps)-1

		switch c := container.(type) {
		case map[string]any:
			if step.isIndex {
				return fmt.Errorf("transform: cannot apply index step to an object")
			}

			if last {
				c[step.name] = value
				return nil
			}

			next, ok := c[step.name]
			if !ok || next == nil {
				next = newContainerFor(steps[i+1])
				c[step.name] = next
			}

			container = next

		case []any:
			if !step.isIndex {
				return fmt.Errorf("transform: cannot apply member step to an array")
			}

			idx := step.index
			if idx < 0 {
				idx = len(c) + idx
			}

			if idx < 0 {
				return fmt.Errorf("transform: negative index out of range in write path")
			}

			for idx >= len(c) {
				c = append(c, nil)
			}

			if last {
				c[idx] = value
				return setBack(root, steps[:i], c)
			}

			next := c[idx]
			if next == nil {
				next = newContainerFor(steps[i+1])
				c[idx] = next
			}

			if err := setBack(root, steps[:i], c); err != nil {
				return err
			}

			container = next

		default:
			return fmt.Errorf("transform: cannot write through a scalar value")
		}
	}

	return nil
}

// setBack re-assigns a possibly-grown slice back into its parent container,
// since appending to a Go slice may reallocate and the parent's reference to
// the old backing array would otherwise go stale.
func setBack(root map[string]any, prefix []writeStep, grown []any) error {
	if len(prefix) == 0 {
		return fmt.Errorf("transform: cannot grow the document root as an array")
	}

	return writeSteps(root, prefix, grown)
}

func newContainerFor(next writeStep) any {
	if next.isIndex {
		return []any{}
	}

	return map[string]any{}
}
