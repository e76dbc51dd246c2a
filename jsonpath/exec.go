package jsonpath

import "sort"

// Execute runs a compiled Expression against document, returning matches in
// document order for arrays, key order for objects (sorted, since this
// package operates on plain map[string]any/[]any trees decoded by
// encoding/json, which do not preserve source key order — see DESIGN.md),
// and selector-listed order for unions. Recursive descent yields matches in
// pre-order. Execute never errors: a segment applied to a value that cannot
// contain it yields no matches for that branch, not a failure.
func Execute(expr *Expression, document any) []any {
	return execute(expr, document)
}

// Exists reports whether Execute would yield at least one match.
func Exists(expr *Expression, document any) bool {
	return len(execute(expr, document)) > 0
}

func execute(expr *Expression, document any) []any {
	if expr == nil {
		return nil
	}

	if expr.simple {
		return executeFastPath(expr.fastNames, document)
	}

	matches := []any{document}

	for _, seg := range expr.Segments {
		matches = applySegment(matches, seg)

		if len(matches) == 0 {
			return matches
		}
	}

	return matches
}

// executeFastPath resolves a chain of plain member accesses directly,
// avoiding the generic per-segment dispatch for the common case of
// mapping-table paths such as "$.sampling.temperature".
func executeFastPath(names []string, document any) []any {
	cur := document

	for _, name := range names {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		v, ok := obj[name]
		if !ok {
			return nil
		}

		cur = v
	}

	return []any{cur}
}

func applySegment(matches []any, seg Segment) []any {
	var result []any

	for _, m := range matches {
		if seg.Recursive {
			result = append(result, recursiveApply(m, seg)...)
		} else {
			result = append(result, applyOnce(m, seg)...)
		}
	}

	return result
}

// recursiveApply implements pre-order recursive descent: the node itself is
// tested first, then each child (in document order) is visited recursively.
func recursiveApply(node any, seg Segment) []any {
	result := applyOnce(node, seg)

	for _, child := range orderedChildren(node) {
		result = append(result, recursiveApply(child, seg)...)
	}

	return result
}

func applyOnce(node any, seg Segment) []any {
	switch seg.Kind {
	case SegmentMember:
		return applyMember(node, seg.Names)
	case SegmentWildcard:
		return orderedChildren(node)
	case SegmentIndex:
		return applyIndex(node, seg.Indices)
	case SegmentSlice:
		return applySlice(node, seg.Slice)
	case SegmentFilter:
		return applyFilter(node, seg.Filter)
	default:
		return nil
	}
}

func applyMember(node any, names []string) []any {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil
	}

	var result []any

	for _, name := range names {
		if v, ok := obj[name]; ok {
			result = append(result, v)
		}
	}

	return result
}

func applyIndex(node any, indices []int) []any {
	arr, ok := node.([]any)
	if !ok {
		return nil
	}

	var result []any

	for _, idx := range indices {
		resolved := idx
		if resolved < 0 {
			resolved += len(arr)
		}

		if resolved < 0 || resolved >= len(arr) {
			continue
		}

		result = append(result, arr[resolved])
	}

	return result
}

func applySlice(node any, sl Slice) []any {
	arr, ok := node.([]any)
	if !ok {
		return nil
	}

	n := len(arr)

	step := 1
	if sl.Step != nil {
		step = *sl.Step
	}

	if step == 0 {
		return nil
	}

	var start, end int

	if step > 0 {
		start, end = 0, n
	} else {
		start, end = n-1, -1
	}

	if sl.Start != nil {
		start = resolveSliceBound(*sl.Start, n)
	}

	if sl.End != nil {
		end = resolveSliceBound(*sl.End, n)
	}

	var result []any

	if step > 0 {
		if start < 0 {
			start = 0
		}

		if end > n {
			end = n
		}

		for i := start; i < end; i += step {
			result = append(result, arr[i])
		}
	} else {
		if start >= n {
			start = n - 1
		}

		if end < -1 {
			end = -1
		}

		for i := start; i > end; i += step {
			if i < 0 || i >= n {
				continue
			}

			result = append(result, arr[i])
		}
	}

	return result
}

func resolveSliceBound(b, n int) int {
	if b < 0 {
		b += n
	}

	return b
}

func applyFilter(node any, filter *FilterExpr) []any {
	var result []any

	switch v := node.(type) {
	case []any:
		for _, elem := range v {
			if evalFilter(filter, elem) {
				result = append(result, elem)
			}
		}
	case map[string]any:
		for _, key := range sortedKeys(v) {
			elem := v[key]
			if evalFilter(filter, elem) {
				result = append(result, elem)
			}
		}
	}

	return result
}

// orderedChildren returns a node's direct children in a deterministic
// order: array elements in document order, object members in sorted key
// order (see Execute's doc comment on object ordering).
func orderedChildren(node any) []any {
	switch v := node.(type) {
	case []any:
		return append([]any(nil), v...)
	case map[string]any:
		keys := sortedKeys(v)
		result := make([]any, 0, len(keys))

		for _, k := range keys {
			result = append(result, v[k])
		}

		return result
	default:
		return nil
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
