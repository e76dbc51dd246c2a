package jsonpath

// optimize validates a freshly parsed Expression and annotates it with
// execution hints. It is the "optimise" stage of parse -> AST -> optimise
// -> CompiledExpression described by the engine's compilation contract.
func optimize(source string, expr *Expression) (*Expression, *ParseError) {
	simple := true

	fastNames := make([]string, 0, len(expr.Segments))

	for i := range expr.Segments {
		seg := &expr.Segments[i]

		if seg.Kind == SegmentSlice && seg.Slice.Step != nil && *seg.Slice.Step == 0 {
			return nil, newParseError(source, seg.Pos, ErrorKindInvalidFilter, "slice step must not be zero")
		}

		if simple {
			if seg.Kind == SegmentMember && !seg.Recursive && len(seg.Names) == 1 {
				fastNames = append(fastNames, seg.Names[0])
			} else {
				simple = false
			}
		}
	}

	expr.simple = simple && len(fastNames) > 0
	expr.fastNames = fastNames

	return expr, nil
}
