package jsonpath

import (
	"fmt"
	"strings"
)

// SegmentKind identifies which selector a Segment carries.
type SegmentKind int

const (
	// SegmentMember selects one or more named members (.name, ['a','b']).
	SegmentMember SegmentKind = iota
	// SegmentIndex selects one or more array elements by index, including
	// negative indices counted from the end ([n], [0,2,-1]).
	SegmentIndex
	// SegmentSlice selects a half-open array range ([start:end:step]).
	SegmentSlice
	// SegmentWildcard selects every member of an object or every element
	// of an array (*, [*]).
	SegmentWildcard
	// SegmentFilter selects array/object elements matching a predicate
	// ([?(expr)]).
	SegmentFilter
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentMember:
		return "member"
	case SegmentIndex:
		return "index"
	case SegmentSlice:
		return "slice"
	case SegmentWildcard:
		return "wildcard"
	case SegmentFilter:
		return "filter"
	default:
		return "unknown"
	}
}

// Slice describes a [start:end:step] selector. Nil bounds mean "open" on
// that side, mirroring Python-style slicing semantics.
type Slice struct {
	Start *int
	End   *int
	Step  *int
}

// Segment is one step of a compiled JSONPath expression, e.g. the `.name`,
// `[0]`, `[1:3]`, `*`, or `[?(@.x > 1)]` in `$.name[0][1:3].*[?(@.x > 1)]`.
//
// Recursive marks a `..` prefix (recursive descent): the segment's selector
// is applied at every depth of the subtree rooted at the current node, in
// pre-order.
type Segment struct {
	Kind      SegmentKind
	Recursive bool

	// Names holds the member name(s) for SegmentMember (len==1 for a plain
	// `.name`/['name'], len>1 for a name union `['a','b']`).
	Names []string

	// Indices holds the index/indices for SegmentIndex (len==1 for `[n]`,
	// len>1 for an index union `[0,2,-1]`).
	Indices []int

	Slice Slice

	Filter *FilterExpr

	Pos int
}

func (s Segment) recursivePrefix() string {
	if s.Recursive {
		return ".."
	}

	return "."
}

// String renders the segment back to JSONPath syntax. Combined across an
// Expression's segments this supports a parse -> format -> parse
// round-trip.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentMember:
		if s.Recursive {
			if len(s.Names) == 1 {
				return ".." + s.Names[0]
			}

			return ".." + bracketNames(s.Names)
		}

		if len(s.Names) == 1 && isPlainName(s.Names[0]) {
			return "." + s.Names[0]
		}

		return bracketNames(s.Names)
	case SegmentIndex:
		parts := make([]string, len(s.Indices))
		for i, idx := range s.Indices {
			parts[i] = fmt.Sprintf("%d", idx)
		}

		prefix := ""
		if s.Recursive {
			prefix = ".."
		}

		return prefix + "[" + strings.Join(parts, ",") + "]"
	case SegmentSlice:
		prefix := ""
		if s.Recursive {
			prefix = ".."
		}

		return prefix + "[" + sliceString(s.Slice) + "]"
	case SegmentWildcard:
		if s.Recursive {
			return "..*"
		}

		return "[*]"
	case SegmentFilter:
		prefix := ""
		if s.Recursive {
			prefix = ".."
		}

		return prefix + "[?(" + s.Filter.String() + ")]"
	default:
		return ""
	}
}

func isPlainName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}

		if i > 0 && r >= '0' && r <= '9' {
			continue
		}

		return false
	}

	return true
}

func bracketNames(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "'" + strings.ReplaceAll(n, "'", "\\'") + "'"
	}

	return "[" + strings.Join(parts, ",") + "]"
}

func sliceString(s Slice) string {
	var sb strings.Builder

	if s.Start != nil {
		fmt.Fprintf(&sb, "%d", *s.Start)
	}

	sb.WriteByte(':')

	if s.End != nil {
		fmt.Fprintf(&sb, "%d", *s.End)
	}

	if s.Step != nil {
		sb.WriteByte(':')
		fmt.Fprintf(&sb, "%d", *s.Step)
	}

	return sb.String()
}

// Expression is a compiled, immutable JSONPath AST. It is safe to share
// across goroutines and across translations once Parse/Compile returns.
type Expression struct {
	Source   string
	Segments []Segment

	// simple and fastNames are populated by optimize() when every segment
	// is a plain non-recursive single-name member access (the overwhelming
	// common case for mapping-table paths like "$.sampling.temperature").
	// execute() takes a direct-lookup fast path for these instead of the
	// general segment-dispatch loop.
	simple    bool
	fastNames []string
}

// String renders the expression back to its canonical JSONPath form.
func (e *Expression) String() string {
	var sb strings.Builder

	sb.WriteByte('$')

	for _, seg := range e.Segments {
		sb.WriteString(seg.String())
	}

	return sb.String()
}

// FilterOp enumerates the comparison and logical operators a filter
// predicate may use.
type FilterOp string

const (
	OpEq         FilterOp = "=="
	OpNeq        FilterOp = "!="
	OpLt         FilterOp = "<"
	OpLte        FilterOp = "<="
	OpGt         FilterOp = ">"
	OpGte        FilterOp = ">="
	OpAnd        FilterOp = "&&"
	OpOr         FilterOp = "||"
	OpNot        FilterOp = "!"
	OpExistsOnly FilterOp = "exists"
)

// Operand is one side of a filter comparison: either a path rooted at the
// element under test (`@.field.path`) or a literal value.
type Operand struct {
	IsPath  bool
	Path    *Expression // relative path, rooted at "@"
	Literal any
}

func (o Operand) String() string {
	if o.IsPath {
		return "@" + pathSuffix(o.Path)
	}

	return literalString(o.Literal)
}

func pathSuffix(e *Expression) string {
	var sb strings.Builder
	for _, seg := range e.Segments {
		sb.WriteString(seg.String())
	}

	return sb.String()
}

func literalString(v any) string {
	switch vv := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(vv, "'", "\\'") + "'"
	case bool:
		if vv {
			return "true"
		}

		return "false"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", vv)
	}
}

// FilterExpr is a boolean expression over @.path/literal operands, as used
// by a [?(expr)] segment. It is either:
//   - a comparison (Left Op Right, with a comparison FilterOp), or
//   - a bare existence check (Left only, Op==OpExistsOnly), or
//   - a logical combination (And/Or/Not) of sub-expressions.
type FilterExpr struct {
	Op    FilterOp
	Left  Operand
	Right Operand

	// Sub-expressions for And/Or/Not; when set, Left/Right/Op above (save
	// for Op itself in the And/Or/Not case) are unused.
	SubLeft  *FilterExpr
	SubRight *FilterExpr
}

// String renders the filter predicate back to source syntax.
func (f *FilterExpr) String() string {
	switch f.Op {
	case OpAnd, OpOr:
		return fmt.Sprintf("%s %s %s", f.SubLeft.String(), f.Op, f.SubRight.String())
	case OpNot:
		return fmt.Sprintf("!(%s)", f.SubLeft.String())
	case OpExistsOnly:
		return f.Left.String()
	default:
		return fmt.Sprintf("%s %s %s", f.Left.String(), f.Op, f.Right.String())
	}
}
