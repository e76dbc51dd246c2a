package jsonpath

import (
	"strconv"
	"strings"
)

// Parse compiles a JSONPath source string into an Expression. Parse is
// total: it never panics, even on adversarial input, and rejects anything
// outside the supported grammar with a *ParseError naming the offending
// position and kind.
func Parse(source string) (expr *Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			expr = nil
			err = newParseError(source, 0, ErrorKindUnexpectedToken, "internal parser error recovered")
		}
	}()

	if source == "" {
		return nil, newParseError(source, 0, ErrorKindEmptySource, "path must not be empty")
	}

	p := &parser{src: []rune(source), raw: source}

	if !p.consumeRune('$') {
		return nil, newParseError(source, 0, ErrorKindUnexpectedToken, "path must start with '$'")
	}

	segs, perr := p.parseSegments(false)
	if perr != nil {
		return nil, perr
	}

	if !p.eof() {
		return nil, newParseError(source, p.pos, ErrorKindTrailingInput, "unexpected trailing input")
	}

	optimized, operr := optimize(source, &Expression{Source: source, Segments: segs})
	if operr != nil {
		return nil, operr
	}

	return optimized, nil
}

// parser is a hand-written recursive-descent parser operating over the
// rune slice of a JSONPath source string.
type parser struct {
	src []rune
	raw string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.src) {
		return 0
	}

	return p.src[idx]
}

func (p *parser) advance() rune {
	r := p.peek()
	p.pos++

	return r
}

func (p *parser) consumeRune(r rune) bool {
	if p.peek() == r {
		p.pos++
		return true
	}

	return false
}

func (p *parser) fail(kind ErrorKind, msg string) *ParseError {
	return newParseError(p.raw, p.pos, kind, msg)
}

// parseSegments parses a sequence of segments terminated either by eof or,
// when inFilterPath is true, by the first rune that cannot start a segment
// (used for relative @ paths inside filter expressions, which have no
// explicit terminator).
func (p *parser) parseSegments(inFilterPath bool) ([]Segment, *ParseError) {
	var segs []Segment

	for !p.eof() {
		r := p.peek()

		switch {
		case r == '.':
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}

			segs = append(segs, *seg)
		case r == '[':
			seg, err := p.parseBracketSegment()
			if err != nil {
				return nil, err
			}

			segs = append(segs, *seg)
		default:
			if inFilterPath {
				return segs, nil
			}

			return nil, p.fail(ErrorKindUnexpectedToken, "expected '.' or '[' to start a segment")
		}
	}

	return segs, nil
}

func (p *parser) parseDotSegment() (*Segment, *ParseError) {
	start := p.pos
	p.advance() // consume first '.'

	recursive := false
	if p.peek() == '.' {
		p.advance()

		recursive = true
	}

	if p.peek() == '*' {
		p.advance()

		return &Segment{Kind: SegmentWildcard, Recursive: recursive, Pos: start}, nil
	}

	if p.peek() == '[' {
		if recursive {
			return nil, p.fail(ErrorKindUnexpectedToken, "recursive descent only supports '..name' or '..*'")
		}
		// Allow "..." never happens here; a '.' directly followed by '[' (e.g.
		// ".['name']") is treated as equivalent to a bare bracket segment.
		return p.parseBracketSegment()
	}

	name, ok := p.readBareName()
	if !ok {
		return nil, p.fail(ErrorKindUnexpectedToken, "expected a member name, '*' or '[' after '.'")
	}

	return &Segment{Kind: SegmentMember, Recursive: recursive, Names: []string{name}, Pos: start}, nil
}

func (p *parser) readBareName() (string, bool) {
	start := p.pos

	if !isNameStart(p.peek()) {
		return "", false
	}

	p.advance()

	for isNameContinue(p.peek()) {
		p.advance()
	}

	return string(p.src[start:p.pos]), true
}

func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameContinue(r rune) bool {
	return isNameStart(r) || (r >= '0' && r <= '9') || r == '-'
}

func (p *parser) parseBracketSegment() (*Segment, *ParseError) {
	start := p.pos

	if !p.consumeRune('[') {
		return nil, p.fail(ErrorKindUnexpectedToken, "expected '['")
	}

	p.skipSpace()

	switch {
	case p.peek() == '?':
		return p.parseFilterSegment(start)
	case p.peek() == '*':
		p.advance()
		p.skipSpace()

		if !p.consumeRune(']') {
			return nil, p.fail(ErrorKindUnterminated, "expected ']' after '*'")
		}

		return &Segment{Kind: SegmentWildcard, Pos: start}, nil
	case p.peek() == '\'' || p.peek() == '"':
		return p.parseNameUnion(start)
	default:
		return p.parseIndexOrSlice(start)
	}
}

func (p *parser) parseNameUnion(start int) (*Segment, *ParseError) {
	var names []string

	for {
		name, err := p.parseQuotedString()
		if err != nil {
			return nil, err
		}

		names = append(names, name)
		p.skipSpace()

		if p.consumeRune(',') {
			p.skipSpace()

			continue
		}

		break
	}

	if !p.consumeRune(']') {
		return nil, p.fail(ErrorKindUnterminated, "expected ']' after quoted name(s)")
	}

	return &Segment{Kind: SegmentMember, Names: names, Pos: start}, nil
}

func (p *parser) parseQuotedString() (string, *ParseError) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.fail(ErrorKindUnexpectedToken, "expected a quoted string")
	}

	p.advance()

	var sb strings.Builder

	for {
		if p.eof() {
			return "", p.fail(ErrorKindUnterminated, "unterminated quoted string")
		}

		r := p.advance()
		if r == '\\' && !p.eof() {
			sb.WriteRune(p.advance())
			continue
		}

		if r == quote {
			return sb.String(), nil
		}

		sb.WriteRune(r)
	}
}

func (p *parser) parseIndexOrSlice(start int) (*Segment, *ParseError) {
	contentStart := p.pos

	depth := 0
	for !p.eof() {
		r := p.peek()
		if r == '[' {
			depth++
		} else if r == ']' {
			if depth == 0 {
				break
			}

			depth--
		}

		p.advance()
	}

	if p.eof() {
		return nil, p.fail(ErrorKindUnterminated, "unterminated '[' selector")
	}

	content := string(p.src[contentStart:p.pos])
	p.advance() // consume ']'

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, newParseError(p.raw, contentStart, ErrorKindUnexpectedToken, "empty index/slice selector")
	}

	if strings.Contains(content, ":") {
		sl, perr := parseSlice(p.raw, contentStart, content)
		if perr != nil {
			return nil, perr
		}

		return &Segment{Kind: SegmentSlice, Slice: sl, Pos: start}, nil
	}

	parts := strings.Split(content, ",")

	indices := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, newParseError(p.raw, contentStart, ErrorKindInvalidNumber, "invalid index: "+part)
		}

		indices = append(indices, n)
	}

	return &Segment{Kind: SegmentIndex, Indices: indices, Pos: start}, nil
}

func parseSlice(raw string, pos int, content string) (Slice, *ParseError) {
	fields := strings.Split(content, ":")
	if len(fields) > 3 {
		return Slice{}, newParseError(raw, pos, ErrorKindInvalidFilter, "slice may have at most start:end:step")
	}

	parse := func(s string) (*int, *ParseError) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, newParseError(raw, pos, ErrorKindInvalidNumber, "invalid slice bound: "+s)
		}

		return &n, nil
	}

	var sl Slice

	start, perr := parse(fields[0])
	if perr != nil {
		return Slice{}, perr
	}

	sl.Start = start

	if len(fields) >= 2 {
		end, perr := parse(fields[1])
		if perr != nil {
			return Slice{}, perr
		}

		sl.End = end
	}

	if len(fields) == 3 {
		step, perr := parse(fields[2])
		if perr != nil {
			return Slice{}, perr
		}

		sl.Step = step
	}

	return sl, nil
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance()
	}
}

func (p *parser) parseFilterSegment(start int) (*Segment, *ParseError) {
	p.advance() // consume '?'
	p.skipSpace()

	hasParen := p.consumeRune('(')

	fexpr, err := p.parseFilterExpr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if hasParen && !p.consumeRune(')') {
		return nil, p.fail(ErrorKindUnterminated, "expected ')' to close filter expression")
	}

	p.skipSpace()

	if !p.consumeRune(']') {
		return nil, p.fail(ErrorKindUnterminated, "expected ']' to close filter selector")
	}

	return &Segment{Kind: SegmentFilter, Filter: fexpr, Pos: start}, nil
}
