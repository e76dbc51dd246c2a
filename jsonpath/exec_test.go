package jsonpath

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()

	var v any

	require.NoError(t, json.Unmarshal([]byte(raw), &v))

	return v
}

func TestExecute_RootAlwaysReturnsWholeDocument(t *testing.T) {
	doc := decode(t, `{"a":1}`)
	expr := MustCompile("$")

	assert.Equal(t, []any{doc}, Execute(expr, doc))
}

func TestExecute_MemberAndIndex(t *testing.T) {
	doc := decode(t, `{"messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"yo"}]}`)

	expr := MustCompile("$.messages[0].content")
	matches := Execute(expr, doc)
	require.Len(t, matches, 1)
	assert.Equal(t, "hi", matches[0])

	expr = MustCompile("$.messages[-1].role")
	matches = Execute(expr, doc)
	require.Len(t, matches, 1)
	assert.Equal(t, "assistant", matches[0])
}

func TestExecute_OutOfBoundsYieldsEmpty(t *testing.T) {
	doc := decode(t, `{"messages":[1,2]}`)

	expr := MustCompile("$.messages[5]")
	assert.Empty(t, Execute(expr, doc))

	expr = MustCompile("$.messages[-99]")
	assert.Empty(t, Execute(expr, doc))
}

func TestExecute_WrongContainerYieldsEmptyNotError(t *testing.T) {
	doc := decode(t, `{"name":"not-an-array"}`)

	expr := MustCompile("$.name[0]")
	assert.Empty(t, Execute(expr, doc))

	expr = MustCompile("$.name.missing")
	assert.Empty(t, Execute(expr, doc))
}

func TestExecute_Slice(t *testing.T) {
	doc := decode(t, `[0,1,2,3,4]`)

	expr := MustCompile("$[1:3]")
	assert.Equal(t, []any{1.0, 2.0}, Execute(expr, doc))

	expr = MustCompile("$[:2]")
	assert.Equal(t, []any{0.0, 1.0}, Execute(expr, doc))

	expr = MustCompile("$[::2]")
	assert.Equal(t, []any{0.0, 2.0, 4.0}, Execute(expr, doc))
}

func TestExecute_UnionNotDeduplicated(t *testing.T) {
	doc := decode(t, `[10,20,30]`)

	expr := MustCompile("$[0,0,1]")
	assert.Equal(t, []any{10.0, 10.0, 20.0}, Execute(expr, doc))
}

func TestExecute_Wildcard(t *testing.T) {
	doc := decode(t, `{"a":1,"b":2}`)

	expr := MustCompile("$.*")
	assert.ElementsMatch(t, []any{1.0, 2.0}, Execute(expr, doc))
}

func TestExecute_RecursiveDescentPreOrder(t *testing.T) {
	doc := decode(t, `{"name":"root","child":{"name":"mid","child":{"name":"leaf"}}}`)

	expr := MustCompile("$..name")
	assert.Equal(t, []any{"root", "mid", "leaf"}, Execute(expr, doc))
}

func TestExecute_Filter(t *testing.T) {
	doc := decode(t, `{"messages":[{"role":"system","content":"sys"},{"role":"user","content":"hi"}]}`)

	expr := MustCompile("$.messages[?(@.role == 'user')]")
	matches := Execute(expr, doc)
	require.Len(t, matches, 1)
	assert.Equal(t, "hi", matches[0].(map[string]any)["content"])
}

func TestExecute_FilterNonexistentPathIsFalse(t *testing.T) {
	doc := decode(t, `[{"a":1},{"b":2}]`)

	expr := MustCompile("$[?(@.missing == 1)]")
	assert.Empty(t, Execute(expr, doc))
}

func TestExecute_FilterNumberStringNeverEqual(t *testing.T) {
	doc := decode(t, `[{"v":1},{"v":"1"}]`)

	expr := MustCompile("$[?(@.v == 1)]")
	matches := Execute(expr, doc)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].(map[string]any)["v"])
}

func TestExists(t *testing.T) {
	doc := decode(t, `{"a":{"b":1}}`)

	assert.True(t, Exists(MustCompile("$.a.b"), doc))
	assert.False(t, Exists(MustCompile("$.a.c"), doc))
}

func TestExecute_Deterministic(t *testing.T) {
	doc := decode(t, `{"a":[1,2,3]}`)
	expr := MustCompile("$.a[*]")

	first := Execute(expr, doc)
	second := Execute(expr, doc)
	assert.Equal(t, first, second)
}
