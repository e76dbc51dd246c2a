package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidGrammar(t *testing.T) {
	cases := []string{
		"$",
		"$.messages",
		"$.messages[0]",
		"$.messages[-1]",
		"$['messages']",
		"$.messages[0:2]",
		"$.messages[0:2:1]",
		"$.messages[0,1,2]",
		"$['a','b']",
		"$.*",
		"$.messages[*]",
		"$..name",
		"$..*",
		"$.messages[?(@.role == 'user')]",
		"$.messages[?(@.role == 'user' && @.content != '')]",
		"$.messages[?(!(@.role == 'system'))]",
		"$.sampling.temperature",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			expr, err := Parse(src)
			require.NoError(t, err, "expected %q to parse", src)
			assert.NotNil(t, expr)
		})
	}
}

func TestParse_RejectsInvalidGrammar(t *testing.T) {
	cases := []string{
		"",
		"messages",
		"$.",
		"$[",
		"$['unterminated",
		"$.messages[abc]",
		"$.messages[0:1:0]",
		"$.messages[?(@.role ==)]",
		"$.messages extra",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			require.Error(t, err, "expected %q to be rejected", src)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestParse_NeverPanics(t *testing.T) {
	adversarial := []string{
		"$" + string([]byte{0xff, 0xfe, 0x00}),
		"$[[[[[[[[[[[[[[[[[[[[",
		"$..........",
		"$[?(((((((((",
		"$['" + string(make([]byte, 10000)) + "']",
	}

	for _, src := range adversarial {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Parse panicked on %q: %v", src, r)
				}
			}()

			_, _ = Parse(src)
		}()
	}
}

func TestParse_FormatRoundTrip(t *testing.T) {
	cases := []string{
		"$.messages",
		"$.messages[0]",
		"$.messages[-1]",
		"$.messages[0:2]",
		"$.messages[0:2:1]",
		"$.messages[0,1,2]",
		"$.*",
		"$..name",
		"$..*",
		"$.messages[?(@.role == 'user')]",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			expr, err := Parse(src)
			require.NoError(t, err)

			formatted := expr.String()

			reparsed, err := Parse(formatted)
			require.NoError(t, err, "re-parsing formatted path %q failed", formatted)
			assert.Equal(t, len(expr.Segments), len(reparsed.Segments))
		})
	}
}

func TestCompile_CachesBySource(t *testing.T) {
	ResetCache()

	a, err := Compile("$.messages[0]")
	require.NoError(t, err)

	b, err := Compile("$.messages[0]")
	require.NoError(t, err)

	assert.Same(t, a, b, "Compile should return the cached instance for the same source")
}
