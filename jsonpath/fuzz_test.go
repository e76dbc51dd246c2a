package jsonpath

import "testing"

// FuzzParse asserts the engine's totality property: Parse must never panic,
// for any byte sequence, and must return either a valid Expression or a
// *ParseError.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"$",
		"$.messages",
		"$.messages[0]",
		"$['messages']",
		"$.messages[0:2:1]",
		"$.messages[0,1,2]",
		"$.*",
		"$..name",
		"$.messages[?(@.role == 'user' && @.content != '')]",
		"",
		"$[",
		"$[?(",
		"$..",
		"$['unterminated",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		expr, err := Parse(src)
		if err != nil {
			return
		}

		if expr == nil {
			t.Fatalf("Parse(%q) returned nil expression with nil error", src)
		}
	})
}
