// Package jsonpath implements a small JSONPath dialect used to locate and
// extract values from arbitrary JSON documents decoded as plain Go
// map[string]any/[]any trees.
//
// Supported grammar: root ($), member access (.name, ['name']), index
// access ([n], negative counts from the end), slices ([start:end:step]),
// unions ([a,b,c]), wildcards (*, [*]), recursive descent (..name, ..*),
// and filter predicates ([?(expr)]) combining comparisons with && || !.
//
// Compile a path once and reuse the resulting Expression across documents
// and goroutines:
//
//	expr, err := jsonpath.Compile("$.messages[?(@.role == 'user')]")
//	matches := jsonpath.Execute(expr, doc)
//
// Execute never fails: a selector applied to a value that cannot contain it
// (e.g. an index into an object) yields an empty result, not an error.
// Parse is total and is fuzz-tested (FuzzParse) to never panic.
package jsonpath
