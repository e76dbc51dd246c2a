package spec

import "encoding/json"

// structToDocument round-trips v through encoding/json to obtain a plain
// map[string]any/[]any tree, the shape the jsonpath and transform packages
// operate on. Numbers decode as float64, matching encoding/json's default
// behavior elsewhere in the pipeline.
func structToDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}
