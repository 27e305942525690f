package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Indent is the indentation used when encoding documents.
const Indent = "    "

// Decode parses a JSON object. Integral numbers become int64, other numbers
// float64, so bound controls see the same kinds the file was written with.
func Decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("document: decode: trailing data after object")
	}

	root, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return root, nil
}

// Encode renders doc with lexicographically sorted keys and a four space
// indent so saved files diff cleanly.
func Encode(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			v[k] = normalize(child)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = normalize(child)
		}
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}
