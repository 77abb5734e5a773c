package timeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one raw timeline entry as decoded from JSON or YAML.
type Record map[string]any

// Format selects the decoder for raw input.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks a format from a file extension. Anything that is not
// .yaml or .yml, including stdin ("-"), is treated as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses raw input into records. A top-level object is accepted only
// when it is a lifecycle envelope carrying a "data" list.
func Decode(data []byte, format Format) ([]Record, error) {
	var top any
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&top); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: input holds more than one document")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&top); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode json: unexpected data after top-level value")
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if obj, ok := top.(map[string]any); ok {
		unwrapped, err := unwrapEnvelope(obj)
		if err != nil {
			return nil, err
		}
		top = unwrapped
	}

	list, ok := top.([]any)
	if !ok {
		if top == nil {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("decode: expected a list of records, got %T", top)
	}

	records := make([]Record, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &MalformedEventError{Index: i, Field: "record", Reason: fmt.Sprintf("expected an object, got %T", item)}
		}
		records[i] = Record(obj)
	}
	return records, nil
}

// unwrapEnvelope returns the "data" list of a lifecycle API response.
func unwrapEnvelope(obj map[string]any) (any, error) {
	data, ok := obj["data"]
	if !ok {
		return nil, fmt.Errorf("decode: object input must be an envelope with a \"data\" field")
	}

	if raw, ok := obj["status"]; ok {
		status, err := toInt(raw)
		if err != nil {
			return nil, fmt.Errorf("decode: envelope status: %w", err)
		}
		if status != 200 {
			msg, _ := obj["message"].(string)
			return nil, &EnvelopeError{Status: status, Message: msg}
		}
	}
	return data, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
