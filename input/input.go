package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/zero-day-ai/objhash"
	"gopkg.in/yaml.v3"
)

// Format names a document format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the formats accepted by ParseFormat, in display order.
var Formats = []Format{FormatAuto, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat parses a format name. The empty string means FormatAuto and
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", objhash.NewValidationError("input.ParseFormat",
		fmt.Errorf("%w: %q", objhash.ErrUnsupportedFormat, s))
}

// DetectFormat guesses the format of data. A recognised extension on name
// wins; otherwise the content decides.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && isJSONStream(trimmed) {
		return FormatJSON
	}
	var probe map[string]any
	if len(trimmed) > 0 && toml.Unmarshal(trimmed, &probe) == nil && len(probe) > 0 {
		return FormatTOML
	}
	return FormatYAML
}

func isJSONStream(data []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var v json.RawMessage
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return true
		}
		if err != nil {
			return false
		}
	}
}

// Decode decodes every document in data. FormatAuto is resolved with
// DetectFormat and no file name.
func Decode(data []byte, format Format) ([]any, error) {
	return decode("input.Decode", "", data, format)
}

// DecodeReader reads r to the end and decodes it. name is used for format
// detection and error context only.
func DecodeReader(r io.Reader, name string, format Format) ([]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, objhash.NewIOError("input.DecodeReader", err).
			WithContext(map[string]any{"name": name})
	}
	return decode("input.DecodeReader", name, data, format)
}

// DecodeFile reads and decodes the file at path.
func DecodeFile(path string, format Format) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, objhash.NewIOError("input.DecodeFile", err).
			WithContext(map[string]any{"path": path})
	}
	return decode("input.DecodeFile", path, data, format)
}

func decode(op, name string, data []byte, format Format) ([]any, error) {
	if format == "" || format == FormatAuto {
		format = DetectFormat(name, data)
	}

	var (
		docs []any
		err  error
	)
	switch format {
	case FormatJSON:
		docs, err = decodeJSON(data)
	case FormatYAML:
		docs, err = decodeYAML(data)
	case FormatTOML:
		docs, err = decodeTOML(data)
	default:
		return nil, objhash.NewValidationError(op,
			fmt.Errorf("%w: %q", objhash.ErrUnsupportedFormat, format))
	}
	if err != nil {
		ctx := map[string]any{"format": string(format)}
		if name != "" {
			ctx["name"] = name
		}
		return nil, objhash.NewDecodeError(op, err).WithContext(ctx)
	}
	return docs, nil
}

func decodeJSON(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var docs []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse json document %d: %w", len(docs)+1, err)
		}
		docs = append(docs, v)
	}
}

func decodeYAML(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse yaml document %d: %w", len(docs)+1, err)
		}
		docs = append(docs, v)
	}
}

func decodeTOML(data []byte) ([]any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse toml document: %w", err)
	}
	if v == nil {
		v = map[string]any{}
	}
	return []any{normalizeTOML(v)}, nil
}

// normalizeTOML replaces local date and time values, which decode to
// structs, with their TOML text.
func normalizeTOML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeTOML(val)
		}
		return x
	case []any:
		for i, val := range x {
			x[i] = normalizeTOML(val)
		}
		return x
	case toml.LocalDate:
		return x.String()
	case toml.LocalTime:
		return x.String()
	case toml.LocalDateTime:
		return x.String()
	}
	return v
}
