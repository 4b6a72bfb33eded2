// Package input decodes JSON, YAML and TOML documents into Go values ready
// for fingerprinting.
//
// Decoding keeps the information the canonicalizer cares about:
//
//   - JSON numbers are kept as json.Number, so large integers are not
//     rounded through float64.
//   - YAML mappings with non-string keys become map[any]any and encode as
//     Map(...); mappings with string keys are records.
//   - TOML local dates and times become their textual form.
//
// A stream may hold several documents (YAML "---" separators, concatenated
// JSON values); Decode returns one value per document.
//
// # Format Detection
//
// FormatAuto picks a format from the file extension and falls back to
// sniffing the content: valid JSON first, then TOML, then YAML.
package input
