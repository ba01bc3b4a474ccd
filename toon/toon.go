// Package toon implements a bidirectional JSON <-> TOON codec. TOON
// (Token-Oriented Object Notation) is a line-oriented, indentation-based
// text format that represents the JSON data model with explicit array
// lengths and minimal quoting, aimed at lower token counts when fed to a
// language model than equivalent JSON.
package toon

import (
	"github.com/mcncl/gotoon/internal/decoder"
	"github.com/mcncl/gotoon/internal/delim"
	"github.com/mcncl/gotoon/internal/encoder"
	"github.com/mcncl/gotoon/internal/pathexpand"
	"github.com/mcncl/gotoon/internal/value"
)

// Value re-exports the core tagged-union type so callers never need to
// import internal/value directly.
type Value = value.Value

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// Indent is the number of spaces per indentation level. Defaults to 2
	// when zero or negative.
	Indent int
	// Delimiter selects the inline/tabular separator: "comma" (default),
	// "tab", or "pipe". An empty string means comma.
	Delimiter string
	// KeyFolding is reserved for a future dotted-key folding mode on
	// encode; "off" (the only currently supported value) emits keys
	// verbatim.
	KeyFolding string
	// FlattenDepth bounds key-folding depth once KeyFolding is enabled. It
	// has no effect while KeyFolding is "off".
	FlattenDepth int
}

// DefaultEncodeOptions returns the spec defaults: two-space indent, comma
// delimiter, key folding off.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2, Delimiter: "comma", KeyFolding: "off"}
}

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// Indent is the number of spaces per indentation level. Defaults to 2
	// when zero or negative.
	Indent int
	// Strict enables all length/width/indentation/blank-line checks.
	// DefaultDecodeOptions sets it to true; a zero-value DecodeOptions has
	// Strict false and so relaxes them.
	Strict bool
	// ExpandPaths turns on post-decode dotted-key expansion: "off"
	// (default) or "safe".
	ExpandPaths string
	// MaxDepth bounds recursion during decode. Defaults to 1000 when zero
	// or negative.
	MaxDepth int
}

// DefaultDecodeOptions returns the spec defaults: two-space indent, strict
// checking enabled, path expansion off, and a 1000-level recursion bound.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Indent: 2, Strict: true, ExpandPaths: "off", MaxDepth: 1000}
}

// Encode renders v as a TOON document.
func Encode(v Value, opts EncodeOptions) ([]byte, error) {
	d, ok := delim.Parse(opts.Delimiter)
	if !ok {
		d = delim.Comma
	}
	enc := encoder.New(opts.Indent, d)
	s, err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Decode parses data as a TOON document, optionally expanding dotted keys
// into nested objects afterward when opts.ExpandPaths is "safe".
func Decode(data []byte, opts DecodeOptions) (Value, error) {
	dopts := decoder.Options{
		IndentSize: opts.Indent,
		Strict:     opts.Strict,
		MaxDepth:   opts.MaxDepth,
	}
	v, err := decoder.Decode(data, dopts)
	if err != nil {
		return Value{}, err
	}
	if opts.ExpandPaths == "safe" {
		return pathexpand.Expand(v, opts.Strict)
	}
	return v, nil
}
