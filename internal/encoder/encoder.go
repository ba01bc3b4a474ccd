// Package encoder renders a value.Value tree as TOON text: the root
// dispatch, object field emission, and the four array-body forms
// (primitive-inline, tabular, array-of-arrays, mixed-expanded).
package encoder

import (
	"fmt"
	"strings"

	"github.com/mcncl/gotoon/internal/delim"
	"github.com/mcncl/gotoon/internal/errors"
	"github.com/mcncl/gotoon/internal/escape"
	"github.com/mcncl/gotoon/internal/form"
	"github.com/mcncl/gotoon/internal/numfmt"
	"github.com/mcncl/gotoon/internal/quote"
	"github.com/mcncl/gotoon/internal/value"
)

// Encoder renders values under a fixed indent width and delimiter.
type Encoder struct {
	indent int
	d      delim.Delimiter
}

// New builds an Encoder. indentSize must be at least 1; callers normally
// pass the config default of two spaces.
func New(indentSize int, d delim.Delimiter) *Encoder {
	if indentSize < 1 {
		indentSize = 2
	}
	return &Encoder{indent: indentSize, d: d}
}

// Encode renders v as a complete TOON document with no trailing newline.
func (e *Encoder) Encode(v value.Value) (string, error) {
	var buf strings.Builder
	switch v.Kind() {
	case value.Array:
		arr := v.Arr()
		if len(arr) == 0 {
			buf.WriteString("[0]:")
		} else if err := e.writeArrayHeaderAndBody(&buf, arr, 0); err != nil {
			return "", err
		}
	case value.Object:
		o := v.Obj()
		if o.Len() == 0 {
			return "", nil
		}
		if err := e.writeObject(&buf, o, 0); err != nil {
			return "", err
		}
	default:
		tok, err := e.primitiveToken(v)
		if err != nil {
			return "", err
		}
		buf.WriteString(tok)
	}
	return buf.String(), nil
}

func (e *Encoder) writeIndent(buf *strings.Builder, depth int) {
	buf.WriteString(strings.Repeat(" ", depth*e.indent))
}

// writeObject emits obj's fields in insertion order at the given depth, one
// per line, separated by "\n" with no trailing newline.
func (e *Encoder) writeObject(buf *strings.Builder, obj *value.Obj, depth int) error {
	keys := obj.Keys()
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte('\n')
		}
		e.writeIndent(buf, depth)
		val, _ := obj.Get(key)
		if err := e.writeFieldLine(buf, key, val, depth); err != nil {
			return err
		}
	}
	return nil
}

// writeFieldLine writes "key: value", "key:" plus a nested object body, or
// "key[header]..." plus an array body. depth is the depth of the field's own
// line; nested content lives at depth+1.
func (e *Encoder) writeFieldLine(buf *strings.Builder, key string, val value.Value, depth int) error {
	e.writeKeyToken(buf, key)
	if val.Kind() == value.Array {
		return e.writeArrayHeaderAndBody(buf, val.Arr(), depth)
	}
	buf.WriteByte(':')
	switch val.Kind() {
	case value.Object:
		o := val.Obj()
		if o.Len() > 0 {
			buf.WriteByte('\n')
			return e.writeObject(buf, o, depth+1)
		}
	default:
		buf.WriteByte(' ')
		tok, err := e.primitiveToken(val)
		if err != nil {
			return err
		}
		buf.WriteString(tok)
	}
	return nil
}

// writeArrayHeaderAndBody writes "[N<suffix>]" plus whatever follows it
// (tabular field list, inline values, or nothing) and then the body, if any,
// at depth+1. depth is the depth of the header's own line.
func (e *Encoder) writeArrayHeaderAndBody(buf *strings.Builder, arr []value.Value, depth int) error {
	fmt.Fprintf(buf, "[%d%s]", len(arr), e.d.HeaderSuffix())
	if len(arr) == 0 {
		buf.WriteByte(':')
		return nil
	}

	switch form.Detect(arr) {
	case form.Tabular:
		cols, _ := form.Columns(arr)
		buf.WriteByte('{')
		for i, c := range cols {
			if i > 0 {
				buf.WriteByte(e.d.Byte())
			}
			e.writeKeyToken(buf, c)
		}
		buf.WriteString("}:")
		for _, row := range arr {
			buf.WriteByte('\n')
			e.writeIndent(buf, depth+1)
			if err := e.writeTabularRow(buf, row.Obj(), cols); err != nil {
				return err
			}
		}
	case form.PrimitiveInline:
		buf.WriteString(": ")
		if err := e.writeInlineValues(buf, arr); err != nil {
			return err
		}
	default:
		buf.WriteByte(':')
		for _, el := range arr {
			buf.WriteByte('\n')
			e.writeIndent(buf, depth+1)
			if err := e.writeListItem(buf, el, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeListItem writes one "- "-prefixed array element. depth is the depth
// of the hyphen line itself.
func (e *Encoder) writeListItem(buf *strings.Builder, el value.Value, depth int) error {
	switch el.Kind() {
	case value.Object:
		o := el.Obj()
		keys := o.Keys()
		if len(keys) == 0 {
			buf.WriteByte('-')
			return nil
		}
		buf.WriteString("- ")
		first, _ := o.Get(keys[0])
		if err := e.writeFieldLine(buf, keys[0], first, depth+1); err != nil {
			return err
		}
		for _, k := range keys[1:] {
			v, _ := o.Get(k)
			buf.WriteByte('\n')
			e.writeIndent(buf, depth+1)
			if err := e.writeFieldLine(buf, k, v, depth+1); err != nil {
				return err
			}
		}
		return nil
	case value.Array:
		buf.WriteString("- ")
		return e.writeArrayHeaderAndBody(buf, el.Arr(), depth)
	default:
		buf.WriteString("- ")
		tok, err := e.primitiveToken(el)
		if err != nil {
			return err
		}
		buf.WriteString(tok)
		return nil
	}
}

func (e *Encoder) writeInlineValues(buf *strings.Builder, arr []value.Value) error {
	for i, v := range arr {
		if i > 0 {
			buf.WriteByte(e.d.Byte())
		}
		tok, err := e.primitiveToken(v)
		if err != nil {
			return err
		}
		buf.WriteString(tok)
	}
	return nil
}

func (e *Encoder) writeTabularRow(buf *strings.Builder, obj *value.Obj, cols []string) error {
	for i, c := range cols {
		if i > 0 {
			buf.WriteByte(e.d.Byte())
		}
		v, ok := obj.Get(c)
		if !ok {
			buf.WriteString("null")
			continue
		}
		tok, err := e.primitiveToken(v)
		if err != nil {
			return err
		}
		buf.WriteString(tok)
	}
	return nil
}

func (e *Encoder) writeKeyToken(buf *strings.Builder, key string) {
	if quote.KeyNeedsQuoting(key) {
		buf.WriteByte('"')
		buf.WriteString(escape.Escape(key))
		buf.WriteByte('"')
		return
	}
	buf.WriteString(key)
}

// primitiveToken renders a scalar value.Value as its wire token, quoting
// strings per the quoting oracle. It errors on a non-primitive value, which
// would indicate a caller bug rather than malformed input.
func (e *Encoder) primitiveToken(v value.Value) (string, error) {
	switch v.Kind() {
	case value.Null:
		return "null", nil
	case value.Bool:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case value.Int:
		return numfmt.FormatInt(v.Int()), nil
	case value.Float:
		return numfmt.FormatFloat(v.Float()), nil
	case value.String:
		s := v.Str()
		if quote.NeedsQuoting(s, e.d.Byte()) {
			return `"` + escape.Escape(s) + `"`, nil
		}
		return s, nil
	default:
		return "", errors.New(errors.KindNesting,
			"cannot render "+v.Kind().String()+" as a primitive token", nil)
	}
}
