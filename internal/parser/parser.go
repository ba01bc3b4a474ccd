// Package parser ingests JSON into the codec's value.Value tree, preserving
// object key order as encountered on the wire (encoding/json's map-based
// unmarshal does not, so this walks the token stream directly).
package parser

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/gotoon/internal/errors"
	"github.com/mcncl/gotoon/internal/numfmt"
	"github.com/mcncl/gotoon/internal/value"
)

// Parse decodes exactly one JSON value from r.
func Parse(r io.Reader) (value.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return value.Value{}, errors.New(errors.KindInvalidInput, "input is empty or contains only whitespace", nil)
		}
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			return value.Value{}, errors.New(errors.KindInvalidInput,
				fmt.Sprintf("json syntax error at offset %d", syntaxErr.Offset), err)
		}
		return value.Value{}, errors.New(errors.KindInvalidInput, "failed to decode json", err)
	}

	if dec.More() {
		return value.Value{}, errors.New(errors.KindInvalidInput, "multiple json values found at the root", nil)
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	return tokenToValue(dec, tok)
}

func tokenToValue(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
	case bool:
		return value.NewBool(t), nil
	case json.Number:
		return numberToValue(t)
	case string:
		return value.NewString(t), nil
	case nil:
		return value.NewNull(), nil
	}
	return value.Value{}, fmt.Errorf("parser: unexpected json token %v (%T)", tok, tok)
}

func parseObject(dec *json.Decoder) (value.Value, error) {
	obj := value.NewObj()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return value.Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("parser: object key token was not a string: %v", keyTok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume the closing '}'
		return value.Value{}, err
	}
	return value.NewObject(obj), nil
}

func parseArray(dec *json.Decoder) (value.Value, error) {
	var arr []value.Value
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil { // consume the closing ']'
		return value.Value{}, err
	}
	return value.NewArray(arr), nil
}

// numberToValue reuses the codec's own number grammar: a JSON number token's
// textual form already satisfies the TOON numeric grammar, so the Int/Float
// boundary rule is applied identically on ingestion and on the wire.
func numberToValue(n json.Number) (value.Value, error) {
	v, ok, err := numfmt.Parse(string(n))
	if !ok {
		return value.Value{}, fmt.Errorf("parser: %q is not a valid JSON number", string(n))
	}
	return v, err
}

// ParseString decodes a JSON value held in a string.
func ParseString(s string) (value.Value, error) {
	if strings.TrimSpace(s) == "" {
		return value.Value{}, errors.New(errors.KindInvalidInput, "input string is empty or consists only of whitespace", nil)
	}
	return Parse(strings.NewReader(s))
}

// ParseFile decodes a JSON value from the file at path.
func ParseFile(path string) (value.Value, error) {
	if strings.TrimSpace(path) == "" {
		return value.Value{}, errors.New(errors.KindInvalidInput, "file path is empty", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return value.Value{}, errors.New(errors.KindInvalidInput, fmt.Sprintf("failed to open file %q", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "parser: error closing file: %v\n", cerr)
		}
	}()

	stat, err := f.Stat()
	if err != nil {
		return value.Value{}, errors.New(errors.KindInvalidInput, fmt.Sprintf("failed to stat file %q", path), err)
	}
	if stat.Size() == 0 {
		return value.Value{}, errors.New(errors.KindInvalidInput, fmt.Sprintf("input file %q is empty", path), nil)
	}

	return Parse(f)
}
