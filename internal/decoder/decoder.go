// Package decoder implements the TOON decoder: line pre-tokenization,
// indentation-based recursive descent, array-header parsing, tabular-row
// disambiguation, and primitive-token parsing.
package decoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/gotoon/internal/delim"
	"github.com/mcncl/gotoon/internal/errors"
	"github.com/mcncl/gotoon/internal/escape"
	"github.com/mcncl/gotoon/internal/numfmt"
	"github.com/mcncl/gotoon/internal/value"
)

// Options configures a Decode call.
type Options struct {
	IndentSize int
	Strict     bool
	// MaxDepth bounds recursion to protect against adversarial input;
	// decode fails with a nesting error once a value's depth exceeds it.
	MaxDepth int
}

// DefaultOptions returns the spec defaults: two-space indent, strict
// checking enabled, and a generous recursion bound.
func DefaultOptions() Options {
	return Options{IndentSize: 2, Strict: true, MaxDepth: 1000}
}

// Decode parses data as a complete TOON document.
func Decode(data []byte, opts Options) (value.Value, error) {
	if opts.IndentSize < 1 {
		opts.IndentSize = 2
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 1000
	}
	lines, err := tokenize(data, opts.IndentSize, opts.Strict)
	if err != nil {
		return value.Value{}, err
	}
	p := &parser{lines: lines, strict: opts.Strict, maxDepth: opts.MaxDepth}

	firstIdx := -1
	nonBlank := 0
	for i, l := range lines {
		if !l.blank {
			if firstIdx == -1 {
				firstIdx = i
			}
			nonBlank++
		}
	}
	if firstIdx == -1 {
		return value.NewObject(value.NewObj()), nil
	}
	p.pos = firstIdx
	first := lines[firstIdx]

	if strings.HasPrefix(first.content, "[") {
		p.pos++
		return p.decodeArrayBody(first.content, 0)
	}
	if nonBlank == 1 && !strings.Contains(first.content, ":") {
		return parsePrimitiveToken(first.content)
	}

	obj := value.NewObj()
	if err := p.decodeObjectBody(0, obj); err != nil {
		return value.Value{}, err
	}
	return value.NewObject(obj), nil
}

type lineTok struct {
	num     int
	depth   int
	content string
	blank   bool
}

// tokenize splits data on "\n" and computes each line's indentation depth
// and right-trimmed content.
func tokenize(data []byte, indentSize int, strict bool) ([]lineTok, error) {
	raw := strings.Split(string(data), "\n")
	lines := make([]lineTok, 0, len(raw))
	for i, r := range raw {
		num := i + 1
		width := 0
		sawTab := false
		j := 0
		for j < len(r) && (r[j] == ' ' || r[j] == '\t') {
			if r[j] == '\t' {
				sawTab = true
			}
			width++
			j++
		}
		if strict && sawTab {
			return nil, errors.At(errors.KindTabIndent, "indentation contains a tab byte", num, j, nil)
		}
		if strict && width%indentSize != 0 {
			return nil, errors.At(errors.KindInvalidIndent, "indentation is not a multiple of the indent size", num, width, nil)
		}
		content := strings.TrimRight(r[j:], " \t")
		lines = append(lines, lineTok{num: num, depth: width / indentSize, content: content, blank: content == ""})
	}
	return lines, nil
}

// parser walks the pre-tokenized line stream with a single cursor.
type parser struct {
	lines    []lineTok
	pos      int
	strict   bool
	maxDepth int
}

func (p *parser) current() (lineTok, bool) {
	if p.pos >= len(p.lines) {
		return lineTok{}, false
	}
	return p.lines[p.pos], true
}

// skipBlanks advances past any blank lines and reports whether it skipped
// at least one.
func (p *parser) skipBlanks() bool {
	skipped := false
	for p.pos < len(p.lines) && p.lines[p.pos].blank {
		skipped = true
		p.pos++
	}
	return skipped
}

func (p *parser) checkDepth(d int) error {
	if d > p.maxDepth {
		return errors.New(errors.KindNesting, "maximum nesting depth exceeded", nil)
	}
	return nil
}

// decodeObjectBody reads "key: value" entries at depth into obj until a
// shallower or absent line is found.
func (p *parser) decodeObjectBody(depth int, obj *value.Obj) error {
	if err := p.checkDepth(depth); err != nil {
		return err
	}
	for {
		p.skipBlanks()
		l, ok := p.current()
		if !ok || l.depth < depth {
			return nil
		}
		if l.depth > depth {
			if p.strict {
				return errors.At(errors.KindUnexpectedIndent, "line is indented deeper than its parent expects", l.num, 0, nil)
			}
			p.pos++
			continue
		}
		if isListItemLine(l.content) {
			if p.strict {
				return errors.At(errors.KindInvalidListItem, "list item found outside an array body", l.num, 0, nil)
			}
			p.pos++
			continue
		}
		key, rest, err := parseKeyHeader(l.content)
		if err != nil {
			if p.strict {
				return err
			}
			p.pos++
			continue
		}
		p.pos++
		val, err := p.decodeFieldValue(key, rest, depth)
		if err != nil {
			return err
		}
		obj.Set(key, val)
	}
}

// decodeFieldValue interprets what follows a key on its own line: an array
// header, an inline primitive, or an empty tail that opens a nested object
// (or denotes an empty one).
func (p *parser) decodeFieldValue(key, rest string, depth int) (value.Value, error) {
	if strings.HasPrefix(rest, "[") {
		return p.decodeArrayBody(rest, depth)
	}
	if !strings.HasPrefix(rest, ":") {
		return value.Value{}, errors.New(errors.KindMissingColon, "object entry \""+key+"\" is missing ':'", nil)
	}
	after := strings.TrimLeft(rest[1:], " \t")
	if after != "" {
		return parsePrimitiveToken(after)
	}
	l, ok := p.current()
	if ok && l.depth > depth {
		if err := p.checkDepth(depth + 1); err != nil {
			return value.Value{}, err
		}
		child := value.NewObj()
		if err := p.decodeObjectBody(depth+1, child); err != nil {
			return value.Value{}, err
		}
		return value.NewObject(child), nil
	}
	return value.NewObject(value.NewObj()), nil
}

// decodeArrayBody parses the array header starting at header[0]=='[' and
// then its body. fieldDepth is the depth of the header's own line; rows and
// list items are read at fieldDepth+1. The caller must already have
// advanced past the header's own line.
func (p *parser) decodeArrayBody(header string, fieldDepth int) (value.Value, error) {
	n, fields, d, inline, err := parseArrayHeader(header)
	if err != nil {
		return value.Value{}, err
	}
	if n == 0 {
		return value.NewArray(nil), nil
	}
	if err := p.checkDepth(fieldDepth + 1); err != nil {
		return value.Value{}, err
	}
	switch {
	case len(fields) > 0:
		return p.decodeTabularRows(n, fields, d, fieldDepth+1)
	case inline != "":
		return p.decodeInlineValues(n, inline, d)
	default:
		return p.decodeListItems(n, fieldDepth+1)
	}
}

// parseArrayHeader parses "[N<suffix>]({fields})?:inline?" from the start of
// s, returning the declared length, the tabular field list (nil if absent),
// the array's local delimiter, and any same-line inline content.
func parseArrayHeader(s string) (n int, fields []string, d delim.Delimiter, inline string, err error) {
	if !strings.HasPrefix(s, "[") {
		return 0, nil, delim.Comma, "", errors.New(errors.KindInvalidHeader, "array header must start with '['", nil)
	}
	closeIdx := strings.IndexByte(s, ']')
	if closeIdx < 0 {
		return 0, nil, delim.Comma, "", errors.New(errors.KindInvalidHeader, "array header is missing ']'", nil)
	}
	inside := s[1:closeIdx]
	digits := inside
	d = delim.Comma
	if len(inside) > 0 {
		switch inside[len(inside)-1] {
		case '\t':
			d = delim.Tab
			digits = inside[:len(inside)-1]
		case '|':
			d = delim.Pipe
			digits = inside[:len(inside)-1]
		}
	}
	if digits == "" || !allDigits(digits) {
		return 0, nil, d, "", errors.New(errors.KindInvalidHeader, "array header length must be decimal digits", nil)
	}
	n64, perr := strconv.Atoi(digits)
	if perr != nil {
		return 0, nil, d, "", errors.New(errors.KindInvalidHeader, "array header length is not a valid integer", perr)
	}
	n = n64

	rest := s[closeIdx+1:]
	if strings.HasPrefix(rest, "{") {
		fe := strings.IndexByte(rest, '}')
		if fe < 0 {
			return 0, nil, d, "", errors.New(errors.KindInvalidHeader, "array field list is missing '}'", nil)
		}
		raw := splitUnquoted(rest[1:fe], d.Byte())
		fields = make([]string, 0, len(raw))
		for _, tok := range raw {
			f, ferr := unquoteToken(tok)
			if ferr != nil {
				return 0, nil, d, "", ferr
			}
			fields = append(fields, f)
		}
		rest = rest[fe+1:]
	}
	if !strings.HasPrefix(rest, ":") {
		return 0, nil, d, "", errors.New(errors.KindMissingColon, "array header is missing ':'", nil)
	}
	inline = strings.TrimLeft(rest[1:], " \t")
	return n, fields, d, inline, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (p *parser) decodeInlineValues(n int, inline string, d delim.Delimiter) (value.Value, error) {
	toks := splitUnquoted(inline, d.Byte())
	if p.strict && len(toks) != n {
		return value.Value{}, errors.New(errors.KindArrayLength,
			fmt.Sprintf("array declares %d values but %d were found", n, len(toks)), nil)
	}
	vals := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		if i >= len(toks) {
			vals = append(vals, value.NewNull())
			continue
		}
		v, err := parsePrimitiveToken(toks[i])
		if err != nil {
			if p.strict {
				return value.Value{}, err
			}
			v = value.NewNull()
		}
		vals = append(vals, v)
	}
	return value.NewArray(vals), nil
}

func (p *parser) decodeTabularRows(n int, fields []string, d delim.Delimiter, rowDepth int) (value.Value, error) {
	rows := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		blanked := p.skipBlanks()
		if blanked && p.strict {
			return value.Value{}, errors.New(errors.KindBlankLineInArray, "blank line inside a tabular array body", nil)
		}
		l, ok := p.current()
		if !ok || l.depth != rowDepth || !looksLikeTabularRow(l.content, d.Byte()) {
			if p.strict {
				return value.Value{}, errors.New(errors.KindArrayLength,
					fmt.Sprintf("array declares %d rows but only %d were found", n, i), nil)
			}
			for ; i < n; i++ {
				rows = append(rows, nullRow(fields))
			}
			break
		}
		toks := splitUnquoted(l.content, d.Byte())
		if p.strict && len(toks) != len(fields) {
			return value.Value{}, errors.New(errors.KindRowWidth,
				fmt.Sprintf("row has %d values but the header declares %d fields", len(toks), len(fields)), nil)
		}
		o := value.NewObj()
		for j, f := range fields {
			if j >= len(toks) {
				o.Set(f, value.NewNull())
				continue
			}
			v, err := parsePrimitiveToken(toks[j])
			if err != nil {
				if p.strict {
					return value.Value{}, err
				}
				v = value.NewNull()
			}
			o.Set(f, v)
		}
		rows = append(rows, value.NewObject(o))
		p.pos++
	}
	return value.NewArray(rows), nil
}

func nullRow(fields []string) value.Value {
	o := value.NewObj()
	for _, f := range fields {
		o.Set(f, value.NewNull())
	}
	return value.NewObject(o)
}

func (p *parser) decodeListItems(n int, itemDepth int) (value.Value, error) {
	items := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		blanked := p.skipBlanks()
		if blanked && p.strict {
			return value.Value{}, errors.New(errors.KindBlankLineInArray, "blank line inside an array body", nil)
		}
		l, ok := p.current()
		if !ok || l.depth != itemDepth || !isListItemLine(l.content) {
			if p.strict {
				return value.Value{}, errors.New(errors.KindArrayLength,
					fmt.Sprintf("array declares %d items but only %d were found", n, i), nil)
			}
			for ; i < n; i++ {
				items = append(items, value.NewNull())
			}
			break
		}
		v, err := p.decodeListItem(l.content, itemDepth)
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, v)
	}
	return value.NewArray(items), nil
}

// isListItemLine reports whether content is a bare "-" or starts with "- ".
func isListItemLine(content string) bool {
	return content == "-" || strings.HasPrefix(content, "- ")
}

// decodeListItem parses one list item. hyphenDepth is the depth of the
// hyphen line itself; the caller must not have advanced past it yet.
func (p *parser) decodeListItem(content string, hyphenDepth int) (value.Value, error) {
	p.pos++
	if content == "-" {
		return value.NewObject(value.NewObj()), nil
	}
	rest := content[2:]

	if strings.HasPrefix(rest, "[") {
		return p.decodeArrayBody(rest, hyphenDepth)
	}
	if idx := indexUnquotedColon(rest); idx >= 0 {
		key, afterRest, err := parseKeyHeader(rest)
		if err != nil {
			return value.Value{}, err
		}
		fieldDepth := hyphenDepth + 1
		if err := p.checkDepth(fieldDepth); err != nil {
			return value.Value{}, err
		}
		firstVal, err := p.decodeFieldValue(key, afterRest, fieldDepth)
		if err != nil {
			return value.Value{}, err
		}
		obj := value.NewObj()
		obj.Set(key, firstVal)
		if err := p.decodeObjectBody(fieldDepth, obj); err != nil {
			return value.Value{}, err
		}
		return value.NewObject(obj), nil
	}
	return parsePrimitiveToken(rest)
}

// parseKeyHeader splits a "key..." line (or list-item remainder) into its
// key and the unparsed remainder starting at '[' or ':'.
func parseKeyHeader(content string) (key string, rest string, err error) {
	if strings.HasPrefix(content, `"`) {
		i := 1
		for i < len(content) {
			if content[i] == '\\' {
				i += 2
				continue
			}
			if content[i] == '"' {
				break
			}
			i++
		}
		if i >= len(content) {
			return "", "", errors.New(errors.KindUnterminatedStr, "quoted key is missing its closing quote", nil)
		}
		key, err = escape.Unescape(content[1:i])
		if err != nil {
			return "", "", err
		}
		return key, content[i+1:], nil
	}
	idx := strings.IndexAny(content, "[:")
	if idx < 0 {
		return "", "", errors.New(errors.KindMissingColon, "object entry is missing ':' or an array header", nil)
	}
	return content[:idx], content[idx:], nil
}

// indexUnquotedColon returns the index of the first ':' outside any quoted
// span, or -1. '\\' escapes the following byte while inside a quoted span.
func indexUnquotedColon(s string) int { return indexUnquotedByte(s, ':') }

func indexUnquotedByte(s string, b byte) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			if c == '\\' {
				i++
				continue
			}
			if c == '"' {
				inQuotes = false
			}
			continue
		}
		if c == '"' {
			inQuotes = true
			continue
		}
		if c == b {
			return i
		}
	}
	return -1
}

// looksLikeTabularRow implements the tabular-row disambiguation rule: a
// line at the expected row depth is a row rather than an outer sibling key
// iff it has no unquoted ':', or an unquoted delimiter precedes the first
// unquoted ':'.
func looksLikeTabularRow(s string, d byte) bool {
	colon := indexUnquotedColon(s)
	if colon < 0 {
		return true
	}
	delimIdx := indexUnquotedByte(s, d)
	return delimIdx >= 0 && delimIdx < colon
}

// splitUnquoted splits s on sep, treating '"' as a toggle and '\\' as an
// escape for the following byte while inside a quoted span.
func splitUnquoted(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				cur.WriteByte(s[i])
				continue
			}
			if c == '"' {
				inQuotes = false
			}
			continue
		}
		if c == '"' {
			inQuotes = true
			cur.WriteByte(c)
			continue
		}
		if c == sep {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	parts = append(parts, cur.String())
	return parts
}

// unquoteToken strips surrounding quotes and unescapes a field-list entry,
// or trims a bare token.
func unquoteToken(tok string) (string, error) {
	t := strings.TrimSpace(tok)
	if len(t) >= 2 && t[0] == '"' && t[len(t)-1] == '"' {
		return escape.Unescape(t[1 : len(t)-1])
	}
	return t, nil
}

// parsePrimitiveToken parses a single primitive token per the decoder's
// literal/number/string precedence.
func parsePrimitiveToken(tok string) (value.Value, error) {
	t := strings.TrimSpace(tok)
	if len(t) >= 2 && t[0] == '"' && t[len(t)-1] == '"' {
		s, err := escape.Unescape(t[1 : len(t)-1])
		if err != nil {
			return value.Value{}, err
		}
		return value.NewString(s), nil
	}
	switch t {
	case "null":
		return value.NewNull(), nil
	case "true":
		return value.NewBool(true), nil
	case "false":
		return value.NewBool(false), nil
	}
	if v, ok, err := numfmt.Parse(t); ok {
		if err != nil {
			return value.Value{}, err
		}
		return v, nil
	}
	return value.NewString(t), nil
}
