package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/gotoon/internal/config"
	"github.com/mcncl/gotoon/internal/errors"
	"github.com/mcncl/gotoon/internal/parser"
	"github.com/mcncl/gotoon/internal/value"
	"github.com/mcncl/gotoon/toon"
)

// Version information
const Version = "0.1.0"

// Context carries flags shared across subcommands to their Run methods.
type Context struct {
	cfg         *config.Config
	interactive bool
}

// sharedFlags holds the options common to both directions, merged with any
// discovered config file before each subcommand runs.
type sharedFlags struct {
	Input        string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output       string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Indent       int    `help:"Spaces per indentation level." short:"n" default:"2"`
	Delimiter    string `help:"Inline/tabular delimiter: comma, tab, or pipe." short:"d" default:"comma"`
	Strict       bool   `help:"Enable strict decode validation." default:"true"`
	ExpandPaths  string `help:"Post-decode dotted-key expansion: off or safe." default:"off"`
	KeyFolding   string `help:"Reserved encode-side key folding: off or safe." default:"off"`
	FlattenDepth int    `help:"Upper bound on key-folding depth when enabled." default:"0"`
}

// EncodeCmd converts JSON input to TOON output.
type EncodeCmd struct {
	sharedFlags
}

// DecodeCmd converts TOON input to JSON output.
type DecodeCmd struct {
	sharedFlags
}

// AutoCmd is the default command: it sniffs the input and picks a
// direction, for users who don't care which way the conversion runs.
type AutoCmd struct {
	sharedFlags
}

// CLI defines the command-line interface.
var CLI struct {
	Encode EncodeCmd `cmd:"" help:"Convert JSON to TOON."`
	Decode DecodeCmd `cmd:"" help:"Convert TOON to JSON."`
	Auto   AutoCmd   `cmd:"" default:"1" hidden:"" help:"Detect the input's format and convert it to the other."`

	Config      string `help:"Path to a .gotoon.yml config file. Discovered automatically if omitted." type:"path"`
	Interactive bool   `help:"Run in interactive mode, reading stdin until Ctrl+D." short:"I"`
	Debug       bool   `help:"Accepted for compatibility; produces no extra output." short:"e"`
	Version     bool   `help:"Show version information." short:"v"`
}

func main() {
	kparser := kong.Must(&CLI,
		kong.Name("gotoon"),
		kong.Description("A bidirectional JSON <-> TOON converter."),
		kong.UsageOnError(),
	)

	kctx, err := kparser.Parse(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if CLI.Version {
		fmt.Printf("gotoon version %s\n", Version)
		return
	}

	cfg, err := loadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(&Context{cfg: cfg, interactive: CLI.Interactive}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: gotoon --help\n")
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return config.NewConfig(), nil
	}
	return config.LoadConfig(path)
}

// Run implements the "encode" subcommand: JSON in, TOON out.
func (c *EncodeCmd) Run(ctx *Context) error {
	data, err := readInput(c.Input, ctx.interactive)
	if err != nil {
		return err
	}
	v, err := parser.ParseString(string(data))
	if err != nil {
		return err
	}
	opts := ctx.cfg.EncodeOptions()
	c.sharedFlags.applyEncode(&opts)
	out, err := toon.Encode(v, opts)
	if err != nil {
		return err
	}
	return writeOutput(c.Output, string(out))
}

// Run implements the "decode" subcommand: TOON in, JSON out.
func (c *DecodeCmd) Run(ctx *Context) error {
	data, err := readInput(c.Input, ctx.interactive)
	if err != nil {
		return err
	}
	opts := ctx.cfg.DecodeOptions()
	c.sharedFlags.applyDecode(&opts)
	v, err := toon.Decode(data, opts)
	if err != nil {
		return err
	}
	out, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	return writeOutput(c.Output, out)
}

// Run implements the default command: sniff the input and dispatch to
// whichever direction applies.
func (c *AutoCmd) Run(ctx *Context) error {
	data, err := readInput(c.Input, ctx.interactive)
	if err != nil {
		return err
	}
	if looksLikeJSON(data) {
		v, err := parser.ParseString(string(data))
		if err != nil {
			return err
		}
		opts := ctx.cfg.EncodeOptions()
		c.sharedFlags.applyEncode(&opts)
		out, err := toon.Encode(v, opts)
		if err != nil {
			return err
		}
		return writeOutput(c.Output, string(out))
	}

	opts := ctx.cfg.DecodeOptions()
	c.sharedFlags.applyDecode(&opts)
	v, err := toon.Decode(data, opts)
	if err != nil {
		return err
	}
	out, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	return writeOutput(c.Output, out)
}

// looksLikeJSON reports whether data should be read as JSON. A leading '{'
// always means JSON, since TOON quotes any key or string that starts with
// '{'. A leading '"' or '[' means JSON when the whole input is valid JSON:
// a TOON document opening with a quoted key or an array header never is.
// A TOON document that is a single quoted string is also a valid JSON
// string and is read as JSON.
func looksLikeJSON(data []byte) bool {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '{':
		return true
	case '"':
		return json.Valid([]byte(trimmed))
	case '[':
		if json.Valid([]byte(trimmed)) {
			return true
		}
		// Invalid JSON may still be TOON: TOON's array header always places
		// a decimal digit right after '[', so anything else (whitespace, a
		// nested '[', a string, '{') is handed to the JSON parser.
		rest := strings.TrimLeft(trimmed[1:], " \t\r\n")
		return rest == "" || rest[0] < '0' || rest[0] > '9'
	default:
		return false
	}
}

func (f *sharedFlags) applyEncode(opts *toon.EncodeOptions) {
	if f.Indent > 0 {
		opts.Indent = f.Indent
	}
	if f.Delimiter != "" {
		opts.Delimiter = f.Delimiter
	}
	if f.KeyFolding != "" {
		opts.KeyFolding = f.KeyFolding
	}
	opts.FlattenDepth = f.FlattenDepth
}

func (f *sharedFlags) applyDecode(opts *toon.DecodeOptions) {
	if f.Indent > 0 {
		opts.Indent = f.Indent
	}
	opts.Strict = f.Strict
	if f.ExpandPaths != "" {
		opts.ExpandPaths = f.ExpandPaths
	}
}

func readInput(path string, interactive bool) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.New(errors.KindInvalidInput, fmt.Sprintf("failed to read file %q", path), err)
		}
		return data, nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.New(errors.KindInvalidInput, "failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if interactive {
			return readInteractiveInput()
		}
		return nil, errors.New(errors.KindInvalidInput, "no input provided", nil)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.New(errors.KindInvalidInput, "failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.KindInvalidInput, "empty input received from stdin", nil)
	}
	return data, nil
}

func readInteractiveInput() ([]byte, error) {
	fmt.Fprintln(os.Stderr, "gotoon interactive mode")
	fmt.Fprintln(os.Stderr, "Paste input below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var b strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			b.WriteString(line)
			break
		}
		if err != nil {
			return nil, errors.New(errors.KindInvalidInput, "error reading input", err)
		}
		b.WriteString(line)
	}
	if b.Len() == 0 {
		return nil, errors.New(errors.KindInvalidInput, "empty input received", nil)
	}
	fmt.Fprintln(os.Stderr, "\nProcessing...")
	return []byte(b.String()), nil
}

// jsonMarshal renders v as indented JSON text, preserving object key order
// by writing objects field-by-field instead of going through json.Marshal
// on a map (which would sort keys).
func jsonMarshal(v value.Value) (string, error) {
	var b strings.Builder
	if err := writeJSON(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(b *strings.Builder, v value.Value, depth int) error {
	switch v.Kind() {
	case value.Null:
		b.WriteString("null")
	case value.Bool:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.Int:
		fmt.Fprintf(b, "%d", v.Int())
	case value.Float:
		enc, err := json.Marshal(v.Float())
		if err != nil {
			return err
		}
		b.Write(enc)
	case value.String:
		enc, err := json.Marshal(v.Str())
		if err != nil {
			return err
		}
		b.Write(enc)
	case value.Array:
		return writeJSONArray(b, v.Arr(), depth)
	case value.Object:
		return writeJSONObject(b, v.Obj(), depth)
	}
	return nil
}

func writeJSONArray(b *strings.Builder, arr []value.Value, depth int) error {
	if len(arr) == 0 {
		b.WriteString("[]")
		return nil
	}
	b.WriteString("[\n")
	for i, el := range arr {
		writeJSONIndent(b, depth+1)
		if err := writeJSON(b, el, depth+1); err != nil {
			return err
		}
		if i < len(arr)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeJSONIndent(b, depth)
	b.WriteByte(']')
	return nil
}

func writeJSONObject(b *strings.Builder, obj *value.Obj, depth int) error {
	keys := obj.Keys()
	if len(keys) == 0 {
		b.WriteString("{}")
		return nil
	}
	b.WriteString("{\n")
	for i, k := range keys {
		writeJSONIndent(b, depth+1)
		keyEnc, err := json.Marshal(k)
		if err != nil {
			return err
		}
		b.Write(keyEnc)
		b.WriteString(": ")
		val, _ := obj.Get(k)
		if err := writeJSON(b, val, depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeJSONIndent(b, depth)
	b.WriteByte('}')
	return nil
}

func writeJSONIndent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func writeOutput(path, content string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return errors.New(errors.KindInvalidInput, fmt.Sprintf("failed to write to file %q", path), err)
		}
		fmt.Fprintf(os.Stderr, "Wrote output to %s\n", path)
		return nil
	}
	_, err := fmt.Println(strings.TrimRight(content, "\n"))
	return err
}
