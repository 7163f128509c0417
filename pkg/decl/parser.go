package decl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Parser parses pcbdl declaration files
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new declaration parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("decl: failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses declarations from a reader
func (p *Parser) Parse(r io.Reader) (*File, error) {
	return p.parse("", r)
}

func (p *Parser) parse(name string, r io.Reader) (*File, error) {
	f, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("decl: parse error: %w", err)
	}
	return f, nil
}

// ParseString parses declarations from a string
func (p *Parser) ParseString(input string) (*File, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("decl: parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses declarations from a file path
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("decl: failed to open file: %w", err)
	}
	defer file.Close()

	return p.parse(filepath.Base(filename), file)
}

var defaultParser = participle.MustBuild[File](
	participle.Lexer(Lexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse parses declarations from r with the default parser.
func Parse(r io.Reader) (*File, error) {
	return (&Parser{parser: defaultParser}).Parse(r)
}

// ParseString parses declarations from a string with the default parser.
func ParseString(input string) (*File, error) {
	return (&Parser{parser: defaultParser}).ParseString(input)
}

// ParseFile parses a declaration file with the default parser.
func ParseFile(filename string) (*File, error) {
	return (&Parser{parser: defaultParser}).ParseFile(filename)
}

// Format selects the syntax of a declaration file.
type Format string

const (
	FormatAuto Format = ""
	FormatDSL  Format = "dsl"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatDSL, FormatYAML:
		return f, nil
	case "auto":
		return FormatAuto, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("decl: unknown format %q (want dsl or yaml)", s)
}

// Load reads a declaration file. FormatAuto picks YAML for .yaml/.yml
// files and the declaration language for anything else.
func Load(filename string, format Format) (*File, error) {
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			format = FormatYAML
		default:
			format = FormatDSL
		}
	}
	if format == FormatYAML {
		return LoadYAMLFile(filename)
	}
	return ParseFile(filename)
}
