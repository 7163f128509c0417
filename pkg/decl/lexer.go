package decl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer defines the lexical structure of pcbdl declaration files.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to end of line: "# ..." or "// ..."
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s]+`},

	// Double-quoted strings with Go escapes
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Regex literals for port patterns, e.g. /(SPI\d)_(MOSI|MISO)/
	{Name: "Regex", Pattern: `/(?:[^/\\\n]|\\.)+/`},

	// Names: keywords, type names, pin names and numbers alike
	{Name: "Ident", Pattern: `[A-Za-z0-9_][A-Za-z0-9_+~!\-]*`},

	{Name: "Punct", Pattern: `[{};,.|=]`},
})
