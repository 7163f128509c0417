package decl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is a complete declaration file.
type File struct {
	Decls []*Decl `@@*`
}

// Decl is one top-level statement.
type Decl struct {
	Interface *InterfaceDecl `  @@`
	Part      *PartDecl      `| @@`
	Inst      *InstDecl      `| @@`
	Net       *NetDecl       `| @@`
	Bundle    *BundleDecl    `| @@`
}

// InterfaceDecl declares an interface schema.
// Example: interface SPI { MOSI; MISO; SCK; CS | SS; }
type InterfaceDecl struct {
	Pos lexer.Position

	Name    string        `"interface" @Ident "{"`
	Signals []*SignalDecl `( @@ ";" )* "}"`
}

// SignalDecl lists the alternative names of one signal.
type SignalDecl struct {
	Names []string `@(Ident | String) ( "|" @(Ident | String) )*`
}

// PartDecl declares a part type.
// Example: part Flash extends Memory prefix "U" match_nets "SPI1_" { ... }
type PartDecl struct {
	Pos lexer.Position

	Name      string     `"part" @Ident`
	Extends   string     `( "extends" @Ident )?`
	Prefix    string     `( "prefix" @(String | Ident) )?`
	MatchNets *MatchNets `@@?`
	Members   []*Member  `"{" @@* "}"`
}

// Pins returns the pin members in declaration order.
func (d *PartDecl) Pins() []*PinDecl {
	var pins []*PinDecl
	for _, m := range d.Members {
		if m.Pin != nil {
			pins = append(pins, m.Pin)
		}
	}
	return pins
}

// Ports returns the port members in declaration order.
func (d *PartDecl) Ports() []*PortDecl {
	var ports []*PortDecl
	for _, m := range d.Members {
		if m.Port != nil {
			ports = append(ports, m.Port)
		}
	}
	return ports
}

// MatchNets enables net-name pin selection, optionally with a prefix.
type MatchNets struct {
	Enabled bool   `@"match_nets"`
	Prefix  string `@String?`
}

// Member is a pin or port inside a part body.
type Member struct {
	Pin  *PinDecl  `  @@`
	Port *PortDecl `| @@`
}

// PinDecl declares one pin fragment.
// Example: pin MOSI | DI number "5" type input well VCC;
type PinDecl struct {
	Pos lexer.Position

	Names []string   `"pin" @(Ident | String) ( "|" @(Ident | String) )*`
	Attrs []*PinAttr `@@* ";"`
}

// PinAttr is one attribute of a pin declaration.
type PinAttr struct {
	Numbers []string  `  "number" @(Ident | String) ( "," @(Ident | String) )*`
	Type    string    `| "type" @Ident`
	Well    string    `| "well" @(Ident | String)`
	Meta    *MetaAttr `| "meta" @@`
}

// MetaAttr is a free-form key/value pin attribute.
type MetaAttr struct {
	Key   string `@Ident "="`
	Value string `@(Ident | String)`
}

// PortDecl binds an interface to a pin-name pattern.
// Example: port SPI pattern /(MOSI|MISO|SCK|CS)/ name SPI;
type PortDecl struct {
	Pos lexer.Position

	Interface string  `"port" @Ident`
	Pattern   Pattern `"pattern" @(String | Regex)`
	Name      string  `( "name" @(Ident | String) )? ";"`
}

// Pattern is a port pattern written either as a string or as /regex/.
type Pattern string

// Capture implements participle.Capture.
func (p *Pattern) Capture(values []string) error {
	v := strings.Join(values, "")
	if len(v) >= 2 && strings.HasPrefix(v, "/") && strings.HasSuffix(v, "/") {
		v = strings.ReplaceAll(v[1:len(v)-1], `\/`, "/")
	}
	*p = Pattern(v)
	return nil
}

// InstDecl instantiates a part type.
// Example: inst r1 Resistor refdes R1 value "10k";
type InstDecl struct {
	Pos lexer.Position

	Name  string      `"inst" @Ident`
	Type  string      `@Ident`
	Attrs []*InstAttr `@@* ";"`
}

// InstAttr is one attribute of an instance.
type InstAttr struct {
	Refdes     string `  "refdes" @(Ident | String)`
	Value      string `| "value" @(Ident | String)`
	PartNumber string `| "part_number" @(Ident | String)`
	Package    string `| "package" @(Ident | String)`
	DNS        bool   `| @"dns"`
}

// NetDecl connects pins to a net. Each group becomes one connect call.
// Example: net GND { r1.1, r2.1; out u1.GND; }
type NetDecl struct {
	Pos lexer.Position

	Name   string       `"net" @(Ident | String)?`
	Groups []*ConnGroup `( "{" ( @@ ";" )* "}" | ";" )`
}

// BundleDecl connects ports to a net bundle.
// Example: bundle SPI1 SPI { out u1.SPI; u2; }
type BundleDecl struct {
	Pos lexer.Position

	Prefix    string       `"bundle" @Ident`
	Interface string       `@Ident`
	Groups    []*ConnGroup `( "{" ( @@ ";" )* "}" | ";" )`
}

// ConnGroup is one connect statement: an optional direction and its targets.
type ConnGroup struct {
	Direction string `@( "in" | "out" )?`
	Targets   []*Ref `@@ ( "," @@ )*`
}

// Ref names an instance, optionally followed by one of its pins or ports.
type Ref struct {
	Part   string `@Ident`
	Member string `( "." @Ident )?`
}

func (r *Ref) String() string {
	if r.Member == "" {
		return r.Part
	}
	return r.Part + "." + r.Member
}

// parseRef splits "u1.GND" into a Ref.
func parseRef(s string) *Ref {
	part, member, _ := strings.Cut(strings.TrimSpace(s), ".")
	return &Ref{Part: part, Member: member}
}
