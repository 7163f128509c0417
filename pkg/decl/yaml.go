package decl

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// The YAML form mirrors the declaration language one to one:
//
//	interfaces:
//	  - name: SPI
//	    signals: [MOSI, MISO, SCK, [CS, SS]]
//	parts:
//	  - name: Resistor
//	    prefix: R
//	    pins: ["1", "2"]
//	instances:
//	  - {name: r1, type: Resistor, refdes: R1, value: 10k}
//	nets:
//	  - name: GND
//	    connect:
//	      - [r1.1, r2.1]
//	      - {direction: out, targets: [u1.GND]}
type yamlDocument struct {
	Interfaces []yamlInterface `yaml:"interfaces"`
	Parts      []yamlPart      `yaml:"parts"`
	Instances  []yamlInstance  `yaml:"instances"`
	Nets       []yamlNet       `yaml:"nets"`
	Bundles    []yamlBundle    `yaml:"bundles"`
}

type yamlInterface struct {
	Name    string      `yaml:"name"`
	Signals []yamlNames `yaml:"signals"`
}

type yamlPart struct {
	Name            string     `yaml:"name"`
	Extends         string     `yaml:"extends"`
	Prefix          string     `yaml:"prefix"`
	MatchNets       bool       `yaml:"match_nets"`
	MatchNetsPrefix string     `yaml:"match_nets_prefix"`
	Pins            []yamlPin  `yaml:"pins"`
	Ports           []yamlPort `yaml:"ports"`
}

type yamlPin struct {
	Names   yamlNames         `yaml:"names"`
	Numbers yamlNames         `yaml:"numbers"`
	Type    string            `yaml:"type"`
	Well    string            `yaml:"well"`
	Meta    map[string]string `yaml:"meta"`
}

type yamlPort struct {
	Interface string `yaml:"interface"`
	Pattern   string `yaml:"pattern"`
	Name      string `yaml:"name"`
}

type yamlInstance struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Refdes     string `yaml:"refdes"`
	Value      string `yaml:"value"`
	PartNumber string `yaml:"part_number"`
	Package    string `yaml:"package"`
	DNS        bool   `yaml:"dns"`
}

type yamlNet struct {
	Name    string      `yaml:"name"`
	Connect []yamlGroup `yaml:"connect"`
}

type yamlBundle struct {
	Prefix    string      `yaml:"prefix"`
	Interface string      `yaml:"interface"`
	Connect   []yamlGroup `yaml:"connect"`
}

type yamlGroup struct {
	Direction string    `yaml:"direction"`
	Targets   yamlNames `yaml:"targets"`
}

// yamlNames accepts a single scalar or a list of scalars.
type yamlNames []string

func (n *yamlNames) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*n = yamlNames{value.Value}
		return nil
	case yaml.SequenceNode:
		names := make(yamlNames, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a name", item.Line)
			}
			names = append(names, item.Value)
		}
		*n = names
		return nil
	}
	return fmt.Errorf("line %d: expected a name or a list of names", value.Line)
}

// A pin may be written as just its name or list of aliases.
func (p *yamlPin) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode || value.Kind == yaml.SequenceNode {
		return p.Names.UnmarshalYAML(value)
	}
	type plain yamlPin
	return value.Decode((*plain)(p))
}

// A connect group may be written as a bare list of targets.
func (g *yamlGroup) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode || value.Kind == yaml.SequenceNode {
		return g.Targets.UnmarshalYAML(value)
	}
	type plain yamlGroup
	return value.Decode((*plain)(g))
}

// LoadYAML reads a YAML declaration document into the same AST the
// declaration language produces.
func LoadYAML(r io.Reader) (*File, error) {
	var doc yamlDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &File{}, nil
		}
		return nil, fmt.Errorf("decl: yaml: %w", err)
	}
	return doc.file(), nil
}

// LoadYAMLFile reads a YAML declaration document from a file path.
func LoadYAMLFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("decl: failed to open file: %w", err)
	}
	defer file.Close()

	return LoadYAML(file)
}

func (doc *yamlDocument) file() *File {
	f := &File{}
	for _, i := range doc.Interfaces {
		d := &InterfaceDecl{Name: i.Name}
		for _, s := range i.Signals {
			d.Signals = append(d.Signals, &SignalDecl{Names: s})
		}
		f.Decls = append(f.Decls, &Decl{Interface: d})
	}
	for _, p := range doc.Parts {
		d := &PartDecl{Name: p.Name, Extends: p.Extends, Prefix: p.Prefix}
		if p.MatchNets || p.MatchNetsPrefix != "" {
			d.MatchNets = &MatchNets{Enabled: true, Prefix: p.MatchNetsPrefix}
		}
		for _, pin := range p.Pins {
			d.Members = append(d.Members, &Member{Pin: pin.decl()})
		}
		for _, port := range p.Ports {
			d.Members = append(d.Members, &Member{Port: &PortDecl{
				Interface: port.Interface,
				Pattern:   Pattern(port.Pattern),
				Name:      port.Name,
			}})
		}
		f.Decls = append(f.Decls, &Decl{Part: d})
	}
	for _, i := range doc.Instances {
		d := &InstDecl{Name: i.Name, Type: i.Type}
		if i.Refdes != "" {
			d.Attrs = append(d.Attrs, &InstAttr{Refdes: i.Refdes})
		}
		if i.Value != "" {
			d.Attrs = append(d.Attrs, &InstAttr{Value: i.Value})
		}
		if i.PartNumber != "" {
			d.Attrs = append(d.Attrs, &InstAttr{PartNumber: i.PartNumber})
		}
		if i.Package != "" {
			d.Attrs = append(d.Attrs, &InstAttr{Package: i.Package})
		}
		if i.DNS {
			d.Attrs = append(d.Attrs, &InstAttr{DNS: true})
		}
		f.Decls = append(f.Decls, &Decl{Inst: d})
	}
	for _, n := range doc.Nets {
		f.Decls = append(f.Decls, &Decl{Net: &NetDecl{Name: n.Name, Groups: groups(n.Connect)}})
	}
	for _, b := range doc.Bundles {
		f.Decls = append(f.Decls, &Decl{Bundle: &BundleDecl{
			Prefix:    b.Prefix,
			Interface: b.Interface,
			Groups:    groups(b.Connect),
		}})
	}
	return f
}

func (p yamlPin) decl() *PinDecl {
	d := &PinDecl{Names: p.Names}
	if len(p.Numbers) > 0 {
		d.Attrs = append(d.Attrs, &PinAttr{Numbers: p.Numbers})
	}
	if p.Type != "" {
		d.Attrs = append(d.Attrs, &PinAttr{Type: p.Type})
	}
	if p.Well != "" {
		d.Attrs = append(d.Attrs, &PinAttr{Well: p.Well})
	}
	keys := make([]string, 0, len(p.Meta))
	for k := range p.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Attrs = append(d.Attrs, &PinAttr{Meta: &MetaAttr{Key: k, Value: p.Meta[k]}})
	}
	return d
}

func groups(in []yamlGroup) []*ConnGroup {
	out := make([]*ConnGroup, 0, len(in))
	for _, g := range in {
		cg := &ConnGroup{Direction: g.Direction}
		for _, t := range g.Targets {
			cg.Targets = append(cg.Targets, parseRef(t))
		}
		out = append(out, cg)
	}
	return out
}
