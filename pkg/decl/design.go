package decl

import (
	"strings"

	"github.com/OpenTraceLab/pcbdl/pkg/circuit"
)

// Design is the result of building a declaration file.
type Design struct {
	schemas    map[string]*circuit.Schema
	types      []*circuit.PartType
	typeByName map[string]*circuit.PartType

	parts      []*circuit.Part
	instNames  []string
	partByName map[string]*circuit.Part

	nets      []*circuit.Net
	netByName map[string]*circuit.Net

	bundles      []*circuit.NetBundle
	bundleByName map[string]*circuit.NetBundle
}

func newDesign() *Design {
	return &Design{
		schemas:      make(map[string]*circuit.Schema),
		typeByName:   make(map[string]*circuit.PartType),
		partByName:   make(map[string]*circuit.Part),
		netByName:    make(map[string]*circuit.Net),
		bundleByName: make(map[string]*circuit.NetBundle),
	}
}

// Schema returns a declared interface schema by name.
func (d *Design) Schema(name string) (*circuit.Schema, bool) {
	s, ok := d.schemas[name]
	return s, ok
}

// Types returns the part types in declaration order.
func (d *Design) Types() []*circuit.PartType {
	return append([]*circuit.PartType(nil), d.types...)
}

// Type returns a part type by name.
func (d *Design) Type(name string) (*circuit.PartType, bool) {
	t, ok := d.typeByName[name]
	return t, ok
}

// Parts returns the part instances in declaration order.
func (d *Design) Parts() []*circuit.Part {
	return append([]*circuit.Part(nil), d.parts...)
}

// InstanceName returns the declared instance name of a part.
func (d *Design) InstanceName(p *circuit.Part) string {
	for i, part := range d.parts {
		if part == p {
			return d.instNames[i]
		}
	}
	return ""
}

// Part looks a part up by instance name, then by reference designator.
func (d *Design) Part(ref string) (*circuit.Part, bool) {
	if p, ok := d.partByName[ref]; ok {
		return p, true
	}
	for _, p := range d.parts {
		if p.HasRefdes() && strings.EqualFold(p.Refdes(), ref) {
			return p, true
		}
	}
	return nil, false
}

// Nets returns the declared nets in order of first declaration.
func (d *Design) Nets() []*circuit.Net {
	return append([]*circuit.Net(nil), d.nets...)
}

// Net returns a declared net by name. Names are case-insensitive.
func (d *Design) Net(name string) (*circuit.Net, bool) {
	n, ok := d.netByName[strings.ToUpper(name)]
	return n, ok
}

// Bundles returns the net bundles in order of first declaration.
func (d *Design) Bundles() []*circuit.NetBundle {
	return append([]*circuit.NetBundle(nil), d.bundles...)
}

// Bundle returns a net bundle by prefix.
func (d *Design) Bundle(prefix string) (*circuit.NetBundle, bool) {
	b, ok := d.bundleByName[strings.ToUpper(prefix)]
	return b, ok
}
