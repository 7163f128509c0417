package circuit

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

// DefaultRefdesPrefix is used when no type in the lineage sets a prefix.
const DefaultRefdesPrefix = "UNK"

// identity hands out the numbers behind placeholder names of unnamed nets and
// parts without a reference designator.
var identity atomic.Uint64

func nextIdentity() uint64 {
	return identity.Add(1)
}

// PartType describes a reusable component. A PartType may extend a Base
// type; pin declarations of all levels are merged, nearest level first.
//
// A PartType must not be modified once it has been instantiated.
type PartType struct {
	Name         string
	Base         *PartType
	RefdesPrefix string

	// Pins lists the pin declarations added or refined at this level.
	Pins []pin.Spec

	// Ports lists the interfaces matched against the part's pin names.
	// A nil slice inherits the Base ports, an empty one clears them.
	Ports []*Interface

	// PinNamesMatchNets lets a part stand in for one of its pins when
	// connected to a net: the pin whose name equals the net name (optionally
	// after PinNamesMatchNetsPrefix) is used.
	PinNamesMatchNets       bool
	PinNamesMatchNetsPrefix string

	once sync.Once
	defs []pin.Def
	err  error
}

// Lineage returns the type followed by its ancestors, most-derived first.
func (t *PartType) Lineage() []*PartType {
	var out []*PartType
	seen := make(map[*PartType]bool)
	for cur := t; cur != nil && !seen[cur]; cur = cur.Base {
		seen[cur] = true
		out = append(out, cur)
	}
	return out
}

// Layers returns the pin declarations of the lineage, most-derived first.
func (t *PartType) Layers() []pin.Layer {
	lineage := t.Lineage()
	layers := make([]pin.Layer, 0, len(lineage))
	for _, level := range lineage {
		layers = append(layers, pin.Layer{Name: level.Name, Specs: level.Pins})
	}
	return layers
}

// Defs returns the resolved pins of the type. Resolution happens once; later
// calls return the cached result.
func (t *PartType) Defs() ([]pin.Def, error) {
	t.once.Do(func() {
		t.defs, t.err = pin.Resolve(t.Layers())
	})
	return t.defs, t.err
}

// Prefix returns the nearest non-empty RefdesPrefix of the lineage.
func (t *PartType) Prefix() string {
	for _, level := range t.Lineage() {
		if level.RefdesPrefix != "" {
			return level.RefdesPrefix
		}
	}
	return DefaultRefdesPrefix
}

// Interfaces returns the nearest non-nil Ports declaration of the lineage.
func (t *PartType) Interfaces() []*Interface {
	for _, level := range t.Lineage() {
		if level.Ports != nil {
			return level.Ports
		}
	}
	return nil
}

func (t *PartType) matchNets() (bool, string) {
	for _, level := range t.Lineage() {
		if level.PinNamesMatchNets {
			return true, strings.ToUpper(level.PinNamesMatchNetsPrefix)
		}
	}
	return false, ""
}

func (t *PartType) String() string {
	return t.Name
}

// Part is one instance of a PartType placed on the schematic.
type Part struct {
	typ        *PartType
	refdes     string
	value      string
	partNumber string
	pkg        string
	populated  bool
	id         uint64

	pins    PinList
	ports   PortList
	plugins Plugins
}

// PartOption configures a Part at construction.
type PartOption func(*Part)

// WithRefdes sets the reference designator, e.g. "R1".
func WithRefdes(refdes string) PartOption {
	return func(p *Part) { p.refdes = strings.ToUpper(refdes) }
}

// WithValue sets the value, e.g. "10k". It doubles as the part number when
// none is given.
func WithValue(value string) PartOption {
	return func(p *Part) { p.value = value }
}

// WithPartNumber sets the orderable part number. It doubles as the value when
// none is given.
func WithPartNumber(partNumber string) PartOption {
	return func(p *Part) { p.partNumber = partNumber }
}

// WithPackage sets the package name, e.g. "0402".
func WithPackage(pkg string) PartOption {
	return func(p *Part) { p.pkg = pkg }
}

// WithPopulated marks the part as fitted (default) or do-not-stuff.
func WithPopulated(populated bool) PartOption {
	return func(p *Part) { p.populated = populated }
}

// NewPart instantiates t. It resolves the type's pins, creates one Pin per
// resolved definition, resolves voltage wells and derives the ports of every
// interface the type declares.
func NewPart(t *PartType, opts ...PartOption) (*Part, error) {
	if t == nil {
		return nil, fmt.Errorf("circuit: nil part type: %w", ErrConfiguration)
	}
	defs, err := t.Defs()
	if err != nil {
		return nil, fmt.Errorf("circuit: part type %s: %w", t.Name, err)
	}

	p := &Part{
		typ:       t,
		populated: true,
		id:        nextIdentity(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.value == "" {
		p.value = p.partNumber
	}
	if p.partNumber == "" {
		p.partNumber = p.value
	}

	for i := range defs {
		var inject string
		if len(defs[i].Numbers) == 0 {
			inject = strconv.Itoa(i + 1)
		}
		p.pins.add(newPin(p, &defs[i], i, inject))
	}
	for _, pn := range p.pins.All() {
		if err := pn.resolveWell(); err != nil {
			return nil, err
		}
	}

	for _, iface := range t.Interfaces() {
		ports, err := MatchPorts(iface, p)
		if err != nil {
			return nil, fmt.Errorf("circuit: part type %s: %w", t.Name, err)
		}
		for _, port := range ports {
			if err := p.ports.add(port); err != nil {
				return nil, fmt.Errorf("circuit: part type %s: %w", t.Name, err)
			}
		}
	}

	p.plugins = defaultRegistry.Init(PluginPart, p)
	return p, nil
}

// Type returns the part's type.
func (p *Part) Type() *PartType {
	return p.typ
}

// Refdes returns the reference designator. Parts created without one get a
// placeholder built from the type prefix and a per-process sequence number,
// e.g. "R?m0002a".
func (p *Part) Refdes() string {
	if p.refdes != "" {
		return p.refdes
	}
	return fmt.Sprintf("%s?m%05x", p.typ.Prefix(), p.id&0xfffff)
}

// HasRefdes reports whether a reference designator was assigned.
func (p *Part) HasRefdes() bool {
	return p.refdes != ""
}

// SetRefdes assigns the reference designator.
func (p *Part) SetRefdes(refdes string) {
	p.refdes = strings.ToUpper(refdes)
}

func (p *Part) Value() string      { return p.value }
func (p *Part) PartNumber() string { return p.partNumber }
func (p *Part) Package() string    { return p.pkg }
func (p *Part) Populated() bool    { return p.populated }

// Pins returns the part's pins in resolution order.
func (p *Part) Pins() *PinList {
	return &p.pins
}

// Pin looks a pin up by any of its aliases.
func (p *Part) Pin(name string) (*Pin, error) {
	pn, err := p.pins.Get(name)
	if err != nil {
		return nil, fmt.Errorf("circuit: %s has no pin %q: %w", p.Refdes(), name, ErrLookup)
	}
	return pn, nil
}

// Ports returns the ports derived at construction.
func (p *Part) Ports() *PortList {
	return &p.ports
}

// Port looks a port up by name.
func (p *Part) Port(name string) (*Port, error) {
	port, err := p.ports.Get(name)
	if err != nil {
		return nil, fmt.Errorf("circuit: %s has no port %q: %w", p.Refdes(), name, ErrLookup)
	}
	return port, nil
}

// Plugins returns the plugin values created for this part.
func (p *Part) Plugins() Plugins {
	return p.plugins
}

// PinFor implements PinProvider. When the type enables PinNamesMatchNets the
// pin whose name equals the net name, or the net name without the configured
// prefix, is returned.
func (p *Part) PinFor(typ pin.Type, net *Net) (*Pin, error) {
	match, prefix := p.typ.matchNets()
	if match && net != nil {
		netName := net.Name()
		for _, pn := range p.pins.All() {
			if pn.def.HasName(netName) {
				return pn, nil
			}
			if prefix != "" && strings.HasPrefix(netName, prefix) && pn.def.HasName(netName[len(prefix):]) {
				return pn, nil
			}
		}
		return nil, fmt.Errorf("circuit: no pin on %s matches net %s: %w", p.Refdes(), netName, ErrConnection)
	}
	return nil, fmt.Errorf("circuit: don't know how to get a %s pin from %s: %w", typ, p.Refdes(), ErrConnection)
}

// PortFor implements PortProvider: the single port whose interface uses the
// bundle's schema.
func (p *Part) PortFor(bundle *NetBundle) (*Port, error) {
	var found []*Port
	for _, port := range p.ports.All() {
		if port.iface.schema == bundle.schema {
			found = append(found, port)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("circuit: no %s port on %s to connect %s: %w",
			bundle.schema.Name(), p.Refdes(), bundle, ErrConnection)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("circuit: %d %s ports on %s, connect %s to one explicitly: %w",
			len(found), bundle.schema.Name(), p.Refdes(), bundle, ErrConnection)
	}
}

// String returns the display name, e.g. "R1 - 10k", with " DNS" appended for
// parts that are not populated.
func (p *Part) String() string {
	s := p.Refdes() + " - " + p.value
	if !p.populated {
		s += " DNS"
	}
	return s
}
