package circuit

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

// NetBundle is a group of nets, one per signal of a Schema, connected to
// ports as a unit. Each net is named PREFIX_SIGNAL.
type NetBundle struct {
	schema *Schema
	prefix string
	names  []string
	nets   map[string]*Net
	ports  []*Port
}

// NewNetBundle creates the nets of a bundle. Schemas containing nested
// schemas are rejected with ErrUnsupported.
func NewNetBundle(schema *Schema, prefix string) (*NetBundle, error) {
	if schema == nil {
		return nil, fmt.Errorf("circuit: net bundle without schema: %w", ErrConfiguration)
	}
	b := &NetBundle{
		schema: schema,
		prefix: strings.ToUpper(prefix),
		nets:   make(map[string]*Net),
	}
	for _, sig := range schema.signals {
		name, err := sig.Name()
		if err != nil {
			return nil, fmt.Errorf("circuit: net bundle %s: %w", b.prefix, err)
		}
		b.names = append(b.names, name)
		b.nets[name] = NewNet(b.prefix + "_" + name)
	}
	return b, nil
}

func (b *NetBundle) Schema() *Schema { return b.schema }
func (b *NetBundle) Prefix() string  { return b.prefix }

// Net returns the net carrying signal.
func (b *NetBundle) Net(signal string) (*Net, error) {
	if n, ok := b.nets[strings.ToUpper(signal)]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("circuit: net bundle %s has no signal %s: %w", b.prefix, signal, ErrLookup)
}

// Nets returns the nets in signal order.
func (b *NetBundle) Nets() []*Net {
	out := make([]*Net, 0, len(b.names))
	for _, name := range b.names {
		out = append(out, b.nets[name])
	}
	return out
}

// Ports returns the connected ports in connection order.
func (b *NetBundle) Ports() []*Port {
	return append([]*Port(nil), b.ports...)
}

// Connect wires every target port to the bundle: for each signal, the
// signal's net is connected to the port's pin in a connect call of its own.
// Targets may be *Port values or PortProviders such as *Part. Every
// per-signal connect is recorded under dir, so bundle.Out(port) marks each
// of the port's pins as an output of its signal net.
//
// A target is rejected before any of its nets is touched when its schema
// differs, when it lacks one of the schema's signals, when it already
// belongs to a bundle or when one of its signal pins is already on a net.
func (b *NetBundle) Connect(dir pin.Direction, typ pin.Type, targets ...Endpoint) error {
	for _, target := range targets {
		port, err := b.resolvePort(target)
		if err != nil {
			return err
		}
		pins, err := b.portPins(port)
		if err != nil {
			return err
		}

		for i, name := range b.names {
			if err := b.nets[name].Connect(dir, typ, pins[i]); err != nil {
				return err
			}
		}
		port.bundle = b
		b.ports = append(b.ports, port)
	}
	return nil
}

// portPins validates port for connection and returns its pins in signal
// order.
func (b *NetBundle) portPins(port *Port) ([]*Pin, error) {
	if port.iface.schema != b.schema {
		return nil, fmt.Errorf("circuit: interface mismatch connecting %s to %s: %s != %s: %w",
			port, b, port.iface.schema.Name(), b.schema.Name(), ErrConnection)
	}
	if port.bundle != nil {
		return nil, fmt.Errorf("circuit: port %s is already connected to %s, can't connect to %s too: %w",
			port, port.bundle, b, ErrConnection)
	}

	pins := make([]*Pin, len(b.names))
	seen := make(map[*Pin]string, len(b.names))
	for i, name := range b.names {
		pn, err := port.Pin(name)
		if err != nil {
			return nil, err
		}
		if pn.Connected() {
			return nil, fmt.Errorf("circuit: pin %s of port %s is already connected to net %s, can't connect to %s: %w",
				pn, port, pn.net.Name(), b, ErrConnection)
		}
		if other, dup := seen[pn]; dup {
			return nil, fmt.Errorf("circuit: pin %s of port %s carries both %s and %s: %w",
				pn, port, other, name, ErrConnection)
		}
		seen[pn] = name
		pins[i] = pn
	}
	return pins, nil
}

func (b *NetBundle) resolvePort(target Endpoint) (*Port, error) {
	switch t := target.(type) {
	case *NetBundle:
		return nil, fmt.Errorf("circuit: can't connect net bundle %s to %s: %w", t, b, ErrUnsupported)
	case *Port:
		return t, nil
	case PortProvider:
		return t.PortFor(b)
	default:
		return nil, fmt.Errorf("circuit: don't know how to get a %s port from %v (%T): %w",
			b.schema.Name(), target, target, ErrConnection)
	}
}

// In connects targets as inputs and returns the bundle for chaining.
func (b *NetBundle) In(targets ...Endpoint) (*NetBundle, error) {
	if err := b.Connect(pin.DirIn, pin.Primary, targets...); err != nil {
		return nil, err
	}
	return b, nil
}

// Out connects targets as outputs and returns the bundle for chaining.
func (b *NetBundle) Out(targets ...Endpoint) (*NetBundle, error) {
	if err := b.Connect(pin.DirOut, pin.Primary, targets...); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *NetBundle) String() string {
	return "NetBundle(" + b.prefix + ")"
}
