package circuit

import (
	"fmt"
	"strings"
)

// PortProvider chooses which of its ports joins bundle when it is used as a
// bundle connection target in place of a port.
type PortProvider interface {
	PortFor(bundle *NetBundle) (*Port, error)
}

// Port is a group of one part's pins that together implement an Interface.
type Port struct {
	name    string
	iface   *Interface
	part    *Part
	signals []string
	pins    map[string]*Pin
	bundle  *NetBundle
	plugins Plugins
}

func (p *Port) Name() string { return p.name }

// Interface returns the interface the port was matched against.
func (p *Port) Interface() *Interface { return p.iface }

// Part returns the owning part.
func (p *Port) Part() *Part { return p.part }

// Signals returns the canonical names of the signals the port provides, in
// match order.
func (p *Port) Signals() []string {
	return append([]string(nil), p.signals...)
}

// Pin returns the pin carrying signal.
func (p *Port) Pin(signal string) (*Pin, error) {
	if pn, ok := p.pins[strings.ToUpper(signal)]; ok {
		return pn, nil
	}
	return nil, fmt.Errorf("circuit: port %s has no signal %s: %w", p, signal, ErrLookup)
}

// Pins returns the pins in signal order.
func (p *Port) Pins() []*Pin {
	out := make([]*Pin, 0, len(p.signals))
	for _, signal := range p.signals {
		out = append(out, p.pins[signal])
	}
	return out
}

// Bundle returns the bundle the port is connected to, or nil.
func (p *Port) Bundle() *NetBundle { return p.bundle }

// Plugins returns the plugin values created for this port.
func (p *Port) Plugins() Plugins { return p.plugins }

// String returns "REFDES.PORT".
func (p *Port) String() string {
	return p.part.Refdes() + "." + p.name
}
