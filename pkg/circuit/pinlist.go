package circuit

import (
	"fmt"
	"strings"
)

// PinList is an ordered collection of a part's pins, addressable by position
// or by any alias.
type PinList struct {
	pins   []*Pin
	byName map[string]*Pin
}

func (l *PinList) add(p *Pin) {
	if l.byName == nil {
		l.byName = make(map[string]*Pin)
	}
	l.pins = append(l.pins, p)
	for _, name := range p.def.Names {
		if _, taken := l.byName[name]; !taken {
			l.byName[name] = p
		}
	}
}

// Get returns the pin carrying name. Lookup is case-insensitive.
func (l *PinList) Get(name string) (*Pin, error) {
	if p, ok := l.byName[strings.ToUpper(name)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("circuit: pin %q not found: %w", name, ErrLookup)
}

// At returns the pin at index i in resolution order.
func (l *PinList) At(i int) (*Pin, error) {
	if i < 0 || i >= len(l.pins) {
		return nil, fmt.Errorf("circuit: pin index %d out of range [0,%d): %w", i, len(l.pins), ErrLookup)
	}
	return l.pins[i], nil
}

// All returns the pins in resolution order.
func (l *PinList) All() []*Pin {
	return append([]*Pin(nil), l.pins...)
}

func (l *PinList) Len() int {
	return len(l.pins)
}

// PortList is an ordered collection of a part's ports keyed by port name.
type PortList struct {
	ports  []*Port
	byName map[string]*Port
}

func (l *PortList) add(p *Port) error {
	if l.byName == nil {
		l.byName = make(map[string]*Port)
	}
	if _, taken := l.byName[p.name]; taken {
		return fmt.Errorf("circuit: port %s declared twice: %w", p.name, ErrConfiguration)
	}
	l.ports = append(l.ports, p)
	l.byName[p.name] = p
	return nil
}

// Get returns the port called name. Lookup is case-insensitive.
func (l *PortList) Get(name string) (*Port, error) {
	if p, ok := l.byName[strings.ToUpper(name)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("circuit: port %q not found: %w", name, ErrLookup)
}

// All returns the ports in derivation order.
func (l *PortList) All() []*Port {
	return append([]*Port(nil), l.ports...)
}

func (l *PortList) Len() int {
	return len(l.ports)
}
