package circuit

import (
	"fmt"
	"regexp"
	"strings"
)

// Signal is one slot of a Schema: a list of alternative names, the first
// being canonical, or a nested Schema. Nested schemas can be declared but
// not yet bundled.
type Signal struct {
	Names  []string
	Nested *Schema
}

// Sig declares a signal known under one or more names.
func Sig(names ...string) Signal {
	upper := make([]string, len(names))
	for i, name := range names {
		upper[i] = strings.ToUpper(name)
	}
	return Signal{Names: upper}
}

// Name returns the canonical signal name.
func (s Signal) Name() (string, error) {
	if s.Nested != nil {
		return "", fmt.Errorf("circuit: nested interface %s as a signal: %w", s.Nested.Name(), ErrUnsupported)
	}
	if len(s.Names) == 0 {
		return "", fmt.Errorf("circuit: signal without a name: %w", ErrConfiguration)
	}
	return s.Names[0], nil
}

func (s Signal) matches(name string) bool {
	if s.Nested != nil {
		return s.Nested.Name() == name
	}
	for _, n := range s.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Schema is the shape of an interface such as SPI or I2C: a name and the
// ordered signals it carries. Schemas are compared by identity.
type Schema struct {
	name    string
	signals []Signal
}

// NewSchema declares an interface shape.
func NewSchema(name string, signals ...Signal) *Schema {
	return &Schema{
		name:    strings.ToUpper(name),
		signals: append([]Signal(nil), signals...),
	}
}

func (s *Schema) Name() string { return s.name }

// Signals returns the declared signals in order.
func (s *Schema) Signals() []Signal {
	return append([]Signal(nil), s.signals...)
}

// SignalNames returns the canonical name of every signal.
func (s *Schema) SignalNames() ([]string, error) {
	names := make([]string, 0, len(s.signals))
	for _, sig := range s.signals {
		name, err := sig.Name()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// SignalMatching returns the signal known as name.
func (s *Schema) SignalMatching(name string) (Signal, bool) {
	name = strings.ToUpper(name)
	for _, sig := range s.signals {
		if sig.matches(name) {
			return sig, true
		}
	}
	return Signal{}, false
}

func (s *Schema) String() string {
	return s.name
}

// Interface binds a Schema to the pin-name pattern a part type uses for it.
//
// The pattern is matched against the start of every pin alias. Its last
// capture group yields the signal name; any earlier non-empty groups form the
// port name, so one pattern can find several ports:
//
//	`(SPI\d)_(MOSI|MISO|SCK|CS)`  ->  ports SPI1, SPI2, ...
//
// A pattern with a single group yields one port called Name.
type Interface struct {
	schema  *Schema
	pattern *regexp.Regexp
	name    string
}

// NewInterface compiles pattern for schema. name names the port when the
// pattern has no port-name group; it may be empty otherwise.
func NewInterface(schema *Schema, pattern, name string) (*Interface, error) {
	if schema == nil {
		return nil, fmt.Errorf("circuit: interface without schema: %w", ErrConfiguration)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("circuit: interface %s pattern: %v: %w", schema.Name(), err, ErrConfiguration)
	}
	if re.NumSubexp() == 0 {
		return nil, fmt.Errorf("circuit: interface %s pattern %q has no capture group: %w",
			schema.Name(), pattern, ErrConfiguration)
	}
	return &Interface{
		schema:  schema,
		pattern: re,
		name:    strings.ToUpper(name),
	}, nil
}

// MustInterface is like NewInterface but panics on error. It is meant for
// package-level part libraries.
func MustInterface(schema *Schema, pattern, name string) *Interface {
	iface, err := NewInterface(schema, pattern, name)
	if err != nil {
		panic(err)
	}
	return iface
}

func (i *Interface) Schema() *Schema { return i.schema }
func (i *Interface) Name() string    { return i.name }

// Pattern returns the anchored expression used for matching.
func (i *Interface) Pattern() string { return i.pattern.String() }

func (i *Interface) String() string {
	if i.name != "" {
		return i.schema.Name() + "(" + i.name + ")"
	}
	return i.schema.Name()
}

type portBucket struct {
	name      string
	fragments []string
	pins      map[string]*Pin
}

// MatchPorts derives the ports of part for iface. Every alias of every pin is
// matched; matches are grouped by port name and each signal fragment is
// mapped onto the schema. Fragments the schema doesn't know are ignored, and
// a port may cover only some of the signals.
func MatchPorts(iface *Interface, part *Part) ([]*Port, error) {
	var order []string
	buckets := make(map[string]*portBucket)

	for _, p := range part.pins.All() {
		for _, alias := range p.def.Names {
			m := iface.pattern.FindStringSubmatch(alias)
			if m == nil {
				continue
			}
			groups := m[1:]
			fragment := groups[len(groups)-1]

			var nameParts []string
			for _, g := range groups[:len(groups)-1] {
				if g != "" {
					nameParts = append(nameParts, g)
				}
			}
			key := strings.Join(nameParts, "_")

			b, ok := buckets[key]
			if !ok {
				b = &portBucket{name: key, pins: make(map[string]*Pin)}
				buckets[key] = b
				order = append(order, key)
			}
			if _, seen := b.pins[fragment]; !seen {
				b.fragments = append(b.fragments, fragment)
			}
			b.pins[fragment] = p
		}
	}

	ports := make([]*Port, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		name := b.name
		if name == "" {
			name = iface.name
		}
		if name == "" {
			return nil, fmt.Errorf("circuit: interface %s on %s has no name; name it or capture a port name in the pattern: %w",
				iface.schema.Name(), part.typ.Name, ErrConfiguration)
		}

		port := &Port{
			name:  name,
			iface: iface,
			part:  part,
			pins:  make(map[string]*Pin),
		}
		for _, fragment := range b.fragments {
			sig, ok := iface.schema.SignalMatching(fragment)
			if !ok {
				// pattern wider than the schema
				continue
			}
			signal, err := sig.Name()
			if err != nil {
				return nil, err
			}
			if _, dup := port.pins[signal]; !dup {
				port.signals = append(port.signals, signal)
			}
			port.pins[signal] = b.pins[fragment]
		}
		port.plugins = defaultRegistry.Init(PluginPort, port)
		ports = append(ports, port)
	}
	return ports, nil
}
