package decl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/pcbdl/pkg/circuit"
	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

var (
	// ErrUnknownName reports a reference to an undeclared interface, part
	// type, instance, pin or port.
	ErrUnknownName = errors.New("unknown name")

	// ErrDuplicate reports two declarations of the same name.
	ErrDuplicate = errors.New("duplicate declaration")
)

// Option configures Build.
type Option func(*builder)

// WithLogger traces the objects Build creates at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

type builder struct {
	log    *slog.Logger
	design *Design
}

// Build instantiates the declarations of f. Interfaces and part types are
// created first, regardless of where they appear in the file; instances,
// nets and bundles then follow in declaration order, so connect statements
// run in the order they are written.
func Build(f *File, opts ...Option) (*Design, error) {
	b := &builder{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		design: newDesign(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if f == nil {
		return b.design, nil
	}

	for _, d := range f.Decls {
		if d.Interface != nil {
			if err := b.addInterface(d.Interface); err != nil {
				return nil, err
			}
		}
	}

	var partDecls []*PartDecl
	for _, d := range f.Decls {
		if d.Part != nil {
			if err := b.addPartType(d.Part); err != nil {
				return nil, err
			}
			partDecls = append(partDecls, d.Part)
		}
	}
	if err := b.linkPartTypes(partDecls); err != nil {
		return nil, err
	}

	for _, d := range f.Decls {
		var err error
		switch {
		case d.Inst != nil:
			err = b.addInstance(d.Inst)
		case d.Net != nil:
			err = b.addNet(d.Net)
		case d.Bundle != nil:
			err = b.addBundle(d.Bundle)
		}
		if err != nil {
			return nil, err
		}
	}

	b.log.Debug("design built",
		"types", len(b.design.types),
		"parts", len(b.design.parts),
		"nets", len(b.design.nets),
		"bundles", len(b.design.bundles))
	return b.design, nil
}

// at formats a source position prefix; YAML declarations carry none.
func at(pos lexer.Position) string {
	if pos.Line == 0 {
		return ""
	}
	return pos.String() + ": "
}

func (b *builder) addInterface(d *InterfaceDecl) error {
	if _, ok := b.design.schemas[d.Name]; ok {
		return fmt.Errorf("decl: %sinterface %s: %w", at(d.Pos), d.Name, ErrDuplicate)
	}
	signals := make([]circuit.Signal, 0, len(d.Signals))
	for _, s := range d.Signals {
		signals = append(signals, circuit.Sig(s.Names...))
	}
	schema := circuit.NewSchema(d.Name, signals...)
	b.design.schemas[d.Name] = schema
	b.log.Debug("interface", "name", d.Name, "signals", len(signals))
	return nil
}

func (b *builder) addPartType(d *PartDecl) error {
	if _, ok := b.design.typeByName[d.Name]; ok {
		return fmt.Errorf("decl: %spart %s: %w", at(d.Pos), d.Name, ErrDuplicate)
	}
	t := &circuit.PartType{
		Name:         d.Name,
		RefdesPrefix: d.Prefix,
	}
	if d.MatchNets != nil && d.MatchNets.Enabled {
		t.PinNamesMatchNets = true
		t.PinNamesMatchNetsPrefix = d.MatchNets.Prefix
	}

	for _, p := range d.Pins() {
		spec, err := pinSpec(p)
		if err != nil {
			return fmt.Errorf("decl: %spart %s: %w", at(p.Pos), d.Name, err)
		}
		t.Pins = append(t.Pins, spec)
	}

	if ports := d.Ports(); len(ports) > 0 {
		t.Ports = make([]*circuit.Interface, 0, len(ports))
		for _, p := range ports {
			schema, ok := b.design.schemas[p.Interface]
			if !ok {
				return fmt.Errorf("decl: %spart %s: interface %s: %w", at(p.Pos), d.Name, p.Interface, ErrUnknownName)
			}
			iface, err := circuit.NewInterface(schema, string(p.Pattern), p.Name)
			if err != nil {
				return fmt.Errorf("decl: %spart %s: %w", at(p.Pos), d.Name, err)
			}
			t.Ports = append(t.Ports, iface)
		}
	}

	b.design.typeByName[d.Name] = t
	b.design.types = append(b.design.types, t)
	b.log.Debug("part type", "name", d.Name, "pins", len(t.Pins), "ports", len(t.Ports))
	return nil
}

func pinSpec(d *PinDecl) (pin.Spec, error) {
	spec := pin.Spec{Names: d.Names}
	for _, a := range d.Attrs {
		switch {
		case a.Numbers != nil:
			spec.Numbers = append(spec.Numbers, a.Numbers...)
		case a.Type != "":
			typ, err := pin.ParseType(a.Type)
			if err != nil {
				return pin.Spec{}, err
			}
			spec.Type = typ
		case a.Well != "":
			spec.Well = a.Well
		case a.Meta != nil:
			if spec.Meta == nil {
				spec.Meta = make(map[string]string)
			}
			spec.Meta[a.Meta.Key] = a.Meta.Value
		}
	}
	return spec, nil
}

// linkPartTypes resolves "extends" by name once every type exists, so a
// subtype may be declared before its base.
func (b *builder) linkPartTypes(decls []*PartDecl) error {
	for _, d := range decls {
		if d.Extends == "" {
			continue
		}
		base, ok := b.design.typeByName[d.Extends]
		if !ok {
			return fmt.Errorf("decl: %spart %s extends %s: %w", at(d.Pos), d.Name, d.Extends, ErrUnknownName)
		}
		b.design.typeByName[d.Name].Base = base
	}
	for _, d := range decls {
		t := b.design.typeByName[d.Name]
		seen := map[*circuit.PartType]bool{}
		for cur := t; cur != nil; cur = cur.Base {
			if seen[cur] {
				return fmt.Errorf("decl: %spart %s: inheritance cycle: %w", at(d.Pos), d.Name, circuit.ErrConfiguration)
			}
			seen[cur] = true
		}
	}
	return nil
}

func (b *builder) addInstance(d *InstDecl) error {
	if isDirection(d.Name) {
		return fmt.Errorf("decl: %sinst %s: %q is a connection direction keyword: %w",
			at(d.Pos), d.Name, d.Name, circuit.ErrConfiguration)
	}
	if _, ok := b.design.partByName[d.Name]; ok {
		return fmt.Errorf("decl: %sinst %s: %w", at(d.Pos), d.Name, ErrDuplicate)
	}
	t, ok := b.design.typeByName[d.Type]
	if !ok {
		return fmt.Errorf("decl: %sinst %s: part type %s: %w", at(d.Pos), d.Name, d.Type, ErrUnknownName)
	}

	var opts []circuit.PartOption
	for _, a := range d.Attrs {
		switch {
		case a.Refdes != "":
			opts = append(opts, circuit.WithRefdes(a.Refdes))
		case a.Value != "":
			opts = append(opts, circuit.WithValue(a.Value))
		case a.PartNumber != "":
			opts = append(opts, circuit.WithPartNumber(a.PartNumber))
		case a.Package != "":
			opts = append(opts, circuit.WithPackage(a.Package))
		case a.DNS:
			opts = append(opts, circuit.WithPopulated(false))
		}
	}

	part, err := circuit.NewPart(t, opts...)
	if err != nil {
		return fmt.Errorf("decl: %sinst %s: %w", at(d.Pos), d.Name, err)
	}
	b.design.partByName[d.Name] = part
	b.design.instNames = append(b.design.instNames, d.Name)
	b.design.parts = append(b.design.parts, part)
	b.log.Debug("part", "inst", d.Name, "refdes", part.Refdes(), "type", t.Name)
	return nil
}

// isDirection reports whether name would be read as the direction prefix
// of a connect statement.
func isDirection(name string) bool {
	return name == "in" || name == "out"
}

func (b *builder) instance(pos lexer.Position, name string) (*circuit.Part, error) {
	part, ok := b.design.partByName[name]
	if !ok {
		return nil, fmt.Errorf("decl: %sinstance %s: %w", at(pos), name, ErrUnknownName)
	}
	return part, nil
}

func (b *builder) addNet(d *NetDecl) error {
	var net *circuit.Net
	if d.Name != "" {
		net = b.design.netByName[strings.ToUpper(d.Name)]
	}
	if net == nil {
		net = circuit.NewNet(d.Name)
		if d.Name != "" {
			b.design.netByName[strings.ToUpper(d.Name)] = net
		}
		b.design.nets = append(b.design.nets, net)
		b.log.Debug("net", "name", net.Name())
	}

	for _, g := range d.Groups {
		dir, err := pin.ParseDirection(g.Direction)
		if err != nil {
			return fmt.Errorf("decl: %snet %s: %w", at(d.Pos), net.Name(), err)
		}
		targets := make([]circuit.Endpoint, 0, len(g.Targets))
		for _, ref := range g.Targets {
			part, err := b.instance(d.Pos, ref.Part)
			if err != nil {
				return err
			}
			if ref.Member == "" {
				targets = append(targets, part)
				continue
			}
			p, err := part.Pin(ref.Member)
			if err != nil {
				return fmt.Errorf("decl: %snet %s: %s: %w", at(d.Pos), net.Name(), ref, err)
			}
			targets = append(targets, p)
		}
		if err := net.Connect(dir, pin.Primary, targets...); err != nil {
			return fmt.Errorf("decl: %snet %s: %w", at(d.Pos), net.Name(), err)
		}
		b.log.Debug("connect", "net", net.Name(), "direction", dir, "targets", len(targets))
	}
	return nil
}

func (b *builder) addBundle(d *BundleDecl) error {
	key := strings.ToUpper(d.Prefix)
	schema, ok := b.design.schemas[d.Interface]
	if !ok {
		return fmt.Errorf("decl: %sbundle %s: interface %s: %w", at(d.Pos), d.Prefix, d.Interface, ErrUnknownName)
	}

	bundle := b.design.bundleByName[key]
	switch {
	case bundle == nil:
		var err error
		bundle, err = circuit.NewNetBundle(schema, d.Prefix)
		if err != nil {
			return fmt.Errorf("decl: %sbundle %s: %w", at(d.Pos), d.Prefix, err)
		}
		b.design.bundleByName[key] = bundle
		b.design.bundles = append(b.design.bundles, bundle)
		b.log.Debug("bundle", "prefix", d.Prefix, "interface", d.Interface)
	case bundle.Schema() != schema:
		return fmt.Errorf("decl: %sbundle %s redeclared as %s: %w", at(d.Pos), d.Prefix, d.Interface, ErrDuplicate)
	}

	for _, g := range d.Groups {
		dir, err := pin.ParseDirection(g.Direction)
		if err != nil {
			return fmt.Errorf("decl: %sbundle %s: %w", at(d.Pos), d.Prefix, err)
		}
		for _, ref := range g.Targets {
			part, err := b.instance(d.Pos, ref.Part)
			if err != nil {
				return err
			}
			var target circuit.Endpoint = part
			if ref.Member != "" {
				port, err := part.Port(ref.Member)
				if err != nil {
					return fmt.Errorf("decl: %sbundle %s: %s: %w", at(d.Pos), d.Prefix, ref, err)
				}
				target = port
			}
			if err := bundle.Connect(dir, pin.Primary, target); err != nil {
				return fmt.Errorf("decl: %sbundle %s: %w", at(d.Pos), d.Prefix, err)
			}
		}
		b.log.Debug("connect", "bundle", d.Prefix, "direction", dir, "targets", len(g.Targets))
	}
	return nil
}
