package circuit

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

// Endpoint is anything a Net can be connected to: a *Pin, or a PinProvider
// such as *Part that picks the pin itself. Passing a *Net is recognised and
// rejected with ErrUnsupported.
type Endpoint any

// PinProvider chooses which of its pins joins net when it is used as a
// connection target in place of a pin.
type PinProvider interface {
	PinFor(typ pin.Type, net *Net) (*Pin, error)
}

// connGroup is the set of pins wired by one connect statement.
type connGroup struct {
	pins     []*Pin
	dirs     map[*Pin]pin.Direction
	attached bool
}

// history is the connection record shared by a net and its views.
type history struct {
	groups []*connGroup
}

// Net is an electrically common node. Pins join a net in connection groups:
// every Connect call on a net opens a new group, every Connect call on a view
// returned by In or Out extends the view's group.
type Net struct {
	name    string
	id      uint64
	hist    *history
	parent  *Net
	group   *connGroup
	last    *connGroup
	plugins Plugins
}

// NewNet creates a net. An empty name makes an anonymous net.
func NewNet(name string) *Net {
	n := &Net{
		name: strings.ToUpper(name),
		id:   nextIdentity(),
		hist: &history{},
	}
	n.plugins = defaultRegistry.Init(PluginNet, n)
	return n
}

// Root returns the net a view was derived from, or n itself.
func (n *Net) Root() *Net {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Name returns the upper-cased name. Anonymous nets report a placeholder
// that stays the same for the lifetime of the net.
func (n *Net) Name() string {
	root := n.Root()
	if root.name == "" {
		return fmt.Sprintf("ANON_NET?m%05x", root.id&0xfffff)
	}
	return root.name
}

// HasName reports whether the net was given a name.
func (n *Net) HasName() bool {
	return n.Root().name != ""
}

// SetName renames the net and all its views.
func (n *Net) SetName(name string) {
	n.Root().name = strings.ToUpper(name)
}

// Plugins returns the plugin values created for this net.
func (n *Net) Plugins() Plugins {
	return n.Root().plugins
}

// Connect wires targets to the net as one connection group recorded under
// dir. typ tells PinProvider targets which pin is wanted.
//
// A pin already on a net, this one included, is rejected with ErrConnection.
// Targets before a failing one stay connected.
func (n *Net) Connect(dir pin.Direction, typ pin.Type, targets ...Endpoint) error {
	g := n.group
	if g == nil {
		g = &connGroup{dirs: make(map[*Pin]pin.Direction)}
	}
	n.last = g

	root := n.Root()
	for _, target := range targets {
		p, err := n.resolvePin(typ, target)
		if err != nil {
			return err
		}
		if err := p.setNet(root); err != nil {
			return err
		}
		g.pins = append(g.pins, p)
		g.dirs[p] = dir
		if !g.attached {
			g.attached = true
			n.hist.groups = append(n.hist.groups, g)
		}
	}
	return nil
}

func (n *Net) resolvePin(typ pin.Type, target Endpoint) (*Pin, error) {
	switch t := target.(type) {
	case *Net:
		return nil, fmt.Errorf("circuit: can't connect net %s to net %s: %w", t.Name(), n.Name(), ErrUnsupported)
	case *Pin:
		return t, nil
	case PinProvider:
		return t.PinFor(typ, n)
	default:
		return nil, fmt.Errorf("circuit: don't know how to get a %s pin from %v (%T): %w", typ, target, target, ErrConnection)
	}
}

// In connects targets as inputs of the net. See Out.
func (n *Net) In(targets ...Endpoint) (*Net, error) {
	return n.shift(pin.DirIn, targets)
}

// Out connects targets as outputs of the net.
//
// Called on a net, Out opens a new connection group and returns a view of
// the net bound to that group; In and Out on the view keep adding to it:
//
//	v, err := vcc.Out(vout)   // group 1: vout
//	v, err = v.In(vdd)         // group 1: vout, vdd
//	_, err = vcc.In(flashVCC)  // group 2: flashVCC
func (n *Net) Out(targets ...Endpoint) (*Net, error) {
	return n.shift(pin.DirOut, targets)
}

func (n *Net) shift(dir pin.Direction, targets []Endpoint) (*Net, error) {
	if err := n.Connect(dir, pin.Primary, targets...); err != nil {
		return nil, err
	}
	if n.group != nil {
		return n, nil
	}
	view := *n
	view.parent = n
	view.group = n.last
	return &view, nil
}

// Connections returns every connected pin, group by group.
func (n *Net) Connections() []*Pin {
	var out []*Pin
	for _, g := range n.hist.groups {
		out = append(out, g.pins...)
	}
	return out
}

// GroupedConnections returns the connected pins, one slice per connect
// statement.
func (n *Net) GroupedConnections() [][]*Pin {
	out := make([][]*Pin, 0, len(n.hist.groups))
	for _, g := range n.hist.groups {
		out = append(out, append([]*Pin(nil), g.pins...))
	}
	return out
}

// Direction returns the direction p was connected with.
func (n *Net) Direction(p *Pin) (pin.Direction, bool) {
	for _, g := range n.hist.groups {
		if dir, ok := g.dirs[p]; ok {
			return dir, true
		}
	}
	return pin.DirUnknown, false
}

func (n *Net) isNetOfClass(keywords ...string) bool {
	name := n.Name()
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// IsPower guesses from the name whether the net is a supply rail.
func (n *Net) IsPower() bool {
	return n.isNetOfClass("VCC", "PP", "VBUS")
}

// IsGround guesses from the name whether the net is a ground.
func (n *Net) IsGround() bool {
	return n.isNetOfClass("GND")
}

const maxDescribedConnections = 10

// Describe returns the name followed by a short connection summary, e.g.
// "GND(connected to R1.1, R2.1)".
func (n *Net) Describe() string {
	pins := n.Connections()
	var inside string
	switch {
	case len(pins) >= maxDescribedConnections:
		inside = fmt.Sprintf("%d connections", len(pins))
	case len(pins) == 0:
		inside = "unconnected"
	default:
		names := make([]string, len(pins))
		for i, p := range pins {
			names[i] = p.String()
		}
		inside = "connected to " + strings.Join(names, ", ")
	}
	return n.Name() + "(" + inside + ")"
}

func (n *Net) String() string {
	return n.Name()
}
