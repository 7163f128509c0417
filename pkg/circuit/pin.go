package circuit

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

// Pin is a resolved pin of one particular part. It joins at most one Net.
type Pin struct {
	def     *pin.Def
	part    *Part
	index   int
	numbers []string
	well    *Pin
	net     *Net
	plugins Plugins
}

func newPin(part *Part, def *pin.Def, index int, injectNumber string) *Pin {
	p := &Pin{
		def:     def,
		part:    part,
		index:   index,
		numbers: def.Numbers,
	}
	if injectNumber != "" {
		p.numbers = []string{injectNumber}
	}
	p.plugins = defaultRegistry.Init(PluginPin, p)
	return p
}

func (p *Pin) resolveWell() error {
	if p.def.Well == "" {
		return nil
	}
	well, err := p.part.pins.Get(p.def.Well)
	if err != nil {
		return fmt.Errorf("circuit: voltage well pin %s of %s not found on %s: %w",
			p.def.Well, p, p.part.Refdes(), ErrConfiguration)
	}
	if !well.Type().IsPower() {
		return fmt.Errorf("circuit: well pin %s of %s is not a power pin (but %s): %w",
			well, p, well.Type(), ErrConfiguration)
	}
	p.well = well
	return nil
}

// Def returns the type-wide definition the pin was built from.
func (p *Pin) Def() *pin.Def { return p.def }

// Part returns the part this pin belongs to.
func (p *Pin) Part() *Part { return p.part }

// Index returns the position of the pin in its part's resolution order.
func (p *Pin) Index() int { return p.index }

// Name returns the primary alias.
func (p *Pin) Name() string { return p.def.Name() }

// Names returns all aliases.
func (p *Pin) Names() []string { return append([]string(nil), p.def.Names...) }

// Numbers returns the declared pin numbers or, when none were declared, the
// 1-based position of the pin.
func (p *Pin) Numbers() []string { return append([]string(nil), p.numbers...) }

// Number returns the first pin number.
func (p *Pin) Number() string {
	if len(p.numbers) == 0 {
		return ""
	}
	return p.numbers[0]
}

func (p *Pin) Type() pin.Type { return p.def.Type }

// Well returns the power pin this pin is referenced to, or nil.
func (p *Pin) Well() *Pin { return p.well }

// Meta returns the free-form attribute key, if declared.
func (p *Pin) Meta(key string) (string, bool) {
	v, ok := p.def.Meta[key]
	return v, ok
}

// Plugins returns the plugin values created for this pin.
func (p *Pin) Plugins() Plugins { return p.plugins }

// Connected reports whether the pin has joined a net.
func (p *Pin) Connected() bool { return p.net != nil }

// Net returns the net the pin belongs to. An unconnected pin is first placed
// alone on a fresh anonymous net, which is returned on every later call.
func (p *Pin) Net() *Net {
	if p.net == nil {
		fresh := NewNet("")
		// A fresh net cannot refuse an unconnected pin.
		_ = fresh.Connect(pin.DirUnknown, pin.Primary, p)
	}
	return p.net
}

func (p *Pin) setNet(n *Net) error {
	if p.net != nil {
		return fmt.Errorf("circuit: pin %s is already connected to net %s, can't connect to %s too: %w",
			p, p.net.Name(), n.Name(), ErrConnection)
	}
	p.net = n
	return nil
}

// Connect connects targets to the pin's net, see Net.Connect.
func (p *Pin) Connect(dir pin.Direction, typ pin.Type, targets ...Endpoint) error {
	return p.Net().Connect(dir, typ, targets...)
}

// In drives targets from this pin: the pin is recorded as an output and
// targets as inputs. An unconnected pin gets a new anonymous net.
func (p *Pin) In(targets ...Endpoint) (*Net, error) {
	return p.shift(pin.DirIn, targets)
}

// Out feeds this pin from targets: the pin is recorded as an input and
// targets as outputs. An unconnected pin gets a new anonymous net.
func (p *Pin) Out(targets ...Endpoint) (*Net, error) {
	return p.shift(pin.DirOut, targets)
}

func (p *Pin) shift(dir pin.Direction, targets []Endpoint) (*Net, error) {
	net := p.net
	if net == nil {
		// Seed the new net ourselves so this pin gets the opposite direction.
		view, err := NewNet("").shift(dir.Opposite(), []Endpoint{p})
		if err != nil {
			return nil, err
		}
		net = view
	}
	return net.shift(dir, targets)
}

// String returns "REFDES.NAME".
func (p *Pin) String() string {
	return p.part.Refdes() + "." + p.Name()
}
