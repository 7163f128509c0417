// Package circuit builds the in-memory connectivity graph of a schematic.
//
// # Overview
//
// A PartType describes a component: its pin declarations (pin.Spec), the
// interfaces its pins can form and its reference designator prefix. Types may
// extend a Base type; the pin declarations of every level are merged by
// pin.Resolve, nearest level first.
//
// NewPart instantiates a type. Each resolved pin becomes a *Pin owned by the
// part, and every declared Interface is matched against the pin names to
// derive *Port values.
//
// Pins are joined through a *Net:
//
//	gnd := circuit.NewNet("GND")
//	err := gnd.Connect(pin.DirUnknown, pin.Primary, r1Pin1, r2Pin1)
//
// All pins passed to one Connect call form one connection group. The In and
// Out helpers record a direction and return a view of the net that keeps
// extending the same group:
//
//	vout, _ := regulator.Pin("VOUT")
//	vdd, _ := mcu.Pin("VDD")
//	v, err := vcc.Out(vout)
//	v, err = v.In(vdd)
//
// A pin joins at most one net, once. There is no disconnection and no way to
// merge two nets.
//
// A *NetBundle holds one net per signal of an interface Schema and connects
// them to a matching *Port in one call.
//
// # Construction model
//
// Graph construction is single-threaded. The only state shared between
// goroutines is the memoised pin resolution of each PartType and the plugin
// registry; both are safe for concurrent use. Errors are returned at the
// offending call and nothing is rolled back: when a multi-target Connect
// fails, the targets before the failing one stay connected.
//
// # Plugins
//
// RegisterPlugin associates a factory with nets, pins, parts or ports. Each
// object constructed afterwards runs the factories for its kind once and
// exposes the results through Plugins.
package circuit
