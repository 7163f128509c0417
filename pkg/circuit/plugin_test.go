package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refCounter struct {
	owner any
}

func TestPluginsRunOncePerObject(t *testing.T) {
	calls := 0
	factory := func(owner any) any {
		calls++
		return &refCounter{owner: owner}
	}
	require.NoError(t, RegisterPlugin("refcounter", factory, PluginNet, PluginPart, PluginPort))
	t.Cleanup(func() { DefaultRegistry().Unregister("refcounter") })

	net := NewNet("GND")
	state, ok := net.Plugins()["refcounter"].(*refCounter)
	require.True(t, ok)
	assert.Same(t, net, state.owner)

	flash := mustPart(t, spiFlashType())
	partState := flash.Plugins()["refcounter"].(*refCounter)
	assert.Same(t, flash, partState.owner)

	port, err := flash.Port("SPI")
	require.NoError(t, err)
	assert.Same(t, port, port.Plugins()["refcounter"].(*refCounter).owner)

	// pins were not targeted
	assert.Nil(t, mustPin(t, flash, "VCC").Plugins())

	// one net, one part, one port
	assert.Equal(t, 3, calls)

	view, err := net.In(mustPin(t, flash, "GND"))
	require.NoError(t, err)
	assert.Same(t, state, view.Plugins()["refcounter"])
	assert.Equal(t, 3, calls)
}

func TestRegistryValidation(t *testing.T) {
	r := NewRegistry()
	noop := func(any) any { return nil }

	assert.ErrorIs(t, r.Register("", noop, PluginPin), ErrConfiguration)
	assert.ErrorIs(t, r.Register("x", nil, PluginPin), ErrConfiguration)
	assert.ErrorIs(t, r.Register("x", noop), ErrConfiguration)

	require.NoError(t, r.Register("x", noop, PluginPin))
	assert.ErrorIs(t, r.Register("x", noop, PluginNet, PluginPin), ErrConfiguration)
	assert.Nil(t, r.Init(PluginNet, nil), "failed registration must not be partial")

	plugins := r.Init(PluginPin, "owner")
	assert.Equal(t, Plugins{"x": nil}, plugins)

	r.Unregister("x")
	assert.Nil(t, r.Init(PluginPin, "owner"))
	assert.Equal(t, "port", PluginPort.String())
}
