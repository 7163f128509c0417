package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

func resistorType() *PartType {
	return &PartType{
		Name:         "R",
		RefdesPrefix: "R",
		Pins:         []pin.Spec{pin.Names("1"), pin.Names("2")},
	}
}

var spiSchema = NewSchema("SPI", Sig("MOSI"), Sig("MISO"), Sig("SCK"), Sig("CS", "SS"))

func spiFlashType() *PartType {
	return &PartType{
		Name:         "SPIFlash",
		RefdesPrefix: "U",
		Pins: []pin.Spec{
			{Names: []string{"VCC"}, Numbers: []string{"8"}, Type: pin.PowerInput},
			{Names: []string{"GND"}, Numbers: []string{"4"}, Type: pin.Ground},
			{Names: []string{"MOSI", "DI"}, Numbers: []string{"5"}, Well: "VCC"},
			{Names: []string{"MISO", "DO"}, Numbers: []string{"2"}, Well: "VCC"},
			{Names: []string{"SCK"}, Numbers: []string{"6"}},
			{Names: []string{"CS"}, Numbers: []string{"1"}},
		},
		Ports: []*Interface{MustInterface(spiSchema, `(MOSI|MISO|SCK|CS)`, "SPI")},
	}
}

func mustPart(t *testing.T, typ *PartType, opts ...PartOption) *Part {
	t.Helper()
	p, err := NewPart(typ, opts...)
	require.NoError(t, err)
	return p
}

func mustPin(t *testing.T, p *Part, name string) *Pin {
	t.Helper()
	pn, err := p.Pin(name)
	require.NoError(t, err)
	return pn
}
