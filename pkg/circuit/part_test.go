package circuit

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

func TestFallbackRefdesIsDistinct(t *testing.T) {
	typ := resistorType()
	r1, r2 := mustPart(t, typ), mustPart(t, typ)

	placeholder := regexp.MustCompile(`^R\?m[0-9a-f]{5}$`)
	assert.Regexp(t, placeholder, r1.Refdes())
	assert.Regexp(t, placeholder, r2.Refdes())
	assert.NotEqual(t, r1.Refdes(), r2.Refdes())
	assert.Equal(t, r1.Refdes(), r1.Refdes())
	assert.False(t, r1.HasRefdes())

	r1.SetRefdes("r7")
	assert.Equal(t, "R7", r1.Refdes())
	assert.True(t, r1.HasRefdes())

	unknown := mustPart(t, &PartType{Name: "Blob", Pins: []pin.Spec{pin.Names("X")}})
	assert.Regexp(t, `^UNK\?m`, unknown.Refdes())
}

func TestPartDisplayName(t *testing.T) {
	typ := resistorType()

	r := mustPart(t, typ, WithRefdes("R1"), WithValue("10k"))
	assert.Equal(t, "R1 - 10k", r.String())
	assert.Equal(t, "10k", r.PartNumber())
	assert.True(t, r.Populated())

	dns := mustPart(t, typ, WithRefdes("R2"), WithPartNumber("RC0402FR-0710KL"), WithPackage("0402"), WithPopulated(false))
	assert.Equal(t, "R2 - RC0402FR-0710KL DNS", dns.String())
	assert.Equal(t, "0402", dns.Package())

	bare := mustPart(t, typ, WithRefdes("R3"))
	assert.Equal(t, "", bare.Value())
	assert.Equal(t, "", bare.PartNumber())
}

func TestPinNumbersAreInjectedWhenUndeclared(t *testing.T) {
	r := mustPart(t, resistorType())
	pins := r.Pins().All()
	require.Len(t, pins, 2)
	assert.Equal(t, "1", pins[0].Number())
	assert.Equal(t, "2", pins[1].Number())

	flash := mustPart(t, spiFlashType())
	mosi := mustPin(t, flash, "di")
	assert.Equal(t, []string{"5"}, mosi.Numbers())
	assert.Equal(t, []string{"MOSI", "DI"}, mosi.Names())
	assert.Equal(t, 2, mosi.Index())
	assert.Same(t, flash, mosi.Part())

	second, err := flash.Pins().At(1)
	require.NoError(t, err)
	assert.Equal(t, "GND", second.Name())

	_, err = flash.Pins().At(6)
	assert.ErrorIs(t, err, ErrLookup)
	_, err = flash.Pin("HOLD")
	assert.ErrorIs(t, err, ErrLookup)
}

func TestSubtypeOverridesBase(t *testing.T) {
	base := &PartType{
		Name:         "Regulator",
		RefdesPrefix: "U",
		Pins: []pin.Spec{
			{Names: []string{"GND"}, Type: pin.Primary},
			{Names: []string{"VIN"}, Type: pin.PowerInput},
			{Names: []string{"VOUT"}, Type: pin.PowerOutput},
		},
	}
	pkg := &PartType{
		Name: "RegulatorSOT23",
		Base: base,
		Pins: []pin.Spec{
			{Names: []string{"GND", "VSS"}, Numbers: []string{"1"}, Type: pin.Ground},
			{Names: []string{"VOUT"}, Numbers: []string{"2"}},
			{Names: []string{"VIN"}, Numbers: []string{"3"}},
		},
	}

	assert.Equal(t, []*PartType{pkg, base}, pkg.Lineage())
	assert.Equal(t, "U", pkg.Prefix())

	u := mustPart(t, pkg)
	gnd := mustPin(t, u, "vss")
	assert.Equal(t, pin.Ground, gnd.Type())
	assert.Equal(t, "1", gnd.Number())
	assert.Equal(t, pin.PowerOutput, mustPin(t, u, "VOUT").Type())

	var names []string
	for _, p := range u.Pins().All() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"GND", "VOUT", "VIN"}, names)
}

func TestDefsAreResolvedOnce(t *testing.T) {
	typ := spiFlashType()
	first, err := typ.Defs()
	require.NoError(t, err)
	second, err := typ.Defs()
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0])

	a, b := mustPart(t, typ), mustPart(t, typ)
	assert.Same(t, mustPin(t, a, "VCC").Def(), mustPin(t, b, "VCC").Def())
	assert.NotSame(t, mustPin(t, a, "VCC"), mustPin(t, b, "VCC"))
}

func TestWellResolution(t *testing.T) {
	flash := mustPart(t, spiFlashType())
	assert.Same(t, mustPin(t, flash, "VCC"), mustPin(t, flash, "MOSI").Well())
	assert.Nil(t, mustPin(t, flash, "SCK").Well())

	tests := []struct {
		name string
		pins []pin.Spec
	}{
		{
			name: "missing well",
			pins: []pin.Spec{{Names: []string{"IO"}, Well: "VDDIO"}},
		},
		{
			name: "well is not a power pin",
			pins: []pin.Spec{
				{Names: []string{"GND"}, Type: pin.Ground},
				{Names: []string{"IO"}, Well: "GND"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPart(&PartType{Name: "Bad", Pins: tt.pins})
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestNewPartRejectsMalformedTypes(t *testing.T) {
	_, err := NewPart(nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewPart(&PartType{Name: "Empty", Pins: []pin.Spec{{Numbers: []string{"1"}}}})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestInterfacesAreInherited(t *testing.T) {
	base := spiFlashType()
	derived := &PartType{Name: "W25Q32", Base: base}
	assert.Len(t, derived.Interfaces(), 1)
	assert.Equal(t, 1, mustPart(t, derived).Ports().Len())

	cleared := &PartType{Name: "NoPorts", Base: base, Ports: []*Interface{}}
	assert.Equal(t, 0, mustPart(t, cleared).Ports().Len())
}
