package decl

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/pcbdl/pkg/circuit"
	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

func buildString(t *testing.T, input string) (*Design, error) {
	t.Helper()
	f, err := ParseString(input)
	require.NoError(t, err)
	return Build(f)
}

func pinNames(pins []*circuit.Pin) []string {
	out := make([]string, 0, len(pins))
	for _, p := range pins {
		out = append(out, p.String())
	}
	return out
}

// summary renders a design as text so two designs can be compared.
func summary(d *Design) string {
	var b strings.Builder
	for _, p := range d.Parts() {
		b.WriteString(p.String() + "\n")
		for _, pn := range p.Pins().All() {
			b.WriteString("  " + strings.Join(pn.Names(), "|") + " " + strings.Join(pn.Numbers(), ",") + " " + pn.Type().String() + "\n")
		}
	}
	for _, n := range d.Nets() {
		b.WriteString(n.Name() + ": " + strings.Join(pinNames(n.Connections()), " ") + "\n")
	}
	for _, bundle := range d.Bundles() {
		for _, n := range bundle.Nets() {
			b.WriteString(n.Name() + ": " + strings.Join(pinNames(n.Connections()), " ") + "\n")
		}
	}
	return b.String()
}

func buildBoard(t *testing.T, name string) *Design {
	t.Helper()
	f, err := Load(filepath.Join(testdataDir(t), name), FormatAuto)
	require.NoError(t, err)
	d, err := Build(f)
	require.NoError(t, err)
	return d
}

func TestBuildBoard(t *testing.T) {
	d := buildBoard(t, "board.pcbdl")

	var refs []string
	for _, p := range d.Parts() {
		refs = append(refs, p.Refdes())
	}
	assert.Equal(t, []string{"U1", "U2", "R1", "R2"}, refs)

	flash, ok := d.Part("flash")
	require.True(t, ok)
	byRefdes, ok := d.Part("u2")
	require.True(t, ok)
	assert.Same(t, flash, byRefdes)
	assert.Equal(t, "flash", d.InstanceName(flash))
	assert.Equal(t, "SOIC-8", flash.Package())

	cs, err := flash.Pin("SS")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, cs.Numbers())
	note, ok := cs.Meta("function")
	require.True(t, ok)
	assert.Equal(t, "chip select", note)
	require.NotNil(t, cs.Well())
	assert.Equal(t, "VCC", cs.Well().Name())

	r2, _ := d.Part("r2")
	assert.False(t, r2.Populated())
	assert.Equal(t, "R2 - 10k DNS", r2.String())

	supply, ok := d.Net("3v3")
	require.True(t, ok)
	assert.Equal(t, []string{"U1.VDD", "U2.VCC", "R1.1", "R2.1"}, pinNames(supply.Connections()))
	require.Len(t, supply.GroupedConnections(), 3)
	vdd, _ := d.Part("mcu")
	vddPin, err := vdd.Pin("VDD")
	require.NoError(t, err)
	dir, ok := supply.Direction(vddPin)
	require.True(t, ok)
	assert.Equal(t, pin.DirOut, dir)

	ground, ok := d.Net("GND")
	require.True(t, ok)
	assert.Equal(t, []string{"U1.VSS", "U2.GND"}, pinNames(ground.Connections()))
	assert.True(t, ground.IsGround())

	require.Len(t, d.Nets(), 2)

	bundle, ok := d.Bundle("spi1")
	require.True(t, ok)
	mosi, err := bundle.Net("MOSI")
	require.NoError(t, err)
	assert.Equal(t, "SPI1_MOSI", mosi.Name())
	assert.Equal(t, []string{"U1.SPI1_MOSI", "U2.MOSI"}, pinNames(mosi.Connections()))
	require.Len(t, bundle.Ports(), 2)

	mcuMOSI, err := vdd.Pin("PA7")
	require.NoError(t, err)
	dir, ok = mosi.Direction(mcuMOSI)
	require.True(t, ok)
	assert.Equal(t, pin.DirOut, dir)
}

func TestBuildYAMLMatchesDSL(t *testing.T) {
	assert.Equal(t, summary(buildBoard(t, "board.pcbdl")), summary(buildBoard(t, "board.yaml")))
}

func TestBuildTypesAnyOrder(t *testing.T) {
	d, err := buildString(t, `
		part Board extends Generic { pin A number "7"; }
		part Generic prefix J { pin A | B type input; }
		inst j Board;
	`)
	require.NoError(t, err)

	board, ok := d.Type("Board")
	require.True(t, ok)
	generic, _ := d.Type("Generic")
	assert.Same(t, generic, board.Base)
	assert.Len(t, d.Types(), 2)

	j, _ := d.Part("j")
	a, err := j.Pin("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, a.Numbers())
	assert.Equal(t, pin.Input, a.Type())
	assert.True(t, strings.HasPrefix(j.Refdes(), "J?"))
}

func TestBuildNetRedeclaration(t *testing.T) {
	d, err := buildString(t, `
		part R { pin "1"; pin "2"; }
		inst r1 R refdes R1;
		net A { r1.1; }
		net a { r1.2; }
	`)
	require.NoError(t, err)
	require.Len(t, d.Nets(), 1)
	n, _ := d.Net("A")
	assert.Equal(t, []string{"R1.1", "R1.2"}, pinNames(n.Connections()))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		want    string
	}{
		{
			name:    "unknown base",
			input:   `part A extends B { pin X; }`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "inheritance cycle",
			input:   `part A extends B { pin X; } part B extends A { pin Y; }`,
			wantErr: circuit.ErrConfiguration,
			want:    "cycle",
		},
		{
			name:    "duplicate part",
			input:   `part A { pin X; } part A { pin Y; }`,
			wantErr: ErrDuplicate,
		},
		{
			name:    "duplicate interface",
			input:   `interface I { A; } interface I { B; }`,
			wantErr: ErrDuplicate,
		},
		{
			name:    "unknown interface in port",
			input:   `part A { pin X; port SPI pattern "(X)" name S; }`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "bad pin type",
			input:   `part A { pin X type sideways; }`,
			wantErr: circuit.ErrConfiguration,
		},
		{
			name:    "pattern without group",
			input:   `interface I { X; } part A { pin X; port I pattern "X" name I; }`,
			wantErr: circuit.ErrConfiguration,
		},
		{
			name:    "unknown part type",
			input:   `inst a Nope;`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "instance named like a direction",
			input:   `part A { pin X; } inst out A;`,
			wantErr: circuit.ErrConfiguration,
			want:    "direction keyword",
		},
		{
			name:    "duplicate instance",
			input:   `part A { pin X; } inst a A; inst a A;`,
			wantErr: ErrDuplicate,
		},
		{
			name:    "missing well",
			input:   `part A { pin X well VDD; } inst a A;`,
			wantErr: circuit.ErrConfiguration,
		},
		{
			name:    "unknown instance in net",
			input:   `net A { nobody.1; }`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "unknown pin",
			input:   `part A { pin X; } inst a A; net N { a.Y; }`,
			wantErr: circuit.ErrLookup,
		},
		{
			name:    "pin on two nets",
			input:   `part A { pin X; } inst a A; net N { a.X; } net M { a.X; }`,
			wantErr: circuit.ErrConnection,
			want:    "already connected",
		},
		{
			name:    "unknown bundle interface",
			input:   `bundle B NOPE;`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "bundle redeclared with another interface",
			input:   `interface I { A; } interface J { A; } bundle B I; bundle B J;`,
			wantErr: ErrDuplicate,
		},
		{
			name:    "unknown port",
			input:   `interface I { A; } part P { pin A; } inst p P; bundle B I { p.NOPE; }`,
			wantErr: circuit.ErrLookup,
		},
		{
			name:    "part without a matching port",
			input:   `interface I { A; } part P { pin A; } inst p P; bundle B I { p; }`,
			wantErr: circuit.ErrConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildString(t, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "decl: ")
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestBuildReportsPosition(t *testing.T) {
	_, err := buildString(t, "part A { pin X; }\ninst a Nope;\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2:1: inst a")
}

func TestBuildLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f, err := ParseString(`part R { pin "1"; pin "2"; } inst r1 R refdes R1; net N { r1.1; }`)
	require.NoError(t, err)
	_, err = Build(f, WithLogger(log))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "part type")
	assert.Contains(t, out, "refdes=R1")
	assert.Contains(t, out, "design built")
}

func TestBuildNil(t *testing.T) {
	d, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Parts())
}
