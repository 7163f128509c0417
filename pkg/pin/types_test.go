package pin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "", want: Unknown},
		{in: "primary", want: Primary},
		{in: "POWER_INPUT", want: PowerInput},
		{in: "power_output", want: PowerOutput},
		{in: "Ground", want: Ground},
		{in: "output", want: Output},
		{in: "bidirectional", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				assert.Equal(t, tt.want.String(), got.String())
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "power_input", PowerInput.String())
	assert.Equal(t, "Type(42)", Type(42).String())
	assert.True(t, PowerOutput.IsPower())
	assert.False(t, Ground.IsPower())
}

func TestDirection(t *testing.T) {
	d, err := ParseDirection("IN")
	require.NoError(t, err)
	assert.Equal(t, DirIn, d)
	assert.Equal(t, DirOut, d.Opposite())
	assert.Equal(t, DirUnknown, DirUnknown.Opposite())
	assert.Equal(t, "out", DirOut.String())

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrConfiguration)
}
