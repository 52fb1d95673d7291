package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlate(t *testing.T) {
	cases := map[string]bool{
		"ABC-1234": true,
		"abc1234":  true,
		"ABC1D23":  true,
		" bra2e19": true,
		"AB-1234":  false,
		"ABC12345": false,
		"ABCD123":  false,
		"1BC1234":  false,
		"":         false,
	}
	for plate, want := range cases {
		require.Equal(t, want, Plate(plate), plate)
	}
}

func TestCPF(t *testing.T) {
	require.True(t, CPF("529.982.247-25"))
	require.True(t, CPF("52998224725"))
	require.False(t, CPF("529.982.247-24"))
	require.False(t, CPF("111.111.111-11"))
	require.False(t, CPF("1234"))
}

func TestCNPJ(t *testing.T) {
	require.True(t, CNPJ("11.222.333/0001-81"))
	require.False(t, CNPJ("11.222.333/0001-82"))
	require.False(t, CNPJ("00.000.000/0000-00"))
}

func TestTaxID(t *testing.T) {
	require.True(t, TaxID("529.982.247-25"))
	require.True(t, TaxID("11222333000181"))
	require.False(t, TaxID("123"))
}
