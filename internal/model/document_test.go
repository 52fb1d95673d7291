package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDocumentType(t *testing.T) {
	cases := map[string]DocumentType{
		"Contrato":      DocumentContract,
		" nota fiscal ": DocumentInvoice,
		"ABASTECIMENTO": DocumentFueling,
		"ct-e":          DocumentCTe,
		"Manifesto":     DocumentManifest,
	}
	for raw, want := range cases {
		got, err := ParseDocumentType(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got)
	}

	_, err := ParseDocumentType("Boleto")
	require.Error(t, err)
}

func TestDocumentTargets(t *testing.T) {
	tables := map[DocumentType]string{
		DocumentContract: "contratos",
		DocumentInvoice:  "notas_fiscais",
		DocumentFueling:  "abastecimentos",
		DocumentCTe:      "ctes",
		DocumentManifest: "manifestos",
	}
	for docType, table := range tables {
		target, err := docType.Target()
		require.NoError(t, err)
		require.Equal(t, table, target.Table)
		require.Equal(t, "status", target.StatusField)
	}

	_, err := DocumentType(42).Target()
	require.Error(t, err)
	require.Equal(t, "DocumentType(42)", DocumentType(42).String())
}
