package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLabel_PDFValido(t *testing.T) {
	prod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	out, err := NewLabelGenerator().GenerateLabel(LabelData{
		ItemUID:        "TRF-001-AB12CD34",
		ProductName:    "Truffe noire",
		WeightGrams:    "50",
		BatchNumber:    "L-2026-01",
		ProductionDate: &prod,
		PassportURL:    "https://trufas.example/passport/TRF-001-AB12CD34",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateLabel_SinUID(t *testing.T) {
	_, err := NewLabelGenerator().GenerateLabel(LabelData{ProductName: "x"})
	assert.Error(t, err)
}

func TestDetailLines(t *testing.T) {
	exp := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	lines := detailLines(LabelData{WeightGrams: "100", ExpiryDate: &exp})
	assert.Equal(t, []string{"Poids: 100 g", "DLUO: 01/03/2026"}, lines)
}
