package assets

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/infrastructure/pdf"
)

func newTestGenerator() (*Generator, afero.Fs) {
	memFs := afero.NewMemMapFs()
	return NewGenerator(memFs, "https://trufas.example/", language.French, pdf.NewLabelGenerator()), memFs
}

func sampleInput() inventory.AssetInput {
	prod := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	w := decimal.RequireFromString("52.5")
	return inventory.AssetInput{
		Item: &entity.SerializedInventoryItem{
			ItemUID:           "TRF-100-AB12CD34",
			BatchNumber:       "L-01",
			ProductionDate:    &prod,
			ActualWeightGrams: &w,
			ReceivedAt:        prod,
		},
		Product: &entity.Product{
			Code: "TRF-100", NameFR: "Truffe noire", NameEN: "Black truffle", Origin: "Périgord",
		},
		Variant:  &entity.ProductWeightOption{SKU: "TRF-100-50G", WeightGrams: decimal.NewFromInt(50)},
		Category: &entity.Category{Code: "NOIRE", NameFR: "Truffes noires", NameEN: "Black truffles"},
	}
}

func TestGenerate_EscribeLosTresActivos(t *testing.T) {
	g, memFs := newTestGenerator()

	paths, err := g.Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "qr/TRF-100-AB12CD34.png", paths.QRCode)
	assert.Equal(t, "passports/TRF-100-AB12CD34.html", paths.Passport)
	assert.Equal(t, "labels/TRF-100-AB12CD34.pdf", paths.Label)

	png, err := afero.ReadFile(memFs, paths.QRCode)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	label, err := g.Read(paths.Label)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(label, []byte("%PDF")))
}

func TestGenerate_PasaporteLocalizado(t *testing.T) {
	g, _ := newTestGenerator()
	paths, err := g.Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	html, err := g.Read(paths.Passport)
	require.NoError(t, err)
	s := string(html)
	assert.Contains(t, s, `lang="fr"`)
	assert.Contains(t, s, "Truffe noire")
	assert.Contains(t, s, "Black truffle")
	assert.Contains(t, s, "Truffes noires")
	assert.Contains(t, s, "52.5 g")
	assert.Less(t, strings.Index(s, "Truffe noire"), strings.Index(s, "Black truffle"), "francés primero")
}

func TestGenerate_FallaLimpia(t *testing.T) {
	g, memFs := newTestGenerator()
	in := sampleInput()
	in.Item.ItemUID = "" // la etiqueta rechaza un uid vacío después de escribir QR y pasaporte

	_, err := g.Generate(context.Background(), in)
	require.Error(t, err)

	for _, p := range []string{"qr/.png", "passports/.html"} {
		exists, _ := afero.Exists(memFs, p)
		assert.False(t, exists, p)
	}
}

func TestRead_Inexistente(t *testing.T) {
	g, _ := newTestGenerator()
	_, err := g.Read("qr/NOPE.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove_IgnoraInexistentes(t *testing.T) {
	g, memFs := newTestGenerator()
	require.NoError(t, afero.WriteFile(memFs, "qr/a.png", []byte("x"), 0o644))

	g.Remove("qr/a.png", "qr/b.png")

	exists, _ := afero.Exists(memFs, "qr/a.png")
	assert.False(t, exists)
}

func TestNegotiateLanguage(t *testing.T) {
	assert.Equal(t, "fr", base(NegotiateLanguage("fr", []string{"fr", "en"})))
	assert.Equal(t, "en", base(NegotiateLanguage("en-GB", []string{"fr", "en"})))
	assert.Equal(t, "fr", base(NegotiateLanguage("de", []string{"fr", "en"})))
	assert.Equal(t, "fr", base(NegotiateLanguage("en", nil)))
}

func TestPick_CaeAlOtroIdioma(t *testing.T) {
	assert.Equal(t, "Truffe", pick("en", "Truffe", ""))
	assert.Equal(t, "Truffle", pick("fr", "", "Truffle"))
}
