// Package assets genera y guarda los activos de cada artículo serializado:
// QR (PNG), pasaporte (XHTML) y etiqueta (PDF).
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/text/language"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/infrastructure/pdf"
)

var _ inventory.AssetGenerator = (*Generator)(nil)

// Generator implementa inventory.AssetGenerator sobre un afero.Fs.
type Generator struct {
	fs            afero.Fs
	publicBaseURL string
	language      language.Tag
	labels        *pdf.LabelGenerator
}

// NewGenerator construye el generador. publicBaseURL es la base codificada en los QR.
func NewGenerator(fsys afero.Fs, publicBaseURL string, lang language.Tag, labels *pdf.LabelGenerator) *Generator {
	return &Generator{
		fs:            fsys,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		language:      lang,
		labels:        labels,
	}
}

// NewDiskFs devuelve un afero.Fs enraizado en dir, creándolo si no existe.
func NewDiskFs(dir string) (afero.Fs, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: crear directorio %s: %w", dir, err)
	}
	return afero.NewBasePathFs(osFs, dir), nil
}

// PassportURL URL pública del pasaporte de uid.
func (g *Generator) PassportURL(uid string) string {
	return g.publicBaseURL + "/passport/" + uid
}

// Generate escribe qr/{uid}.png, passports/{uid}.html y labels/{uid}.pdf.
// Si algo falla, borra lo escrito para este artículo.
func (g *Generator) Generate(ctx context.Context, in inventory.AssetInput) (inventory.AssetPaths, error) {
	if in.Item == nil || in.Product == nil {
		return inventory.AssetPaths{}, fmt.Errorf("%w: activos sin artículo o producto", domain.ErrInvalidInput)
	}
	uid := in.Item.ItemUID
	var paths inventory.AssetPaths

	fail := func(err error) (inventory.AssetPaths, error) {
		g.Remove(paths.All()...)
		return inventory.AssetPaths{}, err
	}

	qrPNG, err := encodeQR(g.PassportURL(uid))
	if err != nil {
		return fail(err)
	}
	if paths.QRCode, err = g.write("qr", uid+".png", qrPNG); err != nil {
		return fail(err)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	passport, err := buildPassport(in, g.language)
	if err != nil {
		return fail(err)
	}
	if paths.Passport, err = g.write("passports", uid+".html", passport); err != nil {
		return fail(err)
	}

	label, err := g.labels.GenerateLabel(g.labelData(in))
	if err != nil {
		return fail(err)
	}
	if paths.Label, err = g.write("labels", uid+".pdf", label); err != nil {
		return fail(err)
	}
	return paths, nil
}

// Remove elimina rutas ya escritas; los errores solo se registran.
func (g *Generator) Remove(paths ...string) {
	for _, p := range paths {
		if err := g.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", p).Msg("assets: no se pudo eliminar")
		}
	}
}

// Read devuelve el contenido de una ruta relativa. Un archivo inexistente es ErrNotFound.
func (g *Generator) Read(p string) ([]byte, error) {
	data, err := afero.ReadFile(g.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: activo %s", domain.ErrNotFound, p)
		}
		return nil, fmt.Errorf("assets: leer %s: %w", p, err)
	}
	return data, nil
}

func (g *Generator) write(dir, name string, data []byte) (string, error) {
	if err := g.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("assets: crear %s: %w", dir, err)
	}
	p := path.Join(dir, name)
	if err := afero.WriteFile(g.fs, p, data, 0o644); err != nil {
		return "", fmt.Errorf("assets: escribir %s: %w", p, err)
	}
	return p, nil
}

func (g *Generator) labelData(in inventory.AssetInput) pdf.LabelData {
	lang := base(g.language)
	data := pdf.LabelData{
		ItemUID:        in.Item.ItemUID,
		ProductName:    pick(lang, in.Product.NameFR, in.Product.NameEN),
		BatchNumber:    in.Item.BatchNumber,
		ProductionDate: in.Item.ProductionDate,
		ExpiryDate:     in.Item.ExpiryDate,
		PassportURL:    g.PassportURL(in.Item.ItemUID),
	}
	switch {
	case in.Item.ActualWeightGrams != nil:
		data.WeightGrams = in.Item.ActualWeightGrams.String()
	case in.Variant != nil:
		data.WeightGrams = in.Variant.WeightGrams.String()
	}
	return data
}
