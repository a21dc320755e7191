// Package pdf genera la etiqueta imprimible de cada artículo serializado.
//
// Layout de la etiqueta (100 x 60 mm):
//
//	┌──────────────────────────────────────────┐
//	│  QR (pasaporte)  │  Nombre del producto  │
//	│                  │  Peso / Lote          │
//	│                  │  Producción / DLUO    │
//	│  ──────────────────────────────────────  │
//	│  ITEM-UID                                │
//	└──────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 28, Blue: 24}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const (
	labelWidthMM  = 100
	labelHeightMM = 60
)

// LabelData datos impresos en la etiqueta.
type LabelData struct {
	ItemUID        string
	ProductName    string
	WeightGrams    string // vacío si no aplica
	BatchNumber    string
	ProductionDate *time.Time
	ExpiryDate     *time.Time
	PassportURL    string // contenido del QR
}

// LabelGenerator genera etiquetas PDF con Maroto v2.
type LabelGenerator struct{}

// NewLabelGenerator construye el generador.
func NewLabelGenerator() *LabelGenerator { return &LabelGenerator{} }

// GenerateLabel genera el PDF de la etiqueta y devuelve sus bytes.
func (g *LabelGenerator) GenerateLabel(data LabelData) ([]byte, error) {
	if data.ItemUID == "" {
		return nil, fmt.Errorf("pdf: etiqueta sin item_uid")
	}
	cfg := config.NewBuilder().
		WithDimensions(labelWidthMM, labelHeightMM).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(2).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(data.ItemUID, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(bodyRow(data))
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(uidRow(data.ItemUID))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// bodyRow: QR a la izquierda, datos del producto a la derecha.
func bodyRow(data LabelData) core.Row {
	info := []core.Component{
		text.New(nonEmpty(data.ProductName, data.ItemUID), props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1,
		}),
	}
	top := 9.0
	for _, l := range detailLines(data) {
		info = append(info, text.New(l, props.Text{Size: 7.5, Top: top, Color: colorGray}))
		top += 5
	}

	qr := col.New(5)
	if data.PassportURL != "" {
		qr = col.New(5).Add(code.NewQr(data.PassportURL, props.Rect{Percent: 95, Center: true}))
	}
	return row.New(38).Add(qr, col.New(7).Add(info...))
}

// uidRow: identificador legible debajo de la línea.
func uidRow(uid string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(uid, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 1}),
	))
}

func detailLines(data LabelData) []string {
	var lines []string
	if data.WeightGrams != "" {
		lines = append(lines, "Poids: "+data.WeightGrams+" g")
	}
	if data.BatchNumber != "" {
		lines = append(lines, "Lot: "+data.BatchNumber)
	}
	if data.ProductionDate != nil {
		lines = append(lines, "Production: "+data.ProductionDate.Format("02/01/2006"))
	}
	if data.ExpiryDate != nil {
		lines = append(lines, "DLUO: "+data.ExpiryDate.Format("02/01/2006"))
	}
	return lines
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
