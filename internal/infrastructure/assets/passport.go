package assets

import (
	"bytes"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/language"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
)

const xhtmlNS = "http://www.w3.org/1999/xhtml"

// buildPassport arma el pasaporte XHTML del artículo: una sección por idioma,
// la del idioma principal primero.
func buildPassport(in inventory.AssetInput, primary language.Tag) ([]byte, error) {
	if in.Item == nil || in.Product == nil {
		return nil, fmt.Errorf("assets: pasaporte sin artículo o producto")
	}
	langs := languageOrder(primary)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", xhtmlNS)
	html.CreateAttr("lang", langs[0])

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "UTF-8")
	head.CreateElement("title").SetText(
		passportLabels[langs[0]]["title"] + " " + in.Item.ItemUID)

	body := html.CreateElement("body")
	for _, lang := range langs {
		writeSection(body, in, lang)
	}

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("assets: serializar pasaporte: %w", err)
	}
	return out.Bytes(), nil
}

func writeSection(body *etree.Element, in inventory.AssetInput, lang string) {
	labels := passportLabels[lang]
	p, it := in.Product, in.Item

	section := body.CreateElement("section")
	section.CreateAttr("lang", lang)
	section.CreateElement("h1").SetText(pick(lang, p.NameFR, p.NameEN))
	if desc := pick(lang, p.DescriptionFR, p.DescriptionEN); desc != "" {
		section.CreateElement("p").SetText(desc)
	}

	dl := section.CreateElement("dl")
	field := func(key, value string) {
		if value == "" {
			return
		}
		dl.CreateElement("dt").SetText(labels[key])
		dl.CreateElement("dd").SetText(value)
	}

	field("uid", it.ItemUID)
	if in.Category != nil {
		field("category", pick(lang, in.Category.NameFR, in.Category.NameEN))
	}
	field("origin", p.Origin)
	if in.Variant != nil {
		field("weight", in.Variant.WeightGrams.String()+" g")
	}
	if it.ActualWeightGrams != nil {
		field("actual", it.ActualWeightGrams.String()+" g")
	}
	field("batch", it.BatchNumber)
	field("production", formatDay(it.ProductionDate))
	field("expiry", formatDay(it.ExpiryDate))
	if !it.ReceivedAt.IsZero() {
		field("received", it.ReceivedAt.UTC().Format("2006-01-02"))
	}

	if in.Category != nil {
		if desc := pick(lang, in.Category.DescriptionFR, in.Category.DescriptionEN); desc != "" {
			section.CreateElement("p").SetText(desc)
		}
	}
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
