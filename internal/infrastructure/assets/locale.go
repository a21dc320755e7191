package assets

import (
	"golang.org/x/text/language"
)

// NegotiateLanguage elige el idioma principal del pasaporte entre los soportados.
// Un default no soportado cae en el primer idioma de la lista; sin lista se usa francés.
func NegotiateLanguage(preferred string, supported []string) language.Tag {
	var tags []language.Tag
	for _, s := range supported {
		if t, err := language.Parse(s); err == nil {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return language.French
	}
	want, err := language.Parse(preferred)
	if err != nil {
		return tags[0]
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return tags[0]
	}
	return tags[idx]
}

// languageOrder devuelve el idioma principal seguido del otro (fr/en).
func languageOrder(primary language.Tag) []string {
	if base(primary) == "en" {
		return []string{"en", "fr"}
	}
	return []string{"fr", "en"}
}

func base(t language.Tag) string {
	b, _ := t.Base()
	return b.String()
}

// pick elige el texto del idioma pedido; si está vacío usa el otro.
func pick(lang, fr, en string) string {
	if lang == "en" {
		if en != "" {
			return en
		}
		return fr
	}
	if fr != "" {
		return fr
	}
	return en
}

// passportLabels textos fijos del pasaporte por idioma.
var passportLabels = map[string]map[string]string{
	"fr": {
		"title":      "Passeport produit",
		"uid":        "Identifiant",
		"category":   "Catégorie",
		"origin":     "Origine",
		"weight":     "Poids nominal",
		"actual":     "Poids réel",
		"batch":      "Lot",
		"production": "Date de production",
		"expiry":     "À consommer de préférence avant",
		"received":   "Reçu le",
	},
	"en": {
		"title":      "Product passport",
		"uid":        "Identifier",
		"category":   "Category",
		"origin":     "Origin",
		"weight":     "Nominal weight",
		"actual":     "Actual weight",
		"batch":      "Batch",
		"production": "Production date",
		"expiry":     "Best before",
		"received":   "Received on",
	},
}
