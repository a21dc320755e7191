package entity

import "time"

// Category agrupa productos; sus textos localizados aparecen en el pasaporte de cada artículo.
type Category struct {
	ID            string
	Code          string
	NameFR        string
	NameEN        string
	DescriptionFR string
	DescriptionEN string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
