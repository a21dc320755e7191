// Package spreadsheet lee y escribe las tablas de la transferencia masiva en CSV y XLSX.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
)

// SheetName hoja única de la exportación XLSX.
const SheetName = "serialized_items"

var _ inventory.TableCodec = (*Codec)(nil)

// Codec implementa inventory.TableCodec.
type Codec struct{}

// NewCodec construye el codec.
func NewCodec() *Codec { return &Codec{} }

// Encode escribe header + rows en w con el formato pedido.
func (c *Codec) Encode(w io.Writer, format string, header []string, rows [][]string) error {
	switch format {
	case inventory.FormatCSV:
		return encodeCSV(w, header, rows)
	case inventory.FormatXLSX:
		return encodeXLSX(w, header, rows)
	}
	return fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
}

// Decode devuelve todas las filas (incluida la cabecera) del archivo.
func (c *Codec) Decode(data []byte, format string) ([][]string, error) {
	switch format {
	case inventory.FormatCSV:
		return decodeCSV(data)
	case inventory.FormatXLSX:
		return decodeXLSX(data)
	}
	return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
}

func encodeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: cabecera: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("csv: filas: %w", err)
	}
	return nil
}

// decodeCSV acepta UTF-8; si los bytes no son UTF-8 válido los decodifica como Windows-1252.
func decodeCSV(data []byte) ([][]string, error) {
	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV ilegible: %v", domain.ErrInvalidInput, err)
	}
	return records, nil
}

func encodeXLSX(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx: hoja: %w", err)
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, i+2, r); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", n, err)
	}
	return nil
}

// decodeXLSX lee la primera hoja del libro.
func decodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: XLSX ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: XLSX sin hojas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: leer filas: %w", err)
	}
	return rows, nil
}
