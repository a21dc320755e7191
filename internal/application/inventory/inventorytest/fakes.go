package inventorytest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// Assets generador de activos en memoria. FailOnCall > 0 hace fallar la llamada N a Generate.
type Assets struct {
	mu         sync.Mutex
	Files      map[string][]byte
	Removed    []string
	Calls      int
	FailOnCall int
}

// NewAssets crea un generador vacío.
func NewAssets() *Assets {
	return &Assets{Files: map[string][]byte{}}
}

func (a *Assets) Generate(_ context.Context, in inventory.AssetInput) (inventory.AssetPaths, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls++
	uid := in.Item.ItemUID
	paths := inventory.AssetPaths{
		QRCode:   "qr/" + uid + ".png",
		Passport: "passports/" + uid + ".html",
		Label:    "labels/" + uid + ".pdf",
	}
	if a.FailOnCall > 0 && a.Calls == a.FailOnCall {
		// Simula un fallo a mitad de camino: el QR quedó escrito y se limpia aquí.
		return inventory.AssetPaths{}, fmt.Errorf("etiqueta %s: %w", uid, ErrInjected)
	}
	a.Files[paths.QRCode] = []byte("png:" + uid)
	a.Files[paths.Passport] = []byte("<html>" + uid + "</html>")
	a.Files[paths.Label] = []byte("%PDF " + uid)
	return paths, nil
}

func (a *Assets) Remove(paths ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range paths {
		delete(a.Files, p)
		a.Removed = append(a.Removed, p)
	}
}

func (a *Assets) Read(path string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.Files[path]
	if !ok {
		return nil, fmt.Errorf("activo %s: %w", path, ErrInjected)
	}
	return data, nil
}

// CSVCodec TableCodec mínimo que solo entiende CSV.
type CSVCodec struct{}

func (CSVCodec) Encode(w io.Writer, format string, header []string, rows [][]string) error {
	if format != inventory.FormatCSV {
		return fmt.Errorf("formato %s no soportado", format)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func (CSVCodec) Decode(data []byte, format string) ([][]string, error) {
	if format != inventory.FormatCSV {
		return nil, fmt.Errorf("formato %s no soportado", format)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// Audit registra las entradas de auditoría en memoria.
type Audit struct {
	mu      sync.Mutex
	Entries []entity.AuditLog
}

func (a *Audit) Log(_ context.Context, e entity.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, e)
}

// Actions devuelve las acciones registradas con su estado ("accion:estado").
func (a *Audit) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		out = append(out, e.Action+":"+e.Status)
	}
	return out
}

// Metrics cuenta las observaciones recibidas.
type Metrics struct {
	mu        sync.Mutex
	Movements map[entity.MovementType]int
	Received  int
	Rows      map[string]int
	Drifts    int
}

// NewMetrics crea contadores vacíos.
func NewMetrics() *Metrics {
	return &Metrics{Movements: map[entity.MovementType]int{}, Rows: map[string]int{}}
}

func (m *Metrics) MovementRecorded(t entity.MovementType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Movements[t]++
}

func (m *Metrics) ItemsReceived(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Received += n
}

func (m *Metrics) ImportRow(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rows[result]++
}

func (m *Metrics) ReconcileDrift(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Drifts += n
}
