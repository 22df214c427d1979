package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// readCatalog lee filas id,sku,nombre,precio. Una primera fila con "id" se toma como encabezado.
func readCatalog(r io.Reader, now time.Time) ([]*entity.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var out []*entity.Product
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "id") {
			continue
		}
		id := strings.TrimSpace(rec[0])
		if id == "" {
			return nil, fmt.Errorf("línea %d: id vacío", line)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[3], err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("línea %d: precio negativo", line)
		}
		out = append(out, &entity.Product{
			ID:        id,
			SKU:       strings.TrimSpace(rec[1]),
			Name:      strings.TrimSpace(rec[2]),
			Price:     price,
			UpdatedAt: now,
		})
	}
}
