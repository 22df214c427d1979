package main

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCatalog(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	in := "id,sku,nombre,precio\nP1,SKU-1,Café 500g,12500.50\nP2, SKU-2, Azúcar,3200\n"

	products, err := readCatalog(strings.NewReader(in), now)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "P1", products[0].ID)
	assert.True(t, decimal.RequireFromString("12500.50").Equal(products[0].Price))
	assert.Equal(t, "SKU-2", products[1].SKU)
	assert.Equal(t, now, products[1].UpdatedAt)
}

func TestReadCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"precio inválido":   "P1,SKU,Nombre,abc\n",
		"precio negativo":   "P1,SKU,Nombre,-1\n",
		"id vacío":          ",SKU,Nombre,10\n",
		"columnas de menos": "P1,SKU,10\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readCatalog(strings.NewReader(in), time.Now())
			assert.Error(t, err)
		})
	}
}
