package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/inventario-ledger/docs"
)

func TestSwaggerRegistrado(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var swaggerDoc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &swaggerDoc))
	assert.Contains(t, swaggerDoc.Paths, "/api/inventory/stock/{productId}/reserve")
	assert.Contains(t, swaggerDoc.Paths, "/api/auth/token")
}
