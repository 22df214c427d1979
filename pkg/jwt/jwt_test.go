package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "orders-svc", "workflow", "ledger", 5)
	require.NoError(t, err)

	subject, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "orders-svc", subject)
	assert.Equal(t, "workflow", role)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := jwt.Generate("secreto", "orders-svc", "workflow", "ledger", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := jwt.Generate("secreto", "orders-svc", "workflow", "ledger", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := jwt.Generate("", "s", "admin", "ledger", 5)
	assert.Error(t, err)
	_, _, err = jwt.Parse("", "x.y.z")
	assert.Error(t, err)
}
