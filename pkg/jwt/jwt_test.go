package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	id := Identity{UserID: "u-1", CompanyID: "c-1", Role: RoleCajero, WarehouseID: "w-1"}
	tok, err := Generate(testSecret, id, "pos-test", 5)
	require.NoError(t, err)

	got, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate(testSecret, Identity{UserID: "u", CompanyID: "c"}, "pos-test", -1)
	require.NoError(t, err)

	_, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(testSecret, Identity{UserID: "u", CompanyID: "c"}, "pos-test", 5)
	require.NoError(t, err)

	_, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_SinTenant(t *testing.T) {
	tok, err := Generate(testSecret, Identity{UserID: "u"}, "pos-test", 5)
	require.NoError(t, err)

	_, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", Identity{}, "", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
