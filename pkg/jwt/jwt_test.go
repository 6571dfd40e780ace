package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate("secreto", "u-1", "a@b.com", "stockbill", 5)
	require.NoError(t, err)

	claims, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "stockbill", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secreto", "u-1", "a@b.com", "stockbill", 5)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err, "un token firmado con otra clave no debe validar")
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate("secreto", "u-1", "a@b.com", "stockbill", -1)
	require.NoError(t, err)

	_, err = Parse("secreto", token)
	assert.Error(t, err, "un token expirado no debe validar")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u-1", "a@b.com", "stockbill", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
