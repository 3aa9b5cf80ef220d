package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/timereg-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "timereg-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, claims, err := pkgjwt.Generate(testSecret, testUserID, "ana", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.NotEmpty(t, claims.ID, "cada token lleva un jti")

	parsed, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, parsed.UserID)
	assert.Equal(t, "ana", parsed.Username)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestGenerate_JTIDistintoPorToken(t *testing.T) {
	_, c1, err := pkgjwt.Generate(testSecret, testUserID, "ana", testIssuer, 60)
	require.NoError(t, err)
	_, c2, err := pkgjwt.Generate(testSecret, testUserID, "ana", testIssuer, 60)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, testUserID, "ana", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, testUserID, "ana", testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := pkgjwt.Generate("", testUserID, "ana", testIssuer, 60)
	assert.Error(t, err)
}
