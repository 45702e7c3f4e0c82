package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/escolar/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "s1", "Admin", "sess-1", "escolar", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SchoolID)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID())
	assert.Equal(t, "escolar", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "", "SuperAdmin", "sess", "escolar", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "s1", "Admin", "sess", "escolar", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "s1", "Admin", "sess", "escolar", 60)
	assert.Error(t, err)
	_, err = jwt.Parse("", "x")
	assert.Error(t, err)
}
