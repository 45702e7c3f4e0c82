package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/escolar/internal/application/auth"
)

func TestWriteSQL(t *testing.T) {
	admin, err := auth.NewPlatformAdmin("D'Souza", "Root@Saas.mz", "master")
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSQL(&b, admin))
	sql := b.String()

	assert.Contains(t, sql, "'D''Souza'", "comillas escapadas")
	assert.Contains(t, sql, "'root@saas.mz'", "email normalizado")
	assert.Contains(t, sql, admin.PasswordHash)
	assert.NotContains(t, sql, "master", "nunca la contraseña en claro")
}
