package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/escolar/internal/application/auth"
	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/infrastructure/memory"
)

const superCode = "PLATAFORMA"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.DB) {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	_, err := usecase.NewSchoolUseCase(db.Schools(), db).ReplaceAll(ctx, []entity.School{
		{ID: "s1", Name: "Escola Primária", AccessCode: "ESP2024", Status: entity.SchoolActive},
		{ID: "s2", Name: "Escola Bloqueada", AccessCode: "BLOQ", Status: entity.SchoolBlocked},
	})
	require.NoError(t, err)

	snaps := usecase.NewSnapshotUseCase(db.Schools(), db.Snapshots())
	users := `[{"id":"u1","name":"Admin","email":"Admin@Escola.mz","password":"segredo","role":"Admin"}]`
	require.NoError(t, snaps.Sync(ctx, "s1", entity.DomainUsers, json.RawMessage(users)))
	require.NoError(t, snaps.Sync(ctx, "s2", entity.DomainUsers, json.RawMessage(users)))

	return auth.NewAuthUseCase(db.Schools(), db.Snapshots(), db.Admins(), superCode), db
}

func TestLogin_UsuarioDeEscuela(t *testing.T) {
	uc, _ := newAuth(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{SchoolCode: " esp2024 ", Email: "ADMIN@escola.mz", Password: "segredo"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "s1", resp.User.SchoolID, "la identidad lleva la escuela del código")
	assert.Empty(t, resp.User.Password, "la respuesta nunca lleva contraseña")
	assert.NoError(t, resp.User.ValidateScope())
}

func TestLogin_Rechazos(t *testing.T) {
	uc, _ := newAuth(t)
	cases := []struct {
		name string
		in   dto.LoginRequest
		msg  string
	}{
		{"código inexistente", dto.LoginRequest{SchoolCode: "NADA", Email: "admin@escola.mz", Password: "segredo"}, auth.MsgUnknownSchool},
		{"contraseña incorrecta", dto.LoginRequest{SchoolCode: "ESP2024", Email: "admin@escola.mz", Password: "otra"}, auth.MsgBadPassword},
		{"email desconocido", dto.LoginRequest{SchoolCode: "ESP2024", Email: "x@escola.mz", Password: "segredo"}, auth.MsgBadPassword},
		{"escuela bloqueada", dto.LoginRequest{SchoolCode: "BLOQ", Email: "admin@escola.mz", Password: "segredo"}, auth.MsgBlocked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := uc.Login(context.Background(), tc.in)
			require.NoError(t, err, "un rechazo no es error de transporte")
			assert.False(t, resp.Success)
			assert.Nil(t, resp.User)
			assert.Equal(t, tc.msg, resp.Message)
		})
	}
}

func TestLogin_SuperAdmin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.CreatePlatformAdmin(ctx, "Dono", "Root@Saas.mz", "master")
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{SchoolCode: "plataforma", Email: "root@saas.mz", Password: "master"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, entity.RoleSuperAdmin, resp.User.Role)
	assert.Empty(t, resp.User.SchoolID)
	assert.NoError(t, resp.User.ValidateScope())

	resp, err = uc.Login(ctx, dto.LoginRequest{SchoolCode: superCode, Email: "root@saas.mz", Password: "mal"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestLogin_SuperAdminDeshabilitado(t *testing.T) {
	_, db := newAuth(t)
	uc := auth.NewAuthUseCase(db.Schools(), db.Snapshots(), db.Admins(), "")

	resp, err := uc.Login(context.Background(), dto.LoginRequest{SchoolCode: "", Email: "root@saas.mz", Password: "master"})
	require.NoError(t, err)
	assert.False(t, resp.Success, "sin código configurado no hay login de SuperAdmin")
}

func TestCreatePlatformAdmin_Duplicado(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.CreatePlatformAdmin(ctx, "", "root@saas.mz", "x")
	require.NoError(t, err)

	_, err = uc.CreatePlatformAdmin(ctx, "", "ROOT@saas.mz", "y")
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = auth.NewPlatformAdmin("", "", "x")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := auth.HashPassword("abc")
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(hash))
	assert.False(t, auth.IsHashed("abc"))
	assert.True(t, auth.CheckPassword(hash, "abc"))
	assert.False(t, auth.CheckPassword("", ""), "hash vacío nunca coincide")
}
