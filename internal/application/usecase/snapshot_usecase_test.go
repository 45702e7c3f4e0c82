package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/infrastructure/memory"
)

func newSnapshots(t *testing.T) (*usecase.SnapshotUseCase, *memory.DB) {
	t.Helper()
	db := memory.New()
	_, err := usecase.NewSchoolUseCase(db.Schools(), db).ReplaceAll(context.Background(),
		[]entity.School{{ID: "s1", AccessCode: "ESP"}})
	require.NoError(t, err)
	return usecase.NewSnapshotUseCase(db.Schools(), db.Snapshots()), db
}

func storedUsers(t *testing.T, db *memory.DB) []entity.User {
	t.Helper()
	raw, err := db.Snapshots().Get(context.Background(), "s1", entity.DomainUsers)
	require.NoError(t, err)
	var users []entity.User
	require.NoError(t, json.Unmarshal(raw, &users))
	return users
}

func TestSnapshotUseCase_SyncYFullData(t *testing.T) {
	uc, _ := newSnapshots(t)
	ctx := context.Background()

	require.NoError(t, uc.Sync(ctx, "s1", entity.DomainStudents, json.RawMessage(`[{"id":"st1","name":"Ana","extra":1}]`)))
	require.NoError(t, uc.Sync(ctx, "s1", entity.DomainSettings, json.RawMessage(`{"schoolName":"Escola"}`)))

	bundle, err := uc.FullData(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, bundle, 2, "solo los dominios sincronizados")
	assert.JSONEq(t, `[{"id":"st1","name":"Ana","extra":1}]`, string(bundle[entity.DomainStudents]),
		"el snapshot se guarda tal cual, incluso campos desconocidos")
}

func TestSnapshotUseCase_FormaInvalida(t *testing.T) {
	uc, _ := newSnapshots(t)
	ctx := context.Background()

	err := uc.Sync(ctx, "s1", entity.DomainStudents, json.RawMessage(`{"id":"x"}`))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "una colección exige lista")

	err = uc.Sync(ctx, "s1", entity.DomainFinancial, json.RawMessage(`[]`))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "un registro exige objeto")

	err = uc.Sync(ctx, "s1", entity.DomainStudents, json.RawMessage(`null`))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSnapshotUseCase_EscuelaOClaveDesconocida(t *testing.T) {
	uc, _ := newSnapshots(t)
	ctx := context.Background()

	err := uc.Sync(ctx, "nada", entity.DomainStudents, json.RawMessage(`[]`))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = uc.Sync(ctx, "s1", entity.DomainKey("grades"), json.RawMessage(`[]`))
	assert.True(t, errors.Is(err, domain.ErrUnknownDomain))

	_, err = uc.FullData(ctx, "nada")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSnapshotUseCase_UsersHasheaYConserva(t *testing.T) {
	uc, db := newSnapshots(t)
	ctx := context.Background()

	require.NoError(t, uc.Sync(ctx, "s1", entity.DomainUsers,
		json.RawMessage(`[{"id":"u1","email":"a@s1","password":"secreta","role":"Admin"}]`)))
	users := storedUsers(t, db)
	require.Len(t, users, 1)
	require.NotEqual(t, "secreta", users[0].Password, "nunca se guarda texto plano")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("secreta")))
	hash := users[0].Password

	// el cliente reenvía la colección sin contraseña (tal como la recibió de full-data)
	require.NoError(t, uc.Sync(ctx, "s1", entity.DomainUsers,
		json.RawMessage(`[{"id":"u1","email":"a@s1","role":"Admin"},{"id":"u2","email":"b@s1","role":"Professor"}]`)))
	users = storedUsers(t, db)
	require.Len(t, users, 2)
	assert.Equal(t, hash, users[0].Password, "sin contraseña se conserva el hash")
	assert.Empty(t, users[1].Password, "usuario nuevo sin contraseña queda sin credencial")

	// un hash ya calculado no se vuelve a hashear
	require.NoError(t, uc.Sync(ctx, "s1", entity.DomainUsers,
		json.RawMessage(`[{"id":"u1","email":"a@s1","password":`+string(mustJSON(t, hash))+`,"role":"Admin"}]`)))
	assert.Equal(t, hash, storedUsers(t, db)[0].Password)
}

func TestSnapshotUseCase_UsersEmailDuplicado(t *testing.T) {
	uc, _ := newSnapshots(t)
	err := uc.Sync(context.Background(), "s1", entity.DomainUsers,
		json.RawMessage(`[{"id":"u1","email":"A@s1"},{"id":"u2","email":"a@s1"}]`))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestSnapshotUseCase_FullDataSinContraseñas(t *testing.T) {
	uc, _ := newSnapshots(t)
	ctx := context.Background()
	require.NoError(t, uc.Sync(ctx, "s1", entity.DomainUsers,
		json.RawMessage(`[{"id":"u1","email":"a@s1","password":"secreta","role":"Admin"}]`)))

	bundle, err := uc.FullData(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, string(bundle[entity.DomainUsers]), "password")
}

func TestSnapshotUseCase_Delete(t *testing.T) {
	uc, _ := newSnapshots(t)
	ctx := context.Background()
	require.NoError(t, uc.Sync(ctx, "s1", entity.DomainStudents, json.RawMessage(`[{"id":"st1"}]`)))

	require.NoError(t, uc.Delete(ctx, "s1", entity.DomainStudents))
	bundle, err := uc.FullData(ctx, "s1")
	require.NoError(t, err)
	_, ok := bundle[entity.DomainStudents]
	assert.False(t, ok, "tras borrar, la clave desaparece del bundle")

	assert.NoError(t, uc.Delete(ctx, "s1", entity.DomainStudents), "borrar dos veces no falla")
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
