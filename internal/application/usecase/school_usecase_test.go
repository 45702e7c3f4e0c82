package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/escolar/internal/application/usecase"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/infrastructure/memory"
)

func newSchools(t *testing.T, seed ...entity.School) (*usecase.SchoolUseCase, *memory.DB) {
	t.Helper()
	db := memory.New()
	uc := usecase.NewSchoolUseCase(db.Schools(), db)
	if len(seed) > 0 {
		_, err := uc.ReplaceAll(context.Background(), seed)
		require.NoError(t, err)
	}
	return uc, db
}

func TestSchoolUseCase_ListVacia(t *testing.T) {
	uc, _ := newSchools(t)
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list, "la lista vacía se serializa como []")
	assert.Empty(t, list)
}

func TestSchoolUseCase_ReplaceAllConservaAusentes(t *testing.T) {
	uc, db := newSchools(t,
		entity.School{ID: "s1", Name: "Escola 1", AccessCode: "E1"},
		entity.School{ID: "s2", Name: "Escola 2", AccessCode: "E2"},
	)

	fee := decimal.RequireFromString("1500.50")
	out, err := uc.ReplaceAll(context.Background(), []entity.School{
		{ID: "s1", Name: "Escola Uno", AccessCode: "E1", Status: entity.SchoolInDebt,
			Subscription: entity.SchoolSubscription{MonthlyFee: fee}},
	})
	require.NoError(t, err)
	require.Len(t, out, 2, "s2 no viene en la lista pero se conserva")
	assert.Equal(t, "Escola Uno", out[0].Name)
	assert.True(t, fee.Equal(out[0].Subscription.MonthlyFee))
	assert.Equal(t, entity.SchoolActive, out[1].Status, "estado vacío pasa a Ativo")
	assert.Equal(t, []string{"s1", "s2"}, db.SchoolIDs())
}

func TestSchoolUseCase_CodigoDuplicadoEnLista(t *testing.T) {
	uc, _ := newSchools(t)
	_, err := uc.ReplaceAll(context.Background(), []entity.School{
		{ID: "s1", AccessCode: "ABC"},
		{ID: "s2", AccessCode: " abc "},
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate), "códigos iguales sin distinguir mayúsculas")
}

func TestSchoolUseCase_CodigoDuplicadoContraEscuelaConservada(t *testing.T) {
	uc, db := newSchools(t, entity.School{ID: "s1", AccessCode: "ABC"})

	_, err := uc.ReplaceAll(context.Background(), []entity.School{{ID: "s2", AccessCode: "abc"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, []string{"s1"}, db.SchoolIDs(), "la transacción fallida no deja cambios")
}

func TestSchoolUseCase_IntercambioDeCodigosRechazado(t *testing.T) {
	uc, db := newSchools(t,
		entity.School{ID: "s1", AccessCode: "A"},
		entity.School{ID: "s2", AccessCode: "B"},
	)
	_, err := uc.ReplaceAll(context.Background(), []entity.School{
		{ID: "s1", AccessCode: "B"},
		{ID: "s2", AccessCode: "A"},
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate), "el índice único se verifica fila a fila")

	s, err := db.Schools().GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "A", s.AccessCode, "rollback completo")
}

func TestSchoolUseCase_EntradaInvalida(t *testing.T) {
	uc, _ := newSchools(t)
	_, err := uc.ReplaceAll(context.Background(), []entity.School{{ID: "", AccessCode: "X"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.ReplaceAll(context.Background(), []entity.School{{ID: "s1", AccessCode: "X", Status: "Cerrada"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSchoolUseCase_Exists(t *testing.T) {
	uc, _ := newSchools(t, entity.School{ID: "s1", AccessCode: "A"})
	assert.NoError(t, uc.Exists(context.Background(), "s1"))
	assert.True(t, errors.Is(uc.Exists(context.Background(), "nada"), domain.ErrNotFound))
}
