package entity_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "abc", entity.NormalizeKey("  ABC "))
	assert.Equal(t, "escola.são@mz", entity.NormalizeKey("Escola.SÃO@MZ"))
	// NFD (a + acento combinado) y NFC son la misma clave
	assert.Equal(t, entity.NormalizeKey("s\u00e3o"), entity.NormalizeKey("SA\u0303O"))
}

func TestValidateScope(t *testing.T) {
	cases := []struct {
		name string
		user *entity.User
		ok   bool
	}{
		{"admin con escuela", &entity.User{Role: entity.RoleAdmin, SchoolID: "s1"}, true},
		{"superadmin sin escuela", &entity.User{Role: entity.RoleSuperAdmin}, true},
		{"admin sin escuela", &entity.User{Role: entity.RoleAdmin}, false},
		{"superadmin con escuela", &entity.User{Role: entity.RoleSuperAdmin, SchoolID: "s1"}, false},
		{"rol desconocido", &entity.User{Role: "Diretor", SchoolID: "s1"}, false},
		{"nulo", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.ValidateScope()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateUsers_EmailUnicoPorEscuela(t *testing.T) {
	assert.NoError(t, entity.ValidateUsers([]entity.User{
		{ID: "u1", Email: "a@s1"}, {ID: "u2", Email: "b@s1"}, {ID: "u3"}, {ID: "u4"},
	}), "emails vacíos no cuentan")

	err := entity.ValidateUsers([]entity.User{{ID: "u1", Email: "A@s1"}, {ID: "u2", Email: " a@s1"}})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestValidateDirectory(t *testing.T) {
	assert.NoError(t, entity.ValidateDirectory(nil))
	assert.NoError(t, entity.ValidateDirectory([]entity.School{
		{ID: "s1", AccessCode: "A"}, {ID: "s2", AccessCode: "B", Status: entity.SchoolDemo},
	}))

	err := entity.ValidateDirectory([]entity.School{{ID: "s1", AccessCode: "abc"}, {ID: "s2", AccessCode: "ABC"}})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	err = entity.ValidateDirectory([]entity.School{{ID: "s1", AccessCode: "  "}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSchool_PagosYBloqueo(t *testing.T) {
	s := entity.School{ID: "s1", Status: entity.SchoolInDebt}
	assert.True(t, s.CanLogin(), "en deuda todavía puede entrar")

	s.RecordPayment(entity.SubscriptionPayment{Date: "2024-03-01", Amount: decimal.NewFromInt(1500), Method: "M-Pesa"})
	s.RecordPayment(entity.SubscriptionPayment{Date: "2024-04-01", Amount: decimal.NewFromInt(1500), Method: "M-Pesa"})
	assert.Len(t, s.Subscription.PaymentHistory, 2, "el historial solo crece")
	assert.Equal(t, "2024-04-01", s.Subscription.LastPaymentDate)

	s.Block()
	assert.False(t, s.CanLogin())
}

func TestDecimalSeSerializaComoNumero(t *testing.T) {
	b, err := json.Marshal(entity.SubscriptionPayment{Amount: decimal.RequireFromString("1500.50")})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":1500.5`)
}

func TestParseDomainKey(t *testing.T) {
	for _, k := range entity.DomainKeys {
		got, err := entity.ParseDomainKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := entity.ParseDomainKey("grades")
	assert.True(t, errors.Is(err, domain.ErrUnknownDomain))

	assert.True(t, entity.DomainSettings.IsRecord())
	assert.True(t, entity.DomainFinancial.IsRecord())
	assert.False(t, entity.DomainStudents.IsRecord())
}

func TestNotificaciones(t *testing.T) {
	existing := []entity.Notification{{ID: "n1"}, {ID: "n2"}}

	merged := entity.PrependNotifications(existing, []entity.Notification{{ID: "n3"}})
	require.Len(t, merged, 3)
	assert.Equal(t, "n3", merged[0].ID, "las nuevas van primero")
	assert.Len(t, existing, 2, "el original no cambia")

	read := entity.MarkNotificationRead(existing, "n2")
	assert.True(t, read[1].Read)
	assert.False(t, existing[1].Read, "devuelve una colección nueva")

	assert.Equal(t, existing, entity.MarkNotificationRead(existing, "nada"))
}

func TestPlatformAdmin_AsUser(t *testing.T) {
	a := entity.PlatformAdmin{ID: "p1", Name: "Dono", Email: "root@saas", PasswordHash: "$2a$..."}
	u := a.AsUser()
	assert.Equal(t, entity.RoleSuperAdmin, u.Role)
	assert.Empty(t, u.Password)
	assert.NoError(t, u.ValidateScope())
}
