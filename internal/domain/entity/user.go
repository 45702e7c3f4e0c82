package entity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/escolar/internal/domain"
)

// Role rol de un usuario dentro de la plataforma.
type Role string

// Roles válidos para User. SuperAdmin administra todas las escuelas (dueño del SaaS);
// el resto siempre pertenece a una escuela.
const (
	RoleSuperAdmin  Role = "SuperAdmin"
	RoleAdmin       Role = "Admin"
	RoleSecretaria  Role = "Secretaria"
	RoleEncarregado Role = "Encarregado"
	RoleProfessor   Role = "Professor"
)

// Valid informa si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSecretaria, RoleEncarregado, RoleProfessor:
		return true
	}
	return false
}

// TeacherCategory vínculo laboral de un profesor.
type TeacherCategory string

const (
	TeacherEfetivo    TeacherCategory = "Efetivo"
	TeacherContratado TeacherCategory = "Contratado"
	TeacherEstagiario TeacherCategory = "Estagiário"
)

// Shift turno (mañana, tarde, noche). Se usa tanto para disponibilidad como para turmas.
type Shift string

const (
	ShiftManha Shift = "Manhã"
	ShiftTarde Shift = "Tarde"
	ShiftNoite Shift = "Noite"
)

// User representa la identidad autenticada (y también cada registro del dominio "users").
// SchoolID vacío solo es válido para RoleSuperAdmin.
type User struct {
	ID               string          `json:"id"`
	SchoolID         string          `json:"schoolId,omitempty"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Password         string          `json:"password,omitempty"` // texto plano en tránsito; el servidor guarda bcrypt
	Role             Role            `json:"role"`
	AvatarURL        string          `json:"avatarUrl,omitempty"`
	Contact          string          `json:"contact,omitempty"`
	Address          string          `json:"address,omitempty"`
	BirthDate        string          `json:"birthDate,omitempty"`
	Category         TeacherCategory `json:"category,omitempty"`
	Education        string          `json:"education,omitempty"`
	Specialization   string          `json:"specialization,omitempty"`
	OtherOccupations string          `json:"otherOccupations,omitempty"`
	Availability     []Shift         `json:"availability,omitempty"`
}

// IsSuperAdmin informa si la identidad no está ligada a ninguna escuela.
func (u *User) IsSuperAdmin() bool { return u != nil && u.Role == RoleSuperAdmin }

// ValidateScope verifica que se cumpla exactamente uno de {SchoolID presente, Role == SuperAdmin}.
func (u *User) ValidateScope() error {
	if u == nil {
		return fmt.Errorf("usuario nulo")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("rol desconocido %q", u.Role)
	}
	hasSchool := strings.TrimSpace(u.SchoolID) != ""
	if hasSchool == u.IsSuperAdmin() {
		if hasSchool {
			return fmt.Errorf("un SuperAdmin no puede pertenecer a una escuela")
		}
		return fmt.Errorf("el rol %s requiere schoolId", u.Role)
	}
	return nil
}

// WithoutPassword devuelve una copia sin credenciales, apta para respuestas.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// NormalizeKey aplica trim + minúsculas (Unicode NFC) a códigos de acceso y emails,
// de modo que "  ABC " y "abc" sean la misma clave.
func NormalizeKey(s string) string {
	// cases.Caser no se comparte entre goroutines.
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// ValidateUsers verifica que el email sea único dentro de la escuela (no globalmente).
func ValidateUsers(users []User) error {
	seen := make(map[string]string, len(users))
	for _, u := range users {
		email := NormalizeKey(u.Email)
		if email == "" {
			continue
		}
		if prev, ok := seen[email]; ok {
			return fmt.Errorf("%w: email %q en usuarios %s y %s", domain.ErrDuplicate, email, prev, u.ID)
		}
		seen[email] = u.ID
	}
	return nil
}
