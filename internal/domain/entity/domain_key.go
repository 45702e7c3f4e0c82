package entity

import (
	"fmt"

	"github.com/jhoicas/escolar/internal/domain"
)

// DomainKey nombre de una categoría de datos de la escuela; cada una se sincroniza como snapshot completo.
type DomainKey string

const (
	DomainUsers         DomainKey = "users"
	DomainStudents      DomainKey = "students"
	DomainAcademicYears DomainKey = "academic_years"
	DomainSettings      DomainKey = "settings"
	DomainFinancial     DomainKey = "financial"
	DomainTurmas        DomainKey = "turmas"
	DomainExpenses      DomainKey = "expenses"
	DomainTopics        DomainKey = "topics"
	DomainMessages      DomainKey = "messages"
	DomainNotifications DomainKey = "notifications"
	DomainRequests      DomainKey = "requests"
)

// DomainKeys todas las claves en el orden del bundle full-data.
var DomainKeys = []DomainKey{
	DomainUsers,
	DomainStudents,
	DomainAcademicYears,
	DomainSettings,
	DomainFinancial,
	DomainTurmas,
	DomainExpenses,
	DomainTopics,
	DomainMessages,
	DomainNotifications,
	DomainRequests,
}

// ParseDomainKey valida una clave recibida desde fuera (rutas HTTP, CLI).
func ParseDomainKey(s string) (DomainKey, error) {
	for _, k := range DomainKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownDomain, s)
}

// IsRecord informa si el dominio es un registro único (objeto) en lugar de una colección.
func (k DomainKey) IsRecord() bool {
	return k == DomainSettings || k == DomainFinancial
}
