package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/escolar/internal/domain"
)

// SchoolStatus estado comercial de una escuela (tenant).
type SchoolStatus string

const (
	SchoolActive  SchoolStatus = "Ativo"
	SchoolInDebt  SchoolStatus = "Em Divida"
	SchoolBlocked SchoolStatus = "Bloqueado"
	SchoolDemo    SchoolStatus = "Demonstração"
)

// Valid informa si el estado es uno de los conocidos.
func (s SchoolStatus) Valid() bool {
	switch s {
	case SchoolActive, SchoolInDebt, SchoolBlocked, SchoolDemo:
		return true
	}
	return false
}

// SubscriptionPayment un pago de mensualidad del SaaS registrado por el SuperAdmin.
type SubscriptionPayment struct {
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	RecordedBy string          `json:"recordedBy"`
}

// SchoolSubscription cadencia de facturación e historial de pagos (solo se agrega, nunca se edita).
type SchoolSubscription struct {
	LastPaymentDate string                `json:"lastPaymentDate"`
	MonthlyFee      decimal.Decimal       `json:"monthlyFee"`
	NextDueDate     string                `json:"nextDueDate"`
	PaymentHistory  []SubscriptionPayment `json:"paymentHistory"`
}

// School representa una escuela: la unidad de partición de datos (multi-tenant).
// AccessCode es la clave que el usuario escribe en el login; única entre escuelas.
type School struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	AccessCode         string             `json:"accessCode"`
	RepresentativeName string             `json:"representativeName"`
	Email              string             `json:"email"`
	Contact            string             `json:"contact"`
	Status             SchoolStatus       `json:"status"`
	CreatedAt          string             `json:"createdAt"`
	Subscription       SchoolSubscription `json:"subscription"`
}

// RecordPayment agrega un pago al historial y actualiza la fecha del último pago.
func (s *School) RecordPayment(p SubscriptionPayment) {
	s.Subscription.PaymentHistory = append(s.Subscription.PaymentHistory, p)
	s.Subscription.LastPaymentDate = p.Date
}

// Block pasa la escuela a Bloqueado. Las escuelas nunca se eliminan.
func (s *School) Block() { s.Status = SchoolBlocked }

// CanLogin informa si los usuarios de la escuela pueden iniciar sesión.
func (s *School) CanLogin() bool { return s.Status != SchoolBlocked }

// ValidateDirectory verifica el directorio completo: ids y códigos de acceso presentes,
// estados válidos y códigos únicos sin distinguir mayúsculas.
func ValidateDirectory(schools []School) error {
	codes := make(map[string]string, len(schools))
	for _, s := range schools {
		if s.ID == "" {
			return fmt.Errorf("%w: escuela %q sin id", domain.ErrInvalidInput, s.Name)
		}
		code := NormalizeKey(s.AccessCode)
		if code == "" {
			return fmt.Errorf("%w: escuela %s sin código de acceso", domain.ErrInvalidInput, s.ID)
		}
		if s.Status != "" && !s.Status.Valid() {
			return fmt.Errorf("%w: escuela %s: estado desconocido %q", domain.ErrInvalidInput, s.ID, s.Status)
		}
		if prev, ok := codes[code]; ok {
			return fmt.Errorf("%w: código de acceso %q en escuelas %s y %s", domain.ErrDuplicate, code, prev, s.ID)
		}
		codes[code] = s.ID
	}
	return nil
}
