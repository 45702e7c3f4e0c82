package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

// Asegura que SchoolRepo implementa repository.SchoolRepository.
var _ repository.SchoolRepository = (*SchoolRepo)(nil)

// SchoolRepo directorio de escuelas sobre PostgreSQL.
type SchoolRepo struct {
	q Querier
}

// NewSchoolRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSchoolRepository(q Querier) *SchoolRepo {
	return &SchoolRepo{q: q}
}

const schoolColumns = `id, name, access_code, representative_name, email, contact, status, created_at,
	last_payment_date, monthly_fee, next_due_date, payment_history`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchool(row rowScanner) (*entity.School, error) {
	var (
		s       entity.School
		history []byte
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.AccessCode, &s.RepresentativeName, &s.Email, &s.Contact, &s.Status, &s.CreatedAt,
		&s.Subscription.LastPaymentDate, &s.Subscription.MonthlyFee, &s.Subscription.NextDueDate, &history,
	)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &s.Subscription.PaymentHistory); err != nil {
			return nil, fmt.Errorf("payment_history de %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

// List devuelve todas las escuelas por fecha de alta.
func (r *SchoolRepo) List(ctx context.Context) ([]entity.School, error) {
	rows, err := r.q.Query(ctx, `SELECT `+schoolColumns+` FROM schools ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()

	list := []entity.School{}
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// GetByID obtiene una escuela por ID; nil si no existe.
func (r *SchoolRepo) GetByID(ctx context.Context, id string) (*entity.School, error) {
	s, err := scanSchool(r.q.QueryRow(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school: %w", err)
	}
	return s, nil
}

// GetByAccessCode busca por código de acceso sin distinguir mayúsculas; nil si no existe.
func (r *SchoolRepo) GetByAccessCode(ctx context.Context, code string) (*entity.School, error) {
	s, err := scanSchool(r.q.QueryRow(ctx,
		`SELECT `+schoolColumns+` FROM schools WHERE lower(access_code) = $1`, entity.NormalizeKey(code)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get school by access code: %w", err)
	}
	return s, nil
}

// ReplaceAll inserta o actualiza cada escuela de la lista. Las escuelas ausentes se
// conservan: nunca se eliminan. Debe ejecutarse dentro de una transacción (TxRunner).
func (r *SchoolRepo) ReplaceAll(ctx context.Context, schools []entity.School) error {
	const query = `
		INSERT INTO schools (` + schoolColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			access_code = EXCLUDED.access_code,
			representative_name = EXCLUDED.representative_name,
			email = EXCLUDED.email,
			contact = EXCLUDED.contact,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			last_payment_date = EXCLUDED.last_payment_date,
			monthly_fee = EXCLUDED.monthly_fee,
			next_due_date = EXCLUDED.next_due_date,
			payment_history = EXCLUDED.payment_history,
			updated_at = now()`
	for _, s := range schools {
		history := s.Subscription.PaymentHistory
		if history == nil {
			history = []entity.SubscriptionPayment{}
		}
		historyJSON, err := json.Marshal(history)
		if err != nil {
			return fmt.Errorf("payment_history de %s: %w", s.ID, err)
		}
		status := s.Status
		if status == "" {
			status = entity.SchoolActive
		}
		_, err = r.q.Exec(ctx, query,
			s.ID, s.Name, s.AccessCode, s.RepresentativeName, s.Email, s.Contact, status, s.CreatedAt,
			s.Subscription.LastPaymentDate, s.Subscription.MonthlyFee, s.Subscription.NextDueDate, string(historyJSON),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: código de acceso %q", domain.ErrDuplicate, s.AccessCode)
			}
			return fmt.Errorf("upsert school %s: %w", s.ID, err)
		}
	}
	return nil
}
