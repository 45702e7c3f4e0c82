package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/escolar/internal/application/dto"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/domain/entity"
	"github.com/jhoicas/escolar/internal/domain/repository"
)

// Mensajes de rechazo; viajan en LoginResponse.Message.
const (
	MsgUnknownSchool = "código de escuela inválido"
	MsgBadPassword   = "email o contraseña incorrectos"
	MsgBlocked       = "escuela bloqueada; contacte al administrador de la plataforma"
)

// AuthUseCase login del almacén remoto: usuarios de escuela contra el snapshot "users"
// y SuperAdmin contra platform_admins.
type AuthUseCase struct {
	schools        repository.SchoolRepository
	snapshots      repository.SnapshotRepository
	admins         repository.PlatformAdminRepository
	superAdminCode string
}

// NewAuthUseCase construye el caso de uso de auth. superAdminCode vacío deshabilita el login de SuperAdmin.
func NewAuthUseCase(
	schools repository.SchoolRepository,
	snapshots repository.SnapshotRepository,
	admins repository.PlatformAdminRepository,
	superAdminCode string,
) *AuthUseCase {
	return &AuthUseCase{schools: schools, snapshots: snapshots, admins: admins, superAdminCode: superAdminCode}
}

// Login verifica código de escuela, email y contraseña. Un rechazo no es error:
// devuelve Success=false con el motivo. El usuario devuelto nunca lleva contraseña.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	code := entity.NormalizeKey(in.SchoolCode)
	email := entity.NormalizeKey(in.Email)

	if uc.superAdminCode != "" && code == entity.NormalizeKey(uc.superAdminCode) {
		return uc.loginSuperAdmin(ctx, email, in.Password)
	}

	school, err := uc.schools.GetByAccessCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return rejected(MsgUnknownSchool), nil
	}
	if !school.CanLogin() {
		return rejected(MsgBlocked), nil
	}

	users, err := uc.schoolUsers(ctx, school.ID)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if entity.NormalizeKey(u.Email) != email {
			continue
		}
		if !CheckPassword(u.Password, in.Password) {
			return rejected(MsgBadPassword), nil
		}
		u.SchoolID = school.ID
		user := u.WithoutPassword()
		return &dto.LoginResponse{Success: true, User: &user}, nil
	}
	return rejected(MsgBadPassword), nil
}

func (uc *AuthUseCase) loginSuperAdmin(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	admin, err := uc.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil || !CheckPassword(admin.PasswordHash, password) {
		return rejected(MsgBadPassword), nil
	}
	user := admin.AsUser()
	return &dto.LoginResponse{Success: true, User: &user}, nil
}

func (uc *AuthUseCase) schoolUsers(ctx context.Context, schoolID string) ([]entity.User, error) {
	raw, err := uc.snapshots.Get(ctx, schoolID, entity.DomainUsers)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var users []entity.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("snapshot users de %s: %w", schoolID, err)
	}
	return users, nil
}

// CreatePlatformAdmin registra un SuperAdmin nuevo.
func (uc *AuthUseCase) CreatePlatformAdmin(ctx context.Context, name, email, password string) (*entity.PlatformAdmin, error) {
	admin, err := NewPlatformAdmin(name, email, password)
	if err != nil {
		return nil, err
	}
	if err := uc.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// NewPlatformAdmin arma el registro con id nuevo y la contraseña hasheada.
func NewPlatformAdmin(name, email, password string) (*entity.PlatformAdmin, error) {
	email = entity.NormalizeKey(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}
	return &entity.PlatformAdmin{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// HashPassword bcrypt con el costo por defecto.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compara contra un hash bcrypt. Un hash vacío nunca coincide.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsHashed informa si el valor ya es un hash bcrypt.
func IsHashed(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

func rejected(msg string) *dto.LoginResponse {
	return &dto.LoginResponse{Success: false, Message: msg}
}
