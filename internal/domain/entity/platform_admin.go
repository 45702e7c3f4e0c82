package entity

import "time"

// PlatformAdmin administrador del SaaS (rol SuperAdmin). No pertenece a ninguna escuela
// y se guarda fuera de los snapshots de dominio.
type PlatformAdmin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AsUser identidad que se devuelve en el login.
func (a *PlatformAdmin) AsUser() User {
	return User{ID: a.ID, Name: a.Name, Email: a.Email, Role: RoleSuperAdmin}
}
