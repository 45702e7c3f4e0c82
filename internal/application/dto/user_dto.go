package dto

import "github.com/jhoicas/escolar/internal/domain/entity"

// LoginRequest entrada de /auth/login. SchoolCode y Email viajan ya normalizados.
type LoginRequest struct {
	SchoolCode string `json:"schoolCode"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// LoginResponse salida de /auth/login. Success=false no es un error de transporte.
type LoginResponse struct {
	Success bool         `json:"success"`
	User    *entity.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// SessionResponse salida del login en la fachada local: token de sesión + identidad.
type SessionResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// StatusResponse estado global que la capa de presentación dibuja.
type StatusResponse struct {
	Loading         bool         `json:"loading"`
	Syncing         bool         `json:"syncing"`
	ConnectionError string       `json:"connectionError,omitempty"`
	LoginError      string       `json:"loginError,omitempty"`
	Authenticated   bool         `json:"authenticated"`
	User            *entity.User `json:"user,omitempty"`
}
