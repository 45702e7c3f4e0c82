package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrUnknownDomain = errors.New("dominio desconocido")
	ErrNoSession     = errors.New("no hay sesión activa")
	ErrSchoolBlocked = errors.New("escuela bloqueada")
)

// Mensajes por defecto cuando el servidor no envía uno propio.
const (
	MsgInvalidCredentials = "credenciales o código de escuela inválidos"
	MsgServerUnreachable  = "no se pudo conectar con el servidor"
	MsgBootstrapFailed    = "no se pudo conectar con el servidor central; verifique su conexión o si el backend está activo"
)

// RemoteError fallo de transporte o respuesta no-2xx del almacén remoto.
// Message es el mejor mensaje disponible (el del cuerpo de error o uno genérico).
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int // 0 si el fallo fue de transporte
	Message    string
	Err        error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Err }

// AuthError login rechazado. Es local y recuperable: la sesión sigue anónima.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// BootstrapError el directorio de escuelas no está disponible. Fatal para la aplicación.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap: %v", e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// RemoteMessage extrae el mensaje de un RemoteError de la cadena, o "" si no hay.
func RemoteMessage(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}
