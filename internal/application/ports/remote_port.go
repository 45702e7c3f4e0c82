package ports

import (
	"context"
	"encoding/json"
)

// RemoteStore puerto de salida hacia el almacén remoto (API REST del backend).
// Todas las rutas son relativas a un único endpoint base; cualquier fallo llega
// como *domain.RemoteError.
type RemoteStore interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}
