// Package remotetest ofrece un RemoteStore en memoria para tests de la capa de aplicación.
package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jhoicas/escolar/internal/application/ports"
	"github.com/jhoicas/escolar/internal/domain"
)

var _ ports.RemoteStore = (*Fake)(nil)

// Call petición registrada por Fake.
type Call struct {
	Method string
	Path   string
	Body   json.RawMessage
}

// Handler responde una petición; body es el JSON enviado (nil en GET/DELETE).
type Handler func(ctx context.Context, body json.RawMessage) (json.RawMessage, error)

// Fake RemoteStore programable por método y ruta. Las rutas sin handler responden 404.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

// New construye un Fake vacío.
func New() *Fake {
	return &Fake{handlers: make(map[string]Handler)}
}

// On registra el handler de method+path.
func (f *Fake) On(method, path string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
	return f
}

// OnJSON registra una respuesta fija (v se serializa a JSON).
func (f *Fake) OnJSON(method, path string, v any) *Fake {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return f.On(method, path, func(context.Context, json.RawMessage) (json.RawMessage, error) {
		return b, nil
	})
}

// OnError registra un fallo fijo como *domain.RemoteError.
func (f *Fake) OnError(method, path string, status int, msg string) *Fake {
	return f.On(method, path, func(context.Context, json.RawMessage) (json.RawMessage, error) {
		return nil, &domain.RemoteError{Method: method, Path: path, StatusCode: status, Message: msg}
	})
}

// Calls copia de las peticiones recibidas, en orden.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo peticiones recibidas para method+path.
func (f *Fake) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return f.serve(ctx, http.MethodGet, path, nil)
}

func (f *Fake) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return f.serve(ctx, http.MethodPost, path, b)
}

func (f *Fake) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return f.serve(ctx, http.MethodDelete, path, nil)
}

func (f *Fake) serve(ctx context.Context, method, path string, body json.RawMessage) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: body})
	h, ok := f.handlers[method+" "+path]
	f.mu.Unlock()
	if !ok {
		return nil, &domain.RemoteError{
			Method: method, Path: path, StatusCode: http.StatusNotFound,
			Message: fmt.Sprintf("error %d al obtener datos", http.StatusNotFound),
		}
	}
	return h(ctx, body)
}
