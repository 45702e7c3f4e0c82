// Package remote implementa el puerto RemoteStore sobre HTTP+JSON usando resty.
//
// Contrato:
//   - todas las rutas se resuelven contra un único endpoint base (se agrega la
//     barra inicial si falta);
//   - cualquier fallo (transporte o status no-2xx) llega como *domain.RemoteError;
//   - no hay reintentos automáticos;
//   - cada fallo se registra con endpoint y causa.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/escolar/internal/application/ports"
	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa RemoteStore.
var _ ports.RemoteStore = (*Client)(nil)

// Client adaptador HTTP del almacén remoto.
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// Options configuración del cliente. Timeout 0 = sin límite propio (el del transporte).
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// NewClient construye el cliente contra opts.BaseURL.
func NewClient(opts Options, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("remote")
	c := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if opts.Transport != nil {
		c.SetTransport(opts.Transport)
	}
	return &Client{http: c, log: log}
}

// NormalizePath garantiza la barra inicial de una ruta relativa.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// Get lee un recurso.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post escribe body como JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Delete elimina un recurso.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// errorBody convención de error del backend: {message?: string}.
type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	endpoint := NormalizePath(path)

	req := c.http.R().SetContext(ctx)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(method, endpoint, 0, fmt.Sprintf("no se pudo serializar el cuerpo: %v", err), err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		msg := MsgTransport
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			msg = "la petición fue cancelada o excedió el tiempo límite"
		}
		return nil, c.fail(method, endpoint, 0, msg, err)
	}

	raw := resp.Body()
	if !resp.IsSuccess() {
		var eb errorBody
		msg := ""
		if jsonErr := json.Unmarshal(raw, &eb); jsonErr == nil {
			msg = strings.TrimSpace(eb.Message)
		}
		if msg == "" {
			msg = genericStatusMessage(method, resp.StatusCode())
		}
		return nil, c.fail(method, endpoint, resp.StatusCode(), msg, fmt.Errorf("HTTP %d", resp.StatusCode()))
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		return nil, c.fail(method, endpoint, resp.StatusCode(), "respuesta no es JSON válido", nil)
	}
	return json.RawMessage(raw), nil
}

// MsgTransport mensaje cuando no hubo respuesta HTTP.
const MsgTransport = "fallo de red al contactar el servidor"

func genericStatusMessage(method string, status int) string {
	switch method {
	case http.MethodGet:
		return fmt.Sprintf("error %d al obtener datos", status)
	case http.MethodDelete:
		return fmt.Sprintf("error %d al eliminar datos", status)
	default:
		return fmt.Sprintf("error %d al enviar datos", status)
	}
}

func (c *Client) fail(method, endpoint string, status int, msg string, cause error) error {
	c.log.Error().
		Err(cause).
		Str("method", method).
		Str("path", endpoint).
		Int("status", status).
		Msg(msg)
	return &domain.RemoteError{
		Method:     method,
		Path:       endpoint,
		StatusCode: status,
		Message:    msg,
		Err:        cause,
	}
}

// restyLogger redirige los mensajes internos de resty a zerolog.
type restyLogger struct {
	log *logger.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(format), v...)
}
