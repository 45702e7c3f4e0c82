package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/escolar/internal/domain"
	"github.com/jhoicas/escolar/internal/infrastructure/remote"
	"github.com/jhoicas/escolar/pkg/logger"
)

// newServer levanta un backend falso bajo /api y devuelve el cliente apuntando a él.
func newServer(t *testing.T, h http.HandlerFunc) *remote.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", h)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return remote.NewClient(remote.Options{BaseURL: srv.URL + "/api/"}, logger.Nop())
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/schools", remote.NormalizePath("schools"))
	assert.Equal(t, "/schools", remote.NormalizePath("/schools"))
}

func TestGet_ResuelveRutaSinBarraContraBase(t *testing.T) {
	var gotPath string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"id":"s1"}]`))
	})

	raw, err := c.Get(context.Background(), "schools")
	require.NoError(t, err)
	assert.Equal(t, "/api/schools", gotPath, "la ruta relativa debe colgar del endpoint base")
	assert.JSONEq(t, `[{"id":"s1"}]`, string(raw))
}

func TestPost_EnviaJSON(t *testing.T) {
	var got map[string]string
	var contentType string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	raw, err := c.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "a@b.c", got["email"])
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestPost_RawMessageSeEnviaTalCual(t *testing.T) {
	var body []byte
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Post(context.Background(), "/school/s1/sync/students", json.RawMessage(`[{"id":"st1"}]`))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"st1"}]`, string(body))
}

func TestError_UsaMensajeDelCuerpo(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"DUPLICATE","message":"código repetido"}`))
	})

	_, err := c.Post(context.Background(), "/schools/sync", []string{})
	require.Error(t, err)

	var re *domain.RemoteError
	require.True(t, errors.As(err, &re), "el error debe ser *domain.RemoteError")
	assert.Equal(t, "código repetido", re.Message)
	assert.Equal(t, http.StatusConflict, re.StatusCode)
	assert.Equal(t, "/schools/sync", re.Path)
	assert.Equal(t, http.MethodPost, re.Method)
}

func TestError_SinCuerpoParseableUsaMensajeGenerico(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.Get(context.Background(), "/schools")
	require.Error(t, err)
	assert.Equal(t, "error 502 al obtener datos", err.Error())

	_, err = c.Delete(context.Background(), "/x")
	require.Error(t, err)
	assert.Equal(t, "error 502 al eliminar datos", err.Error())

	_, err = c.Post(context.Background(), "/x", map[string]int{})
	require.Error(t, err)
	assert.Equal(t, "error 502 al enviar datos", err.Error())
}

func TestError_MensajeVacioUsaGenerico(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"   "}`))
	})

	_, err := c.Get(context.Background(), "/schools")
	require.Error(t, err)
	assert.Equal(t, "error 500 al obtener datos", err.Error())
}

func TestError_Transporte(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := remote.NewClient(remote.Options{BaseURL: base}, logger.Nop())
	_, err := c.Get(context.Background(), "/schools")
	require.Error(t, err)

	var re *domain.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 0, re.StatusCode, "sin respuesta HTTP no hay status")
	assert.Equal(t, remote.MsgTransport, re.Message)
	assert.NotNil(t, errors.Unwrap(err), "la causa de transporte debe conservarse")
}

func TestSuccess_CuerpoVacioEsNull(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := c.Delete(context.Background(), "/school/s1/data/students")
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestSuccess_CuerpoNoJSONEsError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`ok`))
	})

	_, err := c.Get(context.Background(), "/schools")
	require.Error(t, err)
	assert.Equal(t, "respuesta no es JSON válido", err.Error())
}

func TestError_SeRegistraEnLog(t *testing.T) {
	var buf lockedBuffer
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := remote.NewClient(remote.Options{BaseURL: srv.URL}, logger.NewWithWriter(&buf))
	_, err := c.Get(context.Background(), "/school/s9/full-data")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"path":"/school/s9/full-data"`)
	assert.Contains(t, out, `"status":404`)
}
