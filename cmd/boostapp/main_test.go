package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	mux := chi.NewRouter()
	mux.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"ok","user":{"id":1,"name":"Ana","email":"ana@example.com"},"token":"tok"}`)
	})
	mux.Get("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `[{"id":9,"status":"paid","provider":"stripe","total_amount":1999,"currency":"MXN","items":[]}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupEnv(t *testing.T, baseURL string) {
	t.Setenv("BOOST_API_BASE_URL", baseURL)
	t.Setenv("BOOST_SESSION_BACKEND", "sqlite")
	t.Setenv("BOOST_SESSION_PATH", filepath.Join(t.TempDir(), "session.db"))
	t.Setenv("BOOST_LOG_LEVEL", "error")
}

func runCmd(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"-env", filepath.Join(t.TempDir(), "missing.env")}, args...)
	code := run(args, &out, &errOut)
	return code, out.String() + errOut.String()
}

func TestRun_LoginPersistsAcrossInvocations(t *testing.T) {
	srv := fakeAPI(t)
	setupEnv(t, srv.URL)

	code, out := runCmd(t, "orders")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Sesión expirada")

	code, out = runCmd(t, "login", "-email", "ana@example.com", "-password", "secret1")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Hola, Ana")

	code, out = runCmd(t, "orders")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Pedido #1")
	assert.Contains(t, out, "$19.99 MXN")

	code, out = runCmd(t, "link", "gamingboost://payment-result?order_id=9&status=paid")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Pedido #9 pagado")
}

func TestRun_Usage(t *testing.T) {
	srv := fakeAPI(t)
	setupEnv(t, srv.URL)

	code, out := runCmd(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "usage: boostapp")

	code, _ = runCmd(t, "dance")
	assert.Equal(t, 2, code)

	code, _ = runCmd(t, "buy")
	assert.Equal(t, 2, code, "buy needs -boost")
}

func TestRun_BadLink(t *testing.T) {
	srv := fakeAPI(t)
	setupEnv(t, srv.URL)

	code, out := runCmd(t, "link", "otherapp://payment-result?order_id=1")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not a payment-result link")
}
