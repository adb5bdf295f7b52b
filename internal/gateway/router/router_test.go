package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/internal/gateway/config"
)

func stubBackend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backend", name)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRouterProxiesToBackends(t *testing.T) {
	auth := stubBackend(t, "auth")
	defer auth.Close()
	orders := stubBackend(t, "orders")
	defer orders.Close()
	payments := stubBackend(t, "payments")
	defer payments.Close()

	handler, err := NewRouter(&config.Config{
		AuthServiceURL:     auth.URL,
		OrdersServiceURL:   orders.URL,
		PaymentsServiceURL: payments.URL,
	})
	require.NoError(t, err)

	gateway := httptest.NewServer(handler)
	defer gateway.Close()

	tests := []struct {
		method  string
		path    string
		backend string
	}{
		{http.MethodPost, "/auth/login", "auth"},
		{http.MethodGet, "/auth/validate", "auth"},
		{http.MethodGet, "/orders/1", "orders"},
		{http.MethodGet, "/payments/order/1", "payments"},
		{http.MethodGet, "/payments/total", "payments"},
	}

	for _, tt := range tests {
		req, err := http.NewRequest(tt.method, gateway.URL+tt.path, nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.backend, resp.Header.Get("X-Backend"), "%s %s", tt.method, tt.path)
	}
}

func TestRouterBadBackendURL(t *testing.T) {
	_, err := NewRouter(&config.Config{
		AuthServiceURL:     "://not-a-url",
		OrdersServiceURL:   "http://localhost:8081",
		PaymentsServiceURL: "http://localhost:8082",
	})
	assert.Error(t, err)
}

func TestRouterUnavailableBackend(t *testing.T) {
	backend := stubBackend(t, "orders")
	backendURL := backend.URL
	backend.Close()

	handler, err := NewRouter(&config.Config{
		AuthServiceURL:     backendURL,
		OrdersServiceURL:   backendURL,
		PaymentsServiceURL: backendURL,
	})
	require.NoError(t, err)

	gateway := httptest.NewServer(handler)
	defer gateway.Close()

	resp, err := http.Get(gateway.URL + "/orders/1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
