package randomapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("42\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	number, err := client.FetchNumber(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), number)
}

func TestFetchNumberNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchNumber(context.Background())

	assert.Error(t, err)
}

func TestFetchNumberGarbageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a number"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchNumber(context.Background())

	assert.Error(t, err)
}

func TestFetchNumberServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchNumber(context.Background())

	assert.Error(t, err)
}
