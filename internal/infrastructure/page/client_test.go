package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient(Options{UserAgent: "test-agent", AcceptLanguage: "tr-TR"})

	assert.NotNil(t, client)
	assert.Equal(t, "test-agent", client.userAgent)
	assert.Equal(t, "tr-TR", client.acceptLanguage)
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient(Options{})

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/acme/kettle-p-1", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "tr-TR,tr;q=0.9", r.Header.Get("Accept-Language"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		assert.Equal(t, "identity", r.Header.Get("Accept-Encoding"))

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><title>Kettle</title></html>"))
	}))
	defer server.Close()

	client := NewClient(Options{UserAgent: "test-agent", AcceptLanguage: "tr-TR,tr;q=0.9"})

	body, err := client.Fetch(context.Background(), server.URL+"/acme/kettle-p-1")

	require.NoError(t, err)
	assert.Equal(t, "<html><title>Kettle</title></html>", body)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	statuses := []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			client := NewClient(Options{})
			body, err := client.Fetch(context.Background(), server.URL)

			assert.Empty(t, body)
			assert.ErrorIs(t, err, domain.ErrFetch)
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	client := NewClient(Options{Timeout: 20 * time.Millisecond})
	_, err := client.Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestFetch_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := NewClient(Options{Timeout: time.Second})
	_, err := client.Fetch(context.Background(), addr)

	assert.ErrorIs(t, err, domain.ErrFetch)
}
