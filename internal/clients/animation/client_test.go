package animation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"v":"5.7.4","fr":30,"layers":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, zerolog.Nop())

	asset, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"5.7.4","fr":30,"layers":[]}`, string(asset))
	assert.NotNil(t, client.Load(context.Background()))
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>nope</html>"))
			},
		},
		{
			name: "too large",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`"` + strings.Repeat("a", MaxAssetBytes) + `"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, time.Second, zerolog.Nop())

			_, err := client.Fetch(context.Background())
			assert.Error(t, err)
			assert.Nil(t, client.Load(context.Background()))
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond, zerolog.Nop())

	start := time.Now()
	assert.Nil(t, client.Load(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLoad_Disabled(t *testing.T) {
	client := NewClient("", time.Second, zerolog.Nop())

	assert.Nil(t, client.Load(context.Background()))
	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetch_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second, zerolog.Nop())
	assert.Nil(t, client.Load(context.Background()))
}
