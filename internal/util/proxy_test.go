package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/factbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc(model.ProxyConfig{
		HTTPProxy:  "http://proxy:3128",
		HTTPSProxy: "http://secure-proxy:3129",
		NoProxy:    "localhost, .internal.example",
	})

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"https uses https proxy", "https://api.example.com/v1", "http://secure-proxy:3129"},
		{"http uses http proxy", "http://api.example.com/v1", "http://proxy:3128"},
		{"bypass exact host", "http://localhost:9000/health", ""},
		{"bypass subdomain", "https://vera.internal.example/check", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			got, err := proxy(req)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(5*time.Second, model.ProxyConfig{})
	assert.Equal(t, 5*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Proxy)
}
