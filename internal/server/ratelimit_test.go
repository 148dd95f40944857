package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter(t *testing.T) {
	l := newIPRateLimiter(60, 2, 10)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// Buckets are per client.
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	l := newIPRateLimiter(0, 0, 0)

	assert.Nil(t, l)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
}

func TestIPRateLimiter_ForgetsOldestClient(t *testing.T) {
	l := newIPRateLimiter(1, 1, 2)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.True(t, l.Allow("c"))

	// "a" was evicted and starts with a full bucket again.
	assert.True(t, l.Allow("a"))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		expected   string
	}{
		{name: "remote addr", remote: "192.0.2.1:1234", expected: "192.0.2.1"},
		{name: "remote addr without port", remote: "192.0.2.1", expected: "192.0.2.1"},
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, remote: "10.0.0.1:80", trustProxy: true, expected: "203.0.113.5"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": " 203.0.113.9 "}, remote: "10.0.0.1:80", trustProxy: true, expected: "203.0.113.9"},
		{name: "forwarded for ignored without proxy", headers: map[string]string{"X-Forwarded-For": "203.0.113.5"}, remote: "198.51.100.7:443", expected: "198.51.100.7"},
		{name: "real ip ignored without proxy", headers: map[string]string{"X-Real-IP": "203.0.113.9"}, remote: "198.51.100.7:443", expected: "198.51.100.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/chat", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, clientIP(req, tt.trustProxy))
		})
	}
}
