package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppliesConfiguredTimeout(t *testing.T) {
	srv := New(":8080", http.NewServeMux(), 7*time.Second)
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 7*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 2*time.Minute, srv.IdleTimeout)
}

func TestNewDefaultsZeroTimeout(t *testing.T) {
	srv := New(":8080", nil, 0)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}
