package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientMetaPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/chats/1", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	req.Header.Set("X-Device-Id", "phone")
	req.Header.Set("X-Request-Id", "req-9")

	meta := ClientMetaFromRequest(req)
	assert.Equal(t, ClientMeta{DeviceID: "phone", RequestID: "req-9", IP: "10.0.0.1"}, meta)
}

func TestClientMetaFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.5:4321"

	assert.Equal(t, "192.168.1.5", ClientMetaFromRequest(req).IP)
}
