package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestContext(t *testing.T, remoteAddr string, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Request.RemoteAddr = remoteAddr
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestClientIP_ForwardedForChain(t *testing.T) {
	c := requestContext(t, "10.0.0.1:1234", map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.2, 10.0.0.1",
	})
	if got := clientIP(c); got != "203.0.113.7" {
		t.Fatalf("ip = %q, want first forwarded hop", got)
	}
}

func TestClientIP_RealIPFallback(t *testing.T) {
	c := requestContext(t, "10.0.0.1:1234", map[string]string{
		"X-Real-IP": " 198.51.100.4 ",
	})
	if got := clientIP(c); got != "198.51.100.4" {
		t.Fatalf("ip = %q", got)
	}
}

func TestClientIP_RemoteAddrStripsPort(t *testing.T) {
	c := requestContext(t, "192.0.2.9:5555", nil)
	if got := clientIP(c); got != "192.0.2.9" {
		t.Fatalf("ip = %q", got)
	}
}
