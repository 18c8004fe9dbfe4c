package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "https://recipes.example.com",
			allowedOrigins: []string{"https://recipes.example.com"},
			want:           true,
		},
		{
			name:           "wildcard match",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches first",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:*", "https://recipes.example.com"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "https://recipes.example.com",
			allowedOrigins: []string{"http://localhost:*", "https://recipes.example.com"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			want:           false,
		},
		{
			name:           "localhost any port",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:*"},
			want:           true,
		},
		{
			name:           "partial wildcard match",
			origin:         "https://staging.recipes.example.com",
			allowedOrigins: []string{"https://staging.*"},
			want:           true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		method         string
		wantStatus     int
		wantCORS       bool
	}{
		{
			name:           "allowed origin - GET request",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:*"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantCORS:       true,
		},
		{
			name:           "allowed origin - OPTIONS request",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:*"},
			method:         "OPTIONS",
			wantStatus:     http.StatusNoContent,
			wantCORS:       true,
		},
		{
			name:           "disallowed origin is rejected",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:*"},
			method:         "GET",
			wantStatus:     http.StatusForbidden,
			wantCORS:       false,
		},
		{
			name:           "no origin header",
			origin:         "",
			allowedOrigins: []string{"http://localhost:*"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantCORS:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(tt.allowedOrigins))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				assert.Equal(t, tt.origin, corsHeader)
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, corsHeader)
			}
		})
	}
}

func TestCORSMiddleware_PreflightRequest(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:*"}))
	router.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(perMinute, burst int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimitMiddleware(perMinute, burst))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
		return router
	}

	request := func(router *gin.Engine, remoteAddr string) int {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("rejects requests over the burst", func(t *testing.T) {
		router := newRouter(60, 2)

		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusTooManyRequests, request(router, "10.0.0.1:1234"))
	})

	t.Run("limits each client separately", func(t *testing.T) {
		router := newRouter(60, 1)

		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusTooManyRequests, request(router, "10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, request(router, "10.0.0.2:1234"))
	})

	t.Run("zero disables limiting", func(t *testing.T) {
		router := newRouter(0, 0)

		for i := 0; i < 50; i++ {
			require.Equal(t, http.StatusOK, request(router, "10.0.0.1:1234"))
		}
	})
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	start := time.Now()
	limiters := newIPRateLimiter(60, 1, time.Minute)

	limiters.get("10.0.0.1", start)
	limiters.get("10.0.0.2", start.Add(30*time.Second))
	require.Equal(t, 2, limiters.size())

	// No sweep before a full idle TTL has passed
	limiters.get("10.0.0.2", start.Add(50*time.Second))
	assert.Equal(t, 2, limiters.size())

	// 10.0.0.1 has been idle for a full minute, 10.0.0.2 for 30s
	limiters.get("10.0.0.3", start.Add(80*time.Second))
	assert.Equal(t, 2, limiters.size())

	limiters.mu.Lock()
	_, kept := limiters.limiters["10.0.0.1"]
	limiters.mu.Unlock()
	assert.False(t, kept)
}

func TestIPRateLimiter_KeepsBucketsUntilRefilled(t *testing.T) {
	// 1 request per minute with a burst of 5 refills in 5 minutes
	limiters := newIPRateLimiter(1, 5, time.Minute)
	assert.InDelta(t, float64(5*time.Minute), float64(limiters.idleTTL), float64(time.Millisecond))
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
}
