package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c.Request.Context()))
	})
	r.POST("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		config         CORSConfig
		origin         string
		method         string
		expectedOrigin string
		expectedStatus int
		expectedBody   string
		expectCreds    bool
	}{
		{
			name:           "wildcard allows any origin",
			config:         DefaultCORSConfig(),
			origin:         "https://nexhub.dev",
			method:         http.MethodPost,
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:           "preflight returns 200 with empty body",
			config:         DefaultCORSConfig(),
			origin:         "https://nexhub.dev",
			method:         http.MethodOptions,
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
			expectedBody:   "",
		},
		{
			name: "subdomain wildcard",
			config: CORSConfig{
				AllowedOrigins:   []string{"*.nexhub.dev"},
				AllowedMethods:   []string{"POST"},
				AllowCredentials: true,
			},
			origin:         "https://www.nexhub.dev",
			method:         http.MethodPost,
			expectedOrigin: "https://www.nexhub.dev",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
			expectCreds:    true,
		},
		{
			name: "origin not allowed",
			config: CORSConfig{
				AllowedOrigins: []string{"https://nexhub.dev"},
				AllowedMethods: []string{"POST"},
			},
			origin:         "https://evil.example",
			method:         http.MethodPost,
			expectedOrigin: "",
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(CORS(tt.config))
			req := httptest.NewRequest(tt.method, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
			assert.Equal(t, tt.expectedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
			if tt.expectCreds {
				assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestDefaultCORSConfig_Methods(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.ElementsMatch(t, []string{"GET", "POST", "OPTIONS"}, cfg.AllowedMethods)
	assert.Contains(t, cfg.AllowedHeaders, "Content-Type")
}

func TestRequestID_Generated(t *testing.T) {
	r := newEngine(RequestID())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := rec.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	r := newEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", rec.Body.String())
}
