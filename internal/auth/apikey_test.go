package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(keys map[string]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyMiddleware(keys))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, Operator(c))
	})
	return r
}

func TestAPIKeyMiddleware(t *testing.T) {
	keys := map[string]string{"secret-1": "ops"}

	tests := []struct {
		name       string
		keys       map[string]string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid key", keys, "secret-1", http.StatusOK, "ops"},
		{"valid key with spaces", keys, "  secret-1 ", http.StatusOK, "ops"},
		{"wrong key", keys, "nope", http.StatusUnauthorized, ""},
		{"missing key", keys, "", http.StatusUnauthorized, ""},
		{"no keys configured", nil, "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rec := httptest.NewRecorder()
			newEngine(tt.keys).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.JSONEq(t, `{"success":false,"message":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}
