package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"tip-core/internal/handler"
	"tip-core/internal/testutil"
)

func TestNewHTTPRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	r := NewHTTPRouter(Handlers{
		Tip: handler.NewTipHandler(nil, db, time.Second),
		QR:  handler.NewQRHandler(db),
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/health", http.StatusOK, "UP"},
		{"/api/v1/ping", http.StatusOK, "pong"},
		{"/api/v1/chains", http.StatusOK, "base"},
		{"/metrics", http.StatusOK, "http_requests_total"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.body), w.Body.String())
		})
	}
}
