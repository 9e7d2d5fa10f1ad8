package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		dep    Pinger
		status int
		check  string
	}{
		{name: "no deps", status: http.StatusOK},
		{name: "healthy", dep: pingFunc(func(context.Context) error { return nil }), status: http.StatusOK, check: "ok"},
		{name: "down", dep: pingFunc(func(context.Context) error { return errors.New("connection refused") }), status: http.StatusServiceUnavailable, check: "connection refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler().WithDependency("tree_cache", tc.dep)
			r := gin.New()
			r.GET("/readyz", h.Ready)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			require.Equal(t, tc.status, rec.Code)

			var body struct {
				Ready  bool              `json:"ready"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.status == http.StatusOK, body.Ready)
			if tc.check != "" {
				assert.Equal(t, tc.check, body.Checks["tree_cache"])
			} else {
				assert.Empty(t, body.Checks)
			}
		})
	}
}
