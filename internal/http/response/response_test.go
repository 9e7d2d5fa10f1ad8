package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-genui/internal/platform/apierr"
	"github.com/yungbote/neurobridge-genui/internal/platform/ctxutil"
)

func respond(t *testing.T, err error, td *ctxutil.TraceData) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if td != nil {
		req = req.WithContext(ctxutil.WithTraceData(req.Context(), td))
	}
	c.Request = req

	RespondAPIError(c, err)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestRespondAPIError(t *testing.T) {
	status, env := respond(t, apierr.BadRequest("invalid_kind", errors.New("bad kind")), &ctxutil.TraceData{RequestID: "req-1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_kind", env.Error.Code)
	assert.Equal(t, "req-1", env.Error.RequestID)
	assert.Contains(t, env.Error.Message, "bad kind")
}

func TestRespondAPIErrorHidesUnknownErrors(t *testing.T) {
	status, env := respond(t, errors.New("dial tcp 10.0.0.1: refused"), nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "10.0.0.1")
	assert.Empty(t, env.Error.RequestID)
}
