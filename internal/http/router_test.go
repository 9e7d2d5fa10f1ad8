package http

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/pipeline"
	httpH "github.com/yungbote/neurobridge-genui/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-genui/internal/http/middleware"
	"github.com/yungbote/neurobridge-genui/internal/observability"
)

func newTestRouter(t *testing.T, maxBytes int64) (*gin.Engine, *observability.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	svc := pipeline.New(nil, pipeline.WithMetrics(m), pipeline.WithBatchLimit(4))
	return NewRouter(RouterConfig{
		Metrics:       m,
		Vocabulary:    capability.DefaultConfig(),
		GenUIHandler:  httpH.NewGenUIHandler(nil, svc, maxBytes),
		HealthHandler: httpH.NewHealthHandler(),
	}), m
}

type wireNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Props    map[string]any `json:"props"`
	Children []wireNode     `json:"children"`
}

type produceResponse struct {
	Tree            wireNode       `json:"tree"`
	Summary         map[string]any `json:"summary"`
	Fallbacks       int            `json:"fallbacks"`
	FallbackTypes   []string       `json:"fallback_types"`
	ProtocolVersion string         `json:"protocol_version"`
}

func (n wireNode) walk(fn func(wireNode)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

func post(r http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t, 0)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	post(r, "/api/genui/produce", `{"kind":"quiz","topic":"T","content":"Q?"}`, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "genui_http_requests_total")
	assert.Contains(t, rec.Body.String(), "genui_fallback_nodes_total")
}

func TestProduceCourseForFullClient(t *testing.T) {
	r, _ := newTestRouter(t, 0)
	body := `{"kind":"course","topic":"Algebra","content":{"title":"Algebra","modules":[{"title":"Linear Equations","lessons":[{"title":"Solving for x"}]}]}}`
	rec := post(r, "/api/genui/produce", body, map[string]string{httpMW.HeaderClientVersion: component.ProtocolVersion})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res produceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "card", res.Tree.Type)
	assert.Zero(t, res.Fallbacks)
	assert.Equal(t, "Algebra", res.Summary["course"].(map[string]any)["title"])
	assert.Equal(t, component.ProtocolVersion, res.ProtocolVersion)
}

func TestProduceForLegacyClient(t *testing.T) {
	r, _ := newTestRouter(t, 0)
	rec := post(r, "/api/genui/produce", `{"kind":"study plan","topic":"Go","content":"- Tour of Go\n- Write a CLI"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res produceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Positive(t, res.Fallbacks)
	legacy := capability.Legacy(capability.DefaultConfig())
	res.Tree.walk(func(n wireNode) {
		assert.True(t, legacy.Supports(component.Type(n.Type)), n.Type)
	})
}

func TestProduceComponentsHeader(t *testing.T) {
	r, _ := newTestRouter(t, 0)
	rec := post(r, "/api/genui/produce", `{"kind":"quiz","topic":"Space","content":{"question":"Largest planet?","options":["Mars","Jupiter"],"answer":"B"}}`,
		map[string]string{httpMW.HeaderComponents: "text,button,vstack,hstack,card,quiz,badge"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res produceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	found := false
	res.Tree.walk(func(n wireNode) {
		if n.Type == "quiz" {
			found = true
			assert.EqualValues(t, 1, n.Props["correct_index"])
		}
	})
	assert.True(t, found)
}

func TestProduceRejectsBadRequests(t *testing.T) {
	r, _ := newTestRouter(t, 64)
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "unknown kind", body: `{"kind":"poem","content":"x"}`, status: http.StatusBadRequest, code: "invalid_kind"},
		{name: "bad json", body: `{"kind":`, status: http.StatusBadRequest, code: "bad_json"},
		{name: "too large", body: `{"kind":"quiz","content":"` + strings.Repeat("x", 200) + `"}`, status: http.StatusRequestEntityTooLarge, code: "payload_too_large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(r, "/api/genui/produce", tc.body, nil)
			assert.Equal(t, tc.status, rec.Code)
			var env struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestProduceStream(t *testing.T) {
	r, _ := newTestRouter(t, 0)
	rec := post(r, "/api/genui/produce?stream=1", `{"kind":"explanation","topic":"Gravity","content":"Things fall."}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

	var events []string
	sc := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for sc.Scan() {
		if name, ok := strings.CutPrefix(sc.Text(), "event:"); ok {
			events = append(events, strings.TrimSpace(name))
		}
	}
	assert.Equal(t, []string{"skeleton", "tree", "done"}, events)
}

func TestProduceBatchEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, 0)
	rec := post(r, "/api/genui/produce/batch", `{"items":[{"kind":"quiz","topic":"A","content":"Q?"},{"kind":"course","topic":"B"}]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Results []struct {
			Kind string   `json:"kind"`
			Tree wireNode `json:"tree"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Results, 2)
	assert.Equal(t, "quiz", res.Results[0].Kind)
	assert.Equal(t, "course", res.Results[1].Kind)

	rec = post(r, "/api/genui/produce/batch", `{"items":[]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = post(r, "/api/genui/produce/batch", `{"items":[{"kind":"nope"}]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSkeletonAndCapabilitiesEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/genui/skeleton?topic=Go", nil)
	req.Header.Set(httpMW.HeaderClientVersion, "1.2.0")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var sk produceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sk))
	assert.Zero(t, sk.Fallbacks)

	req = httptest.NewRequest(http.MethodGet, "/api/genui/capabilities", nil)
	req.Header.Set(httpMW.HeaderCapabilities, `{"version":"1.1.0","platform":"web","components":["text","card"]}`)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var caps struct {
		Client struct {
			Vocabulary []string `json:"vocabulary"`
			Platform   string   `json:"platform"`
			Source     string   `json:"source"`
		} `json:"client"`
		Types []string `json:"types"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &caps))
	assert.Equal(t, []string{"card", "fallback", "text"}, caps.Client.Vocabulary)
	assert.Equal(t, "web", caps.Client.Platform)
	assert.Equal(t, "envelope", caps.Client.Source)
	assert.Len(t, caps.Types, len(component.AllTypes()))
}
