package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
	"github.com/yungbote/neurobridge-genui/internal/genui/pipeline"
	"github.com/yungbote/neurobridge-genui/internal/http/middleware"
	"github.com/yungbote/neurobridge-genui/internal/http/response"
	"github.com/yungbote/neurobridge-genui/internal/platform/apierr"
	"github.com/yungbote/neurobridge-genui/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

const DefaultMaxInputBytes int64 = 2 << 20

type GenUIHandler struct {
	Log      *logger.Logger
	Service  *pipeline.Service
	MaxBytes int64
}

func NewGenUIHandler(log *logger.Logger, svc *pipeline.Service, maxBytes int64) *GenUIHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	return &GenUIHandler{Log: logger.OrNop(log).With("handler", "GenUIHandler"), Service: svc, MaxBytes: maxBytes}
}

type produceBody struct {
	Kind    string          `json:"kind"`
	Topic   string          `json:"topic"`
	Content json.RawMessage `json:"content"`
}

type batchBody struct {
	Items []produceBody `json:"items"`
}

type batchResponse struct {
	Results []pipeline.Result `json:"results"`
}

// POST /api/genui/produce
func (h *GenUIHandler) Produce(c *gin.Context) {
	var body produceBody
	if err := h.decode(c, &body); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req, err := toRequest(body)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	caps := middleware.Capabilities(c)

	if wantsStream(c) {
		h.stream(c, req)
		return
	}
	res := h.Service.Produce(c.Request.Context(), req, caps)
	middleware.RecordFallbacks(c, res.Fallbacks)
	response.RespondOK(c, res)
}

// POST /api/genui/produce/batch
func (h *GenUIHandler) ProduceBatch(c *gin.Context) {
	var body batchBody
	if err := h.decode(c, &body); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	reqs := make([]pipeline.Request, 0, len(body.Items))
	for i, it := range body.Items {
		req, err := toRequest(it)
		if err != nil {
			response.RespondAPIError(c, apierr.BadRequest("invalid_kind", fmt.Errorf("item %d: %w", i, err)))
			return
		}
		reqs = append(reqs, req)
	}

	results, err := h.Service.ProduceBatch(c.Request.Context(), reqs, middleware.Capabilities(c))
	switch {
	case errors.Is(err, pipeline.ErrEmptyBatch), errors.Is(err, pipeline.ErrBatchTooLarge):
		response.RespondAPIError(c, apierr.BadRequest("invalid_batch", err))
		return
	case err != nil:
		h.Log.Warn("batch produce aborted", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondAPIError(c, apierr.Unavailable("aborted", err))
		return
	}
	total := 0
	for _, r := range results {
		total += r.Fallbacks
	}
	middleware.RecordFallbacks(c, total)
	response.RespondOK(c, batchResponse{Results: results})
}

// GET /api/genui/skeleton?topic=
func (h *GenUIHandler) Skeleton(c *gin.Context) {
	response.RespondOK(c, h.Service.Skeleton(c.Query("topic"), middleware.Capabilities(c)))
}

// GET /api/genui/capabilities
func (h *GenUIHandler) Capabilities(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"client":           middleware.Capabilities(c),
		"protocol_version": component.ProtocolVersion,
		"types":            component.AllTypes(),
	})
}

// stream sends the skeleton immediately, then the tree, then done.
func (h *GenUIHandler) stream(c *gin.Context, req pipeline.Request) {
	caps := middleware.Capabilities(c)
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("skeleton", h.Service.Skeleton(req.Topic, caps))
	c.Writer.Flush()

	if err := c.Request.Context().Err(); err != nil {
		return
	}
	res := h.Service.Produce(c.Request.Context(), req, caps)
	middleware.RecordFallbacks(c, res.Fallbacks)
	c.SSEvent("tree", res)
	c.SSEvent("done", gin.H{"fallbacks": res.Fallbacks})
	c.Writer.Flush()
}

func wantsStream(c *gin.Context) bool {
	switch strings.ToLower(c.Query("stream")) {
	case "1", "true", "yes":
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

func (h *GenUIHandler) decode(c *gin.Context, dst any) error {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apierr.TooLarge(fmt.Errorf("%w: limit is %d bytes", pipeline.ErrPayloadTooLarge, tooBig.Limit))
		}
		return apierr.BadRequest("bad_body", fmt.Errorf("read body: %w", err))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apierr.BadRequest("bad_json", fmt.Errorf("decode body: %w", err))
	}
	return nil
}

func toRequest(b produceBody) (pipeline.Request, error) {
	kind, ok := model.ParseKind(b.Kind)
	if !ok {
		return pipeline.Request{}, apierr.BadRequest("invalid_kind", fmt.Errorf("%w: %q", pipeline.ErrInvalidKind, b.Kind))
	}
	return pipeline.Request{Kind: kind, Topic: strings.TrimSpace(b.Topic), Content: decodeContent(b.Content)}, nil
}

// decodeContent turns raw JSON into plain Go values, keeping numbers exact. Anything
// undecodable is passed on as text for the extractor to deal with.
func decodeContent(raw json.RawMessage) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(trimmed)
	}
	return v
}
