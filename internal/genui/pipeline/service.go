package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/neurobridge-genui/internal/genui/adapt"
	"github.com/yungbote/neurobridge-genui/internal/genui/cache"
	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/contenthash"
	"github.com/yungbote/neurobridge-genui/internal/genui/extract"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
	"github.com/yungbote/neurobridge-genui/internal/genui/render"
	"github.com/yungbote/neurobridge-genui/internal/observability"
	"github.com/yungbote/neurobridge-genui/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

var (
	ErrInvalidKind     = errors.New("invalid content kind")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrBatchTooLarge   = errors.New("batch too large")
	ErrEmptyBatch      = errors.New("empty batch")
)

const (
	DefaultBatchLimit   = 32
	defaultConcurrency  = 4
	defaultFallbackKind = model.KindExplanation
)

// Request is one produce call: untrusted content, its kind, and a topic to fall back on.
type Request struct {
	Kind    model.Kind `json:"kind"`
	Topic   string     `json:"topic"`
	Content any        `json:"content"`
}

// Result is an adapted tree ready for the wire.
type Result struct {
	Kind            model.Kind            `json:"kind"`
	Tree            *component.Node       `json:"tree"`
	Summary         *render.CourseSummary `json:"summary,omitempty"`
	Fallbacks       int                   `json:"fallbacks"`
	FallbackTypes   []component.Type      `json:"fallback_types"`
	ProtocolVersion string                `json:"protocol_version"`
	Cached          bool                  `json:"-"`
}

// Service is the chokepoint: every generative payload goes extract, render, adapt through here.
type Service struct {
	log         *logger.Logger
	extractor   *extract.Extractor
	producer    *render.Producer
	adapter     *adapt.Adapter
	cache       cache.Cache
	metrics     *observability.Metrics
	vocab       capability.Provider
	concurrency int
	batchLimit  int
	tracer      trace.Tracer
	flight      singleflight.Group
}

type Option func(*Service)

func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithVocabulary(cfg capability.Config) Option {
	return func(s *Service) { s.vocab = cfg }
}

// WithVocabularyProvider reads the vocabulary on every call, so a reloading Store takes effect
// without a restart.
func WithVocabularyProvider(p capability.Provider) Option {
	return func(s *Service) { s.vocab = p }
}

func WithBatchConcurrency(n int) Option {
	return func(s *Service) { s.concurrency = n }
}

func WithBatchLimit(n int) Option {
	return func(s *Service) { s.batchLimit = n }
}

func New(log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		log:         logger.OrNop(log).With("service", "GenUIPipeline"),
		cache:       cache.Nop{},
		vocab:       capability.DefaultConfig(),
		concurrency: defaultConcurrency,
		batchLimit:  DefaultBatchLimit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.vocab == nil {
		s.vocab = capability.DefaultConfig()
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultConcurrency
	}
	if s.batchLimit <= 0 {
		s.batchLimit = DefaultBatchLimit
	}
	s.tracer = observability.Tracer()

	m := s.metrics
	s.extractor = extract.New(s.log, extract.WithObserver(m.ExtractStrategy))
	s.producer = render.NewProducer(s.log, render.WithGuardObserver(m.RenderGuard))
	s.adapter = adapt.New(adapt.WithLogger(s.log), adapt.WithObserver(m.FallbackNode))
	return s
}

// Adapter exposes the running fallback telemetry.
func (s *Service) Adapter() *adapt.Adapter { return s.adapter }

// Vocabulary is the configuration used to parse client declarations.
func (s *Service) Vocabulary() capability.Config { return s.vocab.Current() }

// Capabilities parses a client's declaration against the service vocabulary.
func (s *Service) Capabilities(d capability.Declaration) capability.ClientCapabilities {
	return capability.Parse(s.vocab.Current(), d)
}

// Produce runs the whole pipeline. It never fails: any internal failure yields the error tree.
// Unknown kinds are treated as explanations.
func (s *Service) Produce(ctx context.Context, req Request, caps capability.ClientCapabilities) Result {
	start := time.Now()
	kind, ok := model.ParseKind(string(req.Kind))
	if !ok {
		kind = defaultFallbackKind
	}
	ctx, span := s.tracer.Start(ctx, "genui.produce", trace.WithAttributes(
		attribute.String("genui.kind", string(kind)),
		attribute.String("genui.platform", caps.Platform),
		attribute.String("genui.client_version", caps.ProtocolVersion),
	))
	defer span.End()

	entry, cached := s.base(ctx, kind, req.Topic, req.Content)
	res := s.finish(kind, entry, caps)
	res.Cached = cached

	span.SetAttributes(
		attribute.Bool("genui.cached", cached),
		attribute.Int("genui.fallbacks", res.Fallbacks),
		attribute.Int("genui.nodes", component.Count(res.Tree)),
	)
	s.metrics.ObserveProduce(kind, time.Since(start))
	return res
}

// ProduceBatch produces every request with bounded concurrency. Results keep input order.
func (s *Service) ProduceBatch(ctx context.Context, reqs []Request, caps capability.ClientCapabilities) ([]Result, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > s.batchLimit {
		return nil, fmt.Errorf("%w: %d items (max %d)", ErrBatchTooLarge, len(reqs), s.batchLimit)
	}
	results := make([]Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Produce(gctx, reqs[i], caps)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("produce batch: %w", err)
	}
	return results, nil
}

// Skeleton is the adapted loading placeholder.
func (s *Service) Skeleton(topic string, caps capability.ClientCapabilities) Result {
	return s.finish("", cache.Entry{Tree: s.producer.RenderSkeleton(topic)}, caps)
}

// Error is the adapted friendly error tree.
func (s *Service) Error(message string, caps capability.ClientCapabilities) Result {
	return s.finish("", cache.Entry{Tree: s.producer.RenderError(message)}, caps)
}

func (s *Service) finish(kind model.Kind, entry cache.Entry, caps capability.ClientCapabilities) Result {
	tree, st := s.adapter.AdaptWithStats(entry.Tree, caps)
	types := st.Types
	if types == nil {
		types = []component.Type{}
	}
	res := Result{
		Kind:            kind,
		Tree:            tree,
		Fallbacks:       st.Fallbacks,
		FallbackTypes:   types,
		ProtocolVersion: component.ProtocolVersion,
	}
	if entry.Summary != nil {
		sum := *entry.Summary
		sum.Course.Objectives = append([]string{}, entry.Summary.Course.Objectives...)
		res.Summary = &sum
	}
	return res
}

// base returns the pre-adaptation tree for a request, from cache when possible. Concurrent
// identical requests share one computation. A reused tree gets fresh record ids.
func (s *Service) base(ctx context.Context, kind model.Kind, topic string, content any) (entry cache.Entry, cached bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("produce failed", append(ctxutil.LogFields(ctx), "kind", string(kind), "error", fmt.Sprint(r))...)
			s.metrics.RenderGuard(kind, "pipeline")
			trace.SpanFromContext(ctx).SetStatus(codes.Error, "produce panic")
			entry, cached = cache.Entry{Kind: string(kind), Tree: s.producer.RenderError("")}, false
		}
	}()

	key, ok := contenthash.Key(component.ProtocolVersion, string(kind), strings.TrimSpace(topic), content)
	if !ok {
		return s.compute(kind, topic, content), false
	}

	if _, off := s.cache.(cache.Nop); !off {
		e, hit, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.CacheLookup("error")
			s.log.Warn("tree cache get failed", append(ctxutil.LogFields(ctx), "error", err)...)
		case hit:
			s.metrics.CacheLookup("hit")
			return remint(e, content), true
		default:
			s.metrics.CacheLookup("miss")
		}
	}

	v, _, shared := s.flight.Do(key, func() (any, error) {
		e := s.compute(kind, topic, content)
		if err := s.cache.Set(ctx, key, e); err != nil {
			s.log.Warn("tree cache set failed", append(ctxutil.LogFields(ctx), "error", err)...)
		}
		return e, nil
	})
	if shared {
		return remint(v.(cache.Entry), content), false
	}
	return v.(cache.Entry), false
}

func (s *Service) compute(kind model.Kind, topic string, content any) cache.Entry {
	rec := s.extractor.Extract(content, kind, topic)
	e := cache.Entry{Kind: string(kind), Tree: s.producer.Render(rec)}
	if c, ok := rec.(model.Course); ok {
		sum := render.Summary(c)
		e.Summary = &sum
	}
	return e
}
