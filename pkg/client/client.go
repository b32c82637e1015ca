// Package client is a quota-governed OpenAlex client.
//
// Every fetch is charged against a quota.Governor before any request leaves
// the process. A fetch refused by the governor returns ErrQuotaExceeded and
// never reaches the Transport. A charge is kept even when the request or
// decoding later fails.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pario-ai/oars/pkg/cache/sqlite"
	"github.com/pario-ai/oars/pkg/codec"
	"github.com/pario-ai/oars/pkg/config"
	"github.com/pario-ai/oars/pkg/logging"
	"github.com/pario-ai/oars/pkg/metrics"
	"github.com/pario-ai/oars/pkg/models"
	"github.com/pario-ai/oars/pkg/quota"
)

var (
	// ErrQuotaExceeded is returned when the request budget is spent.
	ErrQuotaExceeded = quota.ErrQuotaExceeded
	// ErrDecode is returned when a response body cannot be decoded into the
	// requested entity. The underlying *codec.DecodeError is also wrapped.
	ErrDecode = errors.New("decode response")
	// ErrUnknownKind is returned for a resource kind the API does not serve.
	ErrUnknownKind = errors.New("unknown resource kind")
)

// ResourceKind is an OpenAlex entity collection.
type ResourceKind string

const (
	Works        ResourceKind = "works"
	Authors      ResourceKind = "authors"
	Sources      ResourceKind = "sources"
	Institutions ResourceKind = "institutions"
	Topics       ResourceKind = "topics"
	Funders      ResourceKind = "funders"
	Publishers   ResourceKind = "publishers"
	Concepts     ResourceKind = "concepts"
)

// ResourceKinds lists every supported kind.
var ResourceKinds = []ResourceKind{Works, Authors, Sources, Institutions, Topics, Funders, Publishers, Concepts}

// ParseResourceKind validates s as a ResourceKind.
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ResourceKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Recorder receives one record per attempted fetch.
type Recorder interface {
	Record(ctx context.Context, rec models.FetchRecord) error
}

// Client fetches OpenAlex entities under a request quota.
type Client struct {
	cfg        *config.Config
	governor   *quota.Governor
	transport  Transport
	recorder   Recorder
	logger     *zap.Logger
	metrics    *metrics.Metrics
	registerer prometheus.Registerer
	cache      *sqlite.Cache

	closers []io.Closer
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport.
func WithTransport(t Transport) Option { return func(c *Client) { c.transport = t } }

// WithGovernor supplies a governor. The caller keeps ownership of it.
func WithGovernor(g *quota.Governor) Option { return func(c *Client) { c.governor = g } }

// WithRecorder reports every fetch outcome to r.
func WithRecorder(r Recorder) Option { return func(c *Client) { c.recorder = r } }

// WithLogger overrides the logger built from the config.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// WithMetrics supplies already registered collectors.
func WithMetrics(m *metrics.Metrics) Option { return func(c *Client) { c.metrics = m } }

// WithRegisterer sets where collectors are registered when metrics are
// enabled in the config. Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(r prometheus.Registerer) Option { return func(c *Client) { c.registerer = r } }

// New creates a Client from cfg. Pieces not supplied through options are
// built from the config: a memory or Redis counter, an HTTP transport and,
// when enabled, the response cache.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, registerer: prometheus.DefaultRegisterer}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = logging.New(cfg.Logging, cfg.LogLevel)
	}
	if c.metrics == nil && cfg.Metrics.Enabled {
		m := metrics.New(cfg.Metrics.Namespace)
		if err := m.Register(c.registerer); err != nil {
			return nil, err
		}
		c.metrics = m
	}

	if c.governor == nil {
		counter, err := c.newCounter()
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		g := quota.New(cfg.DailyLimit, cfg.ResetAfter,
			quota.WithCounter(counter),
			quota.WithLogger(c.logger),
			quota.WithMetrics(c.metrics),
		)
		c.governor = g
		c.closers = append(c.closers, g)
	}

	if c.transport == nil {
		var t Transport = NewHTTPTransport(cfg.Timeout, cfg.Politeness, cfg.MaxRetries, c.logger)
		if cfg.Cache.Enabled {
			cache, err := sqlite.New(cfg.DBPath, cfg.Cache.TTL)
			if err != nil {
				_ = c.Close()
				return nil, err
			}
			c.cache = cache
			c.closers = append(c.closers, cache)
			t = NewCachingTransport(t, cache, c.logger)
		}
		c.transport = t
	}

	return c, nil
}

func (c *Client) newCounter() (quota.Counter, error) {
	if c.cfg.Redis.Addr == "" {
		return quota.NewMemoryCounter(), nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.Addr,
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})
	c.closers = append(c.closers, rdb)
	c.logger.Info("using shared quota counter",
		zap.String("addr", c.cfg.Redis.Addr), zap.String("key", c.cfg.Redis.Key))
	return quota.NewRedisCounter(rdb,
		quota.WithKey(c.cfg.Redis.Key),
		quota.WithWindow(c.cfg.ResetAfter),
	), nil
}

// Fetch charges one request, retrieves kind/id and decodes it into T.
func Fetch[T any](ctx context.Context, c *Client, kind ResourceKind, id string) (T, error) {
	var zero T
	start := time.Now()
	rec := models.FetchRecord{Kind: string(kind), ResourceID: id, CreatedAt: start.UTC()}

	u := c.resourceURL(kind, id)

	if err := c.governor.Authorize(ctx); err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			c.finish(ctx, &rec, models.OutcomeQuotaExceeded, start)
			return zero, err
		}
		// the counter backend could not be reached, nothing was sent
		c.finish(ctx, &rec, models.OutcomeTransportError, start)
		return zero, &TransportError{URL: u, Err: err}
	}

	body, err := c.transport.Get(ctx, u, c.header())
	if err != nil {
		var te *TransportError
		if !errors.As(err, &te) {
			te = &TransportError{URL: u, Err: err}
			err = te
		}
		rec.StatusCode = te.StatusCode
		c.finish(ctx, &rec, models.OutcomeTransportError, start)
		return zero, err
	}
	rec.StatusCode = http.StatusOK
	rec.Bytes = len(body)

	v, err := codec.Leaven[T](codec.FromBytes(body))
	if err != nil {
		c.finish(ctx, &rec, models.OutcomeDecodeError, start)
		return zero, fmt.Errorf("%w: %s/%s: %w", ErrDecode, kind, id, err)
	}

	c.finish(ctx, &rec, models.OutcomeOK, start)
	return v, nil
}

func (c *Client) finish(ctx context.Context, rec *models.FetchRecord, outcome models.Outcome, start time.Time) {
	elapsed := time.Since(start)
	rec.Outcome = outcome
	rec.LatencyMs = elapsed.Milliseconds()

	c.metrics.Fetch(rec.Kind, string(outcome), float64(elapsed)/float64(time.Millisecond))
	c.logger.Debug("fetch",
		zap.String("kind", rec.Kind),
		zap.String("id", rec.ResourceID),
		zap.String("outcome", string(outcome)),
		zap.Int("bytes", rec.Bytes),
		zap.Duration("latency", elapsed))

	if c.recorder == nil {
		return
	}
	// the fetch result stands even if bookkeeping fails
	if err := c.recorder.Record(context.WithoutCancel(ctx), *rec); err != nil {
		c.logger.Warn("record fetch failed", zap.Error(err))
	}
}

// idEscaper keeps DOI and URL identifiers readable in the path while
// stopping an id from opening a query or fragment of its own.
var idEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23", " ", "%20")

func (c *Client) resourceURL(kind ResourceKind, id string) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + string(kind) + "/" + idEscaper.Replace(strings.TrimSpace(id))
	q := url.Values{}
	if c.cfg.Email != "" {
		q.Set("mailto", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		q.Set("api_key", c.cfg.APIKey)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.cfg.UserAgent)
	h.Set("Accept", "application/json")
	return h
}

// Work fetches a work by OpenAlex ID, DOI or other supported identifier.
func (c *Client) Work(ctx context.Context, id string) (models.Work, error) {
	return Fetch[models.Work](ctx, c, Works, id)
}

// Author fetches an author.
func (c *Client) Author(ctx context.Context, id string) (models.Author, error) {
	return Fetch[models.Author](ctx, c, Authors, id)
}

// Source fetches a source such as a journal or repository.
func (c *Client) Source(ctx context.Context, id string) (models.Source, error) {
	return Fetch[models.Source](ctx, c, Sources, id)
}

// Institution fetches an institution.
func (c *Client) Institution(ctx context.Context, id string) (models.Institution, error) {
	return Fetch[models.Institution](ctx, c, Institutions, id)
}

// Topic fetches a topic.
func (c *Client) Topic(ctx context.Context, id string) (models.Topic, error) {
	return Fetch[models.Topic](ctx, c, Topics, id)
}

// Funder fetches a funder.
func (c *Client) Funder(ctx context.Context, id string) (models.Funder, error) {
	return Fetch[models.Funder](ctx, c, Funders, id)
}

// Publisher fetches a publisher.
func (c *Client) Publisher(ctx context.Context, id string) (models.Publisher, error) {
	return Fetch[models.Publisher](ctx, c, Publishers, id)
}

// Concept fetches a concept.
func (c *Client) Concept(ctx context.Context, id string) (models.Concept, error) {
	return Fetch[models.Concept](ctx, c, Concepts, id)
}

// FetchKind fetches any supported kind and returns it as a models.Entity.
func (c *Client) FetchKind(ctx context.Context, kind ResourceKind, id string) (models.Entity, error) {
	switch kind {
	case Works:
		return fetchEntity(ctx, c, kind, id, func(v models.Work) models.Entity { return &v })
	case Authors:
		return fetchEntity(ctx, c, kind, id, func(v models.Author) models.Entity { return &v })
	case Sources:
		return fetchEntity(ctx, c, kind, id, func(v models.Source) models.Entity { return &v })
	case Institutions:
		return fetchEntity(ctx, c, kind, id, func(v models.Institution) models.Entity { return &v })
	case Topics:
		return fetchEntity(ctx, c, kind, id, func(v models.Topic) models.Entity { return &v })
	case Funders:
		return fetchEntity(ctx, c, kind, id, func(v models.Funder) models.Entity { return &v })
	case Publishers:
		return fetchEntity(ctx, c, kind, id, func(v models.Publisher) models.Entity { return &v })
	case Concepts:
		return fetchEntity(ctx, c, kind, id, func(v models.Concept) models.Entity { return &v })
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func fetchEntity[T any](ctx context.Context, c *Client, kind ResourceKind, id string, wrap func(T) models.Entity) (models.Entity, error) {
	v, err := Fetch[T](ctx, c, kind, id)
	if err != nil {
		return nil, err
	}
	return wrap(v), nil
}

// QueryCount returns the number of requests charged in the current window.
func (c *Client) QueryCount(ctx context.Context) (int64, error) {
	return c.governor.Current(ctx)
}

// ResetQueryCount zeroes the charged count.
func (c *Client) ResetQueryCount(ctx context.Context) error {
	return c.governor.Reset(ctx)
}

// Quota returns a snapshot of the budget.
func (c *Client) Quota(ctx context.Context) (quota.Status, error) {
	return c.governor.Status(ctx)
}

// Cache returns the response cache built from the config, or nil when
// caching is disabled or a transport was supplied.
func (c *Client) Cache() *sqlite.Cache { return c.cache }

// Governor exposes the governor, for sharing one budget between clients.
func (c *Client) Governor() *quota.Governor { return c.governor }

// Close stops the reset task of an owned governor and releases the cache
// and Redis connections. Safe to call more than once.
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
