package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pario-ai/oars/pkg/codec"
	"github.com/pario-ai/oars/pkg/config"
	"github.com/pario-ai/oars/pkg/metrics"
	"github.com/pario-ai/oars/pkg/models"
	"github.com/pario-ai/oars/pkg/quota"
)

var fixtures = map[ResourceKind]string{
	Works:        "work.json",
	Authors:      "author.json",
	Sources:      "source.json",
	Institutions: "institution.json",
	Topics:       "topic.json",
	Funders:      "funder.json",
	Publishers:   "publisher.json",
	Concepts:     "concept.json",
}

func fixture(t *testing.T, kind ResourceKind) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "models", "testdata", fixtures[kind]))
	require.NoError(t, err)
	return data
}

// upstream serves fixtures by kind and counts requests.
type upstream struct {
	*httptest.Server
	hits     atomic.Int64
	mu       sync.Mutex
	requests []*http.Request
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.mu.Lock()
		u.requests = append(u.requests, r)
		u.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) seen() []*http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]*http.Request(nil), u.requests...)
}

func fixtureHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := ResourceKind(strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")[0])
		if _, ok := fixtures[kind]; !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture(t, kind))
	}
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.Politeness = 0
	cfg.MaxRetries = 0
	return cfg
}

func newClient(t *testing.T, cfg *config.Config, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func queryCount(t *testing.T, c *Client) int64 {
	t.Helper()
	n, err := c.QueryCount(context.Background())
	require.NoError(t, err)
	return n
}

// countingTransport records calls and replays a fixed reply.
type countingTransport struct {
	calls atomic.Int64
	body  []byte
	err   error
}

func (c *countingTransport) Get(context.Context, string, http.Header) ([]byte, error) {
	c.calls.Add(1)
	return c.body, c.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []models.FetchRecord
}

func (f *fakeRecorder) Record(_ context.Context, rec models.FetchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecorder) outcomes() []models.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Outcome
	for _, r := range f.records {
		out = append(out, r.Outcome)
	}
	return out
}

func TestFetchWork(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	cfg := testConfig(srv.URL + "/")
	cfg.Email = "me@example.org"
	c := newClient(t, cfg)

	w, err := c.Work(context.Background(), "W2741809807")
	require.NoError(t, err)
	assert.Equal(t, "https://openalex.org/W2741809807", w.ID)
	assert.EqualValues(t, 1, queryCount(t, c))

	reqs := srv.seen()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, "/works/W2741809807", req.URL.Path)
	assert.Equal(t, "me@example.org", req.URL.Query().Get("mailto"))
	assert.Empty(t, req.URL.Query().Get("api_key"))
	assert.Equal(t, cfg.UserAgent, req.Header.Get("User-Agent"))
}

func TestFetchEveryKind(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	c := newClient(t, testConfig(srv.URL))
	ctx := context.Background()

	for _, kind := range ResourceKinds {
		t.Run(string(kind), func(t *testing.T) {
			e, err := c.FetchKind(ctx, kind, "X1")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(e.EntityID(), "https://openalex.org/"), e.EntityID())

			d, err := e.Deflate(codec.Text)
			require.NoError(t, err)
			text, _ := d.AsText()
			assert.NotEmpty(t, text)
		})
	}
	assert.EqualValues(t, len(ResourceKinds), queryCount(t, c))
}

func TestTypedHelpers(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	c := newClient(t, testConfig(srv.URL))
	ctx := context.Background()

	a, err := c.Author(ctx, "A1")
	require.NoError(t, err)
	assert.NotEmpty(t, a.DisplayName)

	s, err := c.Source(ctx, "S1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	i, err := c.Institution(ctx, "I1")
	require.NoError(t, err)
	assert.NotEmpty(t, i.ID)

	tp, err := c.Topic(ctx, "T1")
	require.NoError(t, err)
	assert.NotEmpty(t, tp.ID)

	f, err := c.Funder(ctx, "F1")
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)

	p, err := c.Publisher(ctx, "P1")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	cp, err := c.Concept(ctx, "C1")
	require.NoError(t, err)
	assert.NotEmpty(t, cp.ID)

	assert.EqualValues(t, 7, queryCount(t, c))
}

func TestFetchKindUnknown(t *testing.T) {
	tr := &countingTransport{}
	c := newClient(t, testConfig("http://unused"), WithTransport(tr))

	_, err := c.FetchKind(context.Background(), "keywords", "K1")
	require.ErrorIs(t, err, ErrUnknownKind)
	assert.Zero(t, tr.calls.Load())
	assert.Zero(t, queryCount(t, c))
}

func TestExhaustedQuotaMakesNoTransportCall(t *testing.T) {
	tr := &countingTransport{body: []byte(`{"id":"https://openalex.org/W1","display_name":"x"}`)}
	rec := &fakeRecorder{}
	cfg := testConfig("http://unused")
	cfg.DailyLimit = 2
	c := newClient(t, cfg, WithTransport(tr), WithRecorder(rec))
	ctx := context.Background()

	for range 2 {
		_, err := c.Work(ctx, "W1")
		require.NoError(t, err)
	}

	_, err := c.Work(ctx, "W1")
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.EqualValues(t, 2, tr.calls.Load())
	assert.EqualValues(t, 2, queryCount(t, c))
	assert.Equal(t, []models.Outcome{models.OutcomeOK, models.OutcomeOK, models.OutcomeQuotaExceeded}, rec.outcomes())
}

func TestTransportErrorKeepsCharge(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	rec := &fakeRecorder{}
	c := newClient(t, cfg, WithRecorder(rec))

	_, err := c.Work(context.Background(), "W404")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Contains(t, te.URL, "/works/W404")

	// 404 is not retried
	assert.EqualValues(t, 1, srv.hits.Load())
	assert.EqualValues(t, 1, queryCount(t, c))
	require.Len(t, rec.records, 1)
	assert.Equal(t, models.OutcomeTransportError, rec.records[0].Outcome)
	assert.Equal(t, http.StatusNotFound, rec.records[0].StatusCode)
}

func TestRetriesTransientStatus(t *testing.T) {
	var n atomic.Int64
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch n.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fixtureHandler(t)(w, r)
		}
	})
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 3
	c := newClient(t, cfg)

	_, err := c.Work(context.Background(), "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, srv.hits.Load())
	// retries are transport detail, the charge is per fetch
	assert.EqualValues(t, 1, queryCount(t, c))
}

func TestRetriesExhausted(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 2
	c := newClient(t, cfg)

	_, err := c.Work(context.Background(), "W1")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.EqualValues(t, 3, srv.hits.Load())
}

func TestCancelledContext(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	c := newClient(t, testConfig(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Work(ctx, "W1")
	require.ErrorIs(t, err, context.Canceled)
	// the charge was taken before the request was attempted
	assert.EqualValues(t, 1, queryCount(t, c))
}

func TestDecodeError(t *testing.T) {
	tr := &countingTransport{body: []byte(`{"id": "W1", "display_name": `)}
	rec := &fakeRecorder{}
	c := newClient(t, testConfig("http://unused"), WithTransport(tr), WithRecorder(rec))

	_, err := c.Work(context.Background(), "W1")
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorIs(t, err, codec.ErrMalformed)
	var de *codec.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, codec.SourceBytes, de.Source)

	assert.EqualValues(t, 1, queryCount(t, c))
	assert.Equal(t, []models.Outcome{models.OutcomeDecodeError}, rec.outcomes())
}

func TestForeignTransportErrorIsWrapped(t *testing.T) {
	dial := errors.New("dial tcp: connection refused")
	tr := &countingTransport{err: dial}
	rec := &fakeRecorder{}
	c := newClient(t, testConfig("http://api.test"), WithTransport(tr), WithRecorder(rec))

	_, err := c.Work(context.Background(), "W1")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, dial)
	assert.Zero(t, te.StatusCode)
	assert.Equal(t, "http://api.test/works/W1", te.URL)
	assert.Equal(t, []models.Outcome{models.OutcomeTransportError}, rec.outcomes())
}

// downCounter fails every charge, like an unreachable Redis.
type downCounter struct{ quota.MemoryCounter }

func (d *downCounter) Add(context.Context, int64, int64) (int64, bool, error) {
	return 0, false, errors.New("backend down")
}

func TestCounterBackendFailure(t *testing.T) {
	g := quota.New(10, 0, quota.WithCounter(&downCounter{}))
	t.Cleanup(func() { _ = g.Close() })
	tr := &countingTransport{body: []byte(`{"id":"https://openalex.org/W1"}`)}
	rec := &fakeRecorder{}
	c := newClient(t, testConfig("http://unused"), WithTransport(tr), WithGovernor(g), WithRecorder(rec))

	_, err := c.Work(context.Background(), "W1")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "backend down")
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
	assert.Zero(t, tr.calls.Load())
	assert.Equal(t, []models.Outcome{models.OutcomeTransportError}, rec.outcomes())
}

func TestIDCannotOpenQuery(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	cfg := testConfig(srv.URL)
	cfg.Email = "me@example.org"
	c := newClient(t, cfg)

	_, err := c.Work(context.Background(), "W1?mailto=evil#x")
	require.NoError(t, err)
	reqs := srv.seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/works/W1?mailto=evil#x", reqs[0].URL.Path)
	assert.Equal(t, []string{"me@example.org"}, reqs[0].URL.Query()["mailto"])
}

func TestDOIPassesThrough(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	c := newClient(t, testConfig(srv.URL))

	_, err := c.Work(context.Background(), "https://doi.org/10.7717/peerj.4375")
	require.NoError(t, err)
	reqs := srv.seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/works/https://doi.org/10.7717/peerj.4375", reqs[0].URL.Path)
}

func TestAPIKeyQueryParam(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	cfg := testConfig(srv.URL)
	cfg.APIKey = "secret"
	c := newClient(t, cfg)

	_, err := c.Funder(context.Background(), "F4320332161")
	require.NoError(t, err)
	reqs := srv.seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "secret", reqs[0].URL.Query().Get("api_key"))
}

func TestCachedResponsesAreStillCharged(t *testing.T) {
	srv := newUpstream(t, fixtureHandler(t))
	cfg := testConfig(srv.URL)
	cfg.Cache.Enabled = true
	cfg.DBPath = filepath.Join(t.TempDir(), "oars.db")
	c := newClient(t, cfg)
	ctx := context.Background()

	for range 3 {
		_, err := c.Work(ctx, "W2741809807")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, srv.hits.Load())
	assert.EqualValues(t, 3, queryCount(t, c))

	require.NotNil(t, c.Cache())
	stats, err := c.Cache().Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Entries)
	assert.EqualValues(t, 2, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestQuotaStatusAndReset(t *testing.T) {
	tr := &countingTransport{body: []byte(`{"id":"https://openalex.org/A1","display_name":"x"}`)}
	cfg := testConfig("http://unused")
	cfg.DailyLimit = 10
	c := newClient(t, cfg, WithTransport(tr))
	ctx := context.Background()

	for range 4 {
		_, err := c.Author(ctx, "A1")
		require.NoError(t, err)
	}

	st, err := c.Quota(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, st.Ceiling)
	assert.EqualValues(t, 4, st.Used)
	assert.EqualValues(t, 6, st.Remaining)
	assert.Equal(t, cfg.ResetAfter, st.Window)

	require.NoError(t, c.ResetQueryCount(ctx))
	assert.Zero(t, queryCount(t, c))
}

func TestSharedGovernor(t *testing.T) {
	tr := &countingTransport{body: []byte(`{"id":"https://openalex.org/W1","display_name":"x"}`)}
	g := quota.New(3, 0)
	t.Cleanup(func() { _ = g.Close() })
	cfg := testConfig("http://unused")

	a := newClient(t, cfg, WithTransport(tr), WithGovernor(g))
	b := newClient(t, cfg, WithTransport(tr), WithGovernor(g))
	ctx := context.Background()

	_, err := a.Work(ctx, "W1")
	require.NoError(t, err)
	_, err = b.Work(ctx, "W1")
	require.NoError(t, err)
	_, err = a.Work(ctx, "W1")
	require.NoError(t, err)
	_, err = b.Work(ctx, "W1")
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// closing a client leaves a supplied governor running
	require.NoError(t, a.Close())
	assert.EqualValues(t, 3, queryCount(t, b))
}

func TestMetrics(t *testing.T) {
	tr := &countingTransport{body: []byte(`{"id":"https://openalex.org/W1","display_name":"x"}`)}
	m := metrics.New("oars_test")
	require.NoError(t, m.Register(prometheus.NewRegistry()))
	cfg := testConfig("http://unused")
	cfg.DailyLimit = 1
	c := newClient(t, cfg, WithTransport(tr), WithMetrics(m))
	ctx := context.Background()

	_, err := c.Work(ctx, "W1")
	require.NoError(t, err)
	_, err = c.Work(ctx, "W1")
	require.ErrorIs(t, err, ErrQuotaExceeded)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues("works", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues("works", "quota_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Authorized))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejected))
}

func TestMetricsFromConfig(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr := &countingTransport{body: []byte(`{"id":"https://openalex.org/W1","display_name":"x"}`)}
	cfg := testConfig("http://unused")
	cfg.Metrics.Enabled = true
	c := newClient(t, cfg, WithTransport(tr), WithRegisterer(reg))

	_, err := c.Work(context.Background(), "W1")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "oars_fetches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DailyLimit = 0
	_, err := New(cfg)
	require.Error(t, err)
}

func TestParseResourceKind(t *testing.T) {
	k, err := ParseResourceKind(" Works ")
	require.NoError(t, err)
	assert.Equal(t, Works, k)

	_, err = ParseResourceKind("keywords")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}
