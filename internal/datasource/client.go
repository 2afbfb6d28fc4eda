package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/ohler55/ojg/oj"
	"go.uber.org/zap"

	"tarediiran-industries.com/side-services/internal/common"
)

const DefaultTimeout = 10 * time.Second

type (
	Client struct {
		baseURL *url.URL
		client  *http.Client
		timeout omit.Val[time.Duration]
		metrics *common.Metrics
		logger  *zap.Logger
	}
	Option func(*Client)
)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout bounds each request. It applies to a private copy of the http.Client,
// whichever order it is given in relative to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = omit.From(d)
	}
}

func WithMetrics(metrics *common.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a client for the API rooted at baseURL; queries go to <baseURL>/api.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q: scheme and host required", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if d, ok := c.timeout.Get(); ok {
		client := *c.client
		client.Timeout = d
		c.client = &client
	}
	return c, nil
}

func (c *Client) endpoint(q Query) string {
	u := *c.baseURL
	u.Path += "/api"
	u.RawQuery = q.Values().Encode()
	return u.String()
}

func (c *Client) Query(ctx context.Context, q Query) (any, error) {
	switch q.Type {
	case QueryServers, QueryLayouts, QueryLayout, QueryTrains:
	default:
		return nil, &FetchError{Query: q, Err: ErrUnknownQuery}
	}

	payload, err := c.query(ctx, q)
	if err != nil {
		if c.metrics != nil {
			c.metrics.HttpErrorsTotal.WithLabelValues(string(q.Type)).Inc()
		}
		c.logger.Debug("query failed", zap.Stringer("query", q), zap.Error(err))
		return nil, err
	}
	return payload, nil
}

func (c *Client) query(ctx context.Context, q Query) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return nil, &FetchError{Query: q, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Query: q, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	defer resp.Body.Close()
	c.observe(func(m *common.Metrics) {
		m.HttpTTFBSeconds.WithLabelValues(string(q.Type)).Observe(time.Since(start).Seconds())
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Query: q, StatusCode: resp.StatusCode, Err: ErrTransport}
	}

	readStart := time.Now()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Query: q, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}

	payload, err := oj.Parse(body)
	if err != nil {
		return nil, &FetchError{Query: q, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrMalformedBody, err)}
	}

	c.observe(func(m *common.Metrics) {
		m.HttpReadBodySeconds.WithLabelValues(string(q.Type)).Observe(time.Since(readStart).Seconds())
		m.HttpBytesTotal.WithLabelValues(string(q.Type)).Add(float64(len(body)))
	})
	return payload, nil
}

func (c *Client) observe(fn func(*common.Metrics)) {
	if c.metrics != nil {
		fn(c.metrics)
	}
}
