// Package source acquires feed documents from local paths or HTTP URLs.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/matchfeed/internal/platform/cache"
	"github.com/riskibarqy/matchfeed/internal/platform/logging"
	"github.com/riskibarqy/matchfeed/internal/platform/resilience"
)

const (
	defaultTimeout      = 20 * time.Second
	defaultBackoff      = time.Second
	defaultMaxBodyBytes = 32 << 20
)

var (
	// ErrTransient marks failures worth retrying: transport errors, 429 and 5xx.
	ErrTransient = crerr.New("feed source transient failure")
	// ErrUnavailable is returned while the circuit breaker rejects requests.
	ErrUnavailable = crerr.New("feed source unavailable")
	ErrTooLarge    = crerr.New("feed document exceeds size limit")
)

// StatusError reports a non 2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
}

type Config struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	Backoff        time.Duration
	MaxBodyBytes   int64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// CacheTTL keeps loaded documents in memory. Zero disables retention.
	CacheTTL time.Duration
}

type Loader struct {
	httpClient   *http.Client
	maxRetries   int
	backoff      time.Duration
	maxBodyBytes int64
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	documents    *cache.Store[[]byte]
}

func New(cfg Config) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Loader{
		httpClient:   httpClient,
		maxRetries:   max(cfg.MaxRetries, 0),
		backoff:      backoff,
		maxBodyBytes: maxBody,
		logger:       logger.Named("source"),
		breaker:      resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		documents:    cache.NewStore[[]byte](cfg.CacheTTL),
	}
}

// Load returns the document at location, an http(s) URL or a file path.
// Concurrent loads of the same location share one read.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, crerr.New("empty feed location")
	}

	raw, hit, err := l.documents.GetOrLoad(ctx, location, func(ctx context.Context) ([]byte, error) {
		if isURL(location) {
			return l.fetch(ctx, location)
		}
		return l.readFile(strings.TrimPrefix(location, "file://"))
	})
	if err != nil {
		return nil, err
	}
	if hit {
		l.logger.DebugContext(ctx, "served document from cache or in-flight load", "location", location)
	}
	return raw, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open feed file %s", path)
	}
	defer f.Close()

	raw, err := l.readAll(f)
	if err != nil {
		return nil, crerr.Wrapf(err, "read feed file %s", path)
	}
	return raw, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	var raw []byte
	err := l.breaker.Execute(func() error {
		var reqErr error
		raw, reqErr = l.executeRequest(ctx, url)
		return reqErr
	}, isTransient)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		l.logger.WarnContext(ctx, "feed circuit breaker rejected request", "url", url, "state", l.breaker.State())
		return nil, crerr.Wrapf(ErrUnavailable, "fetch %s", url)
	}
	return raw, err
}

func (l *Loader) executeRequest(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		raw, err := l.do(ctx, url)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isTransient(err) {
			return nil, err
		}

		if attempt == l.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * l.backoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	l.logger.WarnContext(ctx, "feed request failed", "url", url, "attempts", l.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func (l *Loader) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Mark(crerr.Wrapf(err, "send request %s", url), ErrTransient)
	}
	defer resp.Body.Close()

	raw, err := l.readAll(resp.Body)
	if err != nil {
		if crerr.Is(err, ErrTooLarge) {
			return nil, crerr.Wrapf(err, "read response %s", url)
		}
		return nil, crerr.Mark(crerr.Wrapf(err, "read response %s", url), ErrTransient)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode, Body: abbreviateBody(raw)}
	if isRetryableStatus(resp.StatusCode) {
		return nil, crerr.Mark(statusErr, ErrTransient)
	}
	return nil, statusErr
}

// readAll copies r through a pooled buffer and returns an owned slice.
func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(r, l.maxBodyBytes+1)); err != nil {
		return nil, err
	}
	if int64(buf.Len()) > l.maxBodyBytes {
		return nil, crerr.Wrapf(ErrTooLarge, "limit %d bytes", l.maxBodyBytes)
	}
	return bytes.Clone(buf.B), nil
}

func isURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isTransient(err error) bool {
	return crerr.Is(err, ErrTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
