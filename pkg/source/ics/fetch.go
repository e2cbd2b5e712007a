package ics

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Bravo-Actual/timegrid/pkg/cache"
	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/httputil"
	"github.com/Bravo-Actual/timegrid/pkg/observability"
)

const (
	httpTimeout   = 15 * time.Second
	fetchAttempts = 3
	fetchBackoff  = time.Second
)

// Fetcher retrieves ICS feeds over HTTP with caching and retries.
//
// Responses are cached under a source-scoped key so repeated renders of the
// same feed skip the network. Transient failures (network errors, 5xx, 429)
// are retried with exponential backoff.
type Fetcher struct {
	client *http.Client
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewFetcher creates a fetcher over the given cache backend.
// A nil backend disables caching; a nil keyer uses the default; ttl 0 uses
// the source-stage default; a nil logger discards.
func NewFetcher(backend cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Fetcher {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = cache.TTLSource
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Fetcher{
		client: &http.Client{Timeout: httpTimeout},
		cache:  backend,
		keyer:  keyer,
		ttl:    ttl,
		logger: logger,
	}
}

// Fetch downloads an ICS feed, consulting the cache first unless refresh
// is set.
func (f *Fetcher) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	key := f.keyer.HTTPKey("ics:", url)
	if !refresh {
		if data, ok, _ := f.cache.Get(ctx, key); ok {
			f.logger.Debug("feed cache hit", "url", url)
			return data, nil
		}
	}

	var body []byte
	err := httputil.Retry(ctx, fetchAttempts, fetchBackoff, func() error {
		var err error
		body, err = f.fetchOnce(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, body, f.ttl); err != nil {
		f.logger.Warn("feed cache write failed", "url", url, "err", err)
	}
	f.logger.Debug("feed fetched", "url", url, "bytes", len(body))
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "build request for %s", url)
	}
	req.Header.Set("Accept", "text/calendar")

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
	started := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url),
		}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(started))

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "feed %s not found", url)
	case resp.StatusCode == http.StatusTooManyRequests:
		cause := &errors.RateLimitedError{RetryAfter: retryAfterSeconds(resp)}
		return nil, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeRateLimited, cause, "feed %s rate limited", url),
		}
	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "feed %s: %s", url, resp.Status),
		}
	default:
		return nil, errors.New(errors.ErrCodeNetwork, "feed %s: %s", url, resp.Status)
	}
}

// retryAfterSeconds reads the Retry-After header when it carries a plain
// seconds value. HTTP-date values and absent headers yield 0.
func retryAfterSeconds(resp *http.Response) int {
	n, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
