package hibp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const DefaultRangeURL = "https://api.pwnedpasswords.com/range/"

var sha1Hex = regexp.MustCompile(`^[a-fA-F\d]{40}$`)

// ErrInvalidHash is returned for hashes that are not 40 hex characters.
var ErrInvalidHash = errors.New("input is not a valid SHA1 Hexadecimal hash")

type Config struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds a whole lookup, retries included.
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RequestsPerSecond throttles range requests. Zero or less disables throttling.
	RequestsPerSecond float64
	// CacheMaxCost is the byte budget for cached range bodies. Zero disables the cache.
	CacheMaxCost int64
	CacheTTL     time.Duration
	// Padding asks the service to pad responses with zero-count entries.
	Padding bool
}

func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultRangeURL,
		UserAgent:         "pwd-meter/1.0",
		Timeout:           5 * time.Second,
		RetryMax:          2,
		RetryWaitMin:      200 * time.Millisecond,
		RetryWaitMax:      2 * time.Second,
		RequestsPerSecond: 10,
		CacheMaxCost:      32 << 20,
		CacheTTL:          time.Hour,
		Padding:           true,
	}
}

// Client queries a k-anonymity range service. Only the first PrefixLen characters of the
// password hash leave the process.
type Client struct {
	base    string
	agent   string
	timeout time.Duration
	ttl     time.Duration
	padding bool
	http    *retryablehttp.Client
	limiter *rate.Limiter
	cache   *ristretto.Cache
	stat    *status
}

func NewClient(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultRangeURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		base:    base,
		agent:   cfg.UserAgent,
		timeout: cfg.Timeout,
		ttl:     cfg.CacheTTL,
		padding: cfg.Padding,
		http:    initHttpClient(cfg),
		limiter: rate.NewLimiter(limit, 1),
		stat:    newStatus(),
	}

	if cfg.CacheMaxCost > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			// ~10x the number of bodies expected to fit, a range body is about 30KiB.
			NumCounters: max(cfg.CacheMaxCost/(3<<10), 100),
			MaxCost:     cfg.CacheMaxCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating range cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

func initHttpClient(cfg Config) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}

	client.HTTPClient = &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
		},
	}

	return client
}

// Lookup checks a plain text password. It never returns an error: failures become an
// Unavailable result and are logged.
func (c *Client) Lookup(ctx context.Context, password string) Result {
	prefix, suffix := HashPassword(password)
	return c.lookup(ctx, prefix, suffix)
}

// ParseHash validates a hex encoded SHA-1 hash and returns it in upper case.
func ParseHash(hash string) (string, error) {
	if !sha1Hex.MatchString(hash) {
		return "", ErrInvalidHash
	}
	return strings.ToUpper(hash), nil
}

// LookupHash checks a hex encoded SHA-1 hash.
func (c *Client) LookupHash(ctx context.Context, hash string) Result {
	hash, err := ParseHash(hash)
	if err != nil {
		return unavailable(err)
	}
	return c.lookup(ctx, hash[:PrefixLen], hash[PrefixLen:])
}

func (c *Client) lookup(ctx context.Context, prefix string, suffix string) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := c.rangeBody(ctx, prefix)
	if err != nil {
		c.stat.Failure()
		log.Warn().Err(err).Msgf("breach lookup for range %s failed", prefix)
		return unavailable(err)
	}

	count, ok, err := FindSuffix(strings.NewReader(body), suffix)
	if err != nil {
		c.stat.Failure()
		log.Warn().Err(err).Msgf("error reading range %s", prefix)
		return unavailable(err)
	}

	if !ok {
		return notFound()
	}
	c.stat.Exposed()
	return found(count)
}

func (c *Client) rangeBody(ctx context.Context, prefix string) (string, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(prefix); ok {
			c.stat.CacheHit()
			return v.(string), nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait for range %s: %w", prefix, err)
	}

	body, err := c.downloadRange(ctx, prefix)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		c.cache.SetWithTTL(prefix, body, int64(len(body)), c.ttl)
	}
	return body, nil
}

func (c *Client) rangeHttpRequest(ctx context.Context, prefix string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.base+prefix, nil)
	if err != nil {
		return nil, err
	}

	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}
	return req, nil
}

func (c *Client) downloadRange(ctx context.Context, prefix string) (string, error) {
	timer := time.Now()
	req, err := c.rangeHttpRequest(ctx, prefix)
	if err != nil {
		return "", err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing body for range %s", prefix)
		}
	}(res.Body)

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("request for range [%s] failed with status [%d] %s", prefix, res.StatusCode, res.Status)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	c.stat.RequestComplete(res, time.Since(timer).Milliseconds())
	return string(resBody), nil
}

// LogSummary writes the request statistics gathered so far to the debug log.
func (c *Client) LogSummary() {
	c.stat.Summary()
}

func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
