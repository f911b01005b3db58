package lichess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultAPIHost = "https://lichess.org/"
const DefaultTablebaseHost = "http://tablebase.lichess.ovh/"

const defaultRateLimitCooloff = time.Minute
const defaultRateLimitAttempts = 4

var ErrRateLimited = errors.New("lichess: request was rate limited on each attempt")
var ErrNotFound = errors.New("lichess: not found")

// RequestError is a non-200 response. Message is the lichess "error" field when the body has one.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lichess: status %d", e.StatusCode)
	}
	return fmt.Sprintf("lichess: status %d: %s", e.StatusCode, e.Message)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Client struct {
	apiKey        string
	apiHost       string
	tablebaseHost string
	client        *http.Client
	logger        zerolog.Logger

	rateLimitCooloff  time.Duration
	rateLimitAttempts uint
}

type Option func(*Client)

func WithAPIHost(host string) Option {
	return func(c *Client) { c.apiHost = withSlash(host) }
}

func WithTablebaseHost(host string) Option {
	return func(c *Client) { c.tablebaseHost = withSlash(host) }
}

// WithHTTPClient replaces the underlying client. Its redirect policy is replaced so that
// redirects keep the authorization header.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit sets how long to back off after a 429 and how many attempts a request gets.
func WithRateLimit(cooloff time.Duration, attempts uint) Option {
	return func(c *Client) {
		c.rateLimitCooloff = cooloff
		c.rateLimitAttempts = max(attempts, 1)
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:            apiKey,
		apiHost:           DefaultAPIHost,
		tablebaseHost:     DefaultTablebaseHost,
		client:            &http.Client{},
		logger:            log.With().Str("component", "lichess").Logger(),
		rateLimitCooloff:  defaultRateLimitCooloff,
		rateLimitAttempts: defaultRateLimitAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client.CheckRedirect = redirectPolicyFunc(apiKey)
	return c
}

func withSlash(host string) string {
	return strings.TrimRight(host, "/") + "/"
}

// Redirects remove the authorization header and by default redirect using a
// GET request. Lichess has moved parts of its API so we need to handle these
// two cases directly.
func redirectPolicyFunc(apiKey string) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("lichess: stopped after 10 redirects")
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Method = via[0].Method
		return nil
	}
}

// Build a request against the lichess API. Params are sent as a form body.
func (c *Client) newRequest(ctx context.Context, method, apiURL string, params url.Values) (*http.Request, error) {
	return c.newHostRequest(ctx, c.apiHost, method, apiURL, params)
}

func (c *Client) newHostRequest(ctx context.Context, host, method, apiURL string, params url.Values) (*http.Request, error) {
	var body io.Reader
	if params != nil {
		body = strings.NewReader(params.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, host+strings.TrimLeft(apiURL, "/"), body)
	if err != nil {
		return nil, err
	}

	if params != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	// The token is only ever sent to the API host
	if c.apiKey != "" && host == c.apiHost {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

type requestError struct {
	Error string `json:"error"`
}

var errRateLimitedAttempt = errors.New("rate limited")

// Perform the request, backing off and retrying while lichess answers 429.
// Any other non-200 status is returned as a *RequestError.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	var res *http.Response
	err := retry.Do(
		func() error {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return retry.Unrecoverable(err)
				}
				req.Body = body
			}

			var err error
			res, err = c.client.Do(req)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			if res.StatusCode == http.StatusTooManyRequests {
				res.Body.Close()
				return errRateLimitedAttempt
			}

			if res.StatusCode != http.StatusOK {
				return retry.Unrecoverable(readRequestError(res))
			}
			return nil
		},
		retry.Context(req.Context()),
		retry.Attempts(c.rateLimitAttempts),
		retry.Delay(c.rateLimitCooloff),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errRateLimitedAttempt)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn().Str("url", req.URL.Path).Uint("attempt", n+1).
				Dur("cooloff", c.rateLimitCooloff).Msg("rate-limited")
		}),
	)
	if errors.Is(err, errRateLimitedAttempt) {
		return nil, ErrRateLimited
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func readRequestError(res *http.Response) error {
	defer res.Body.Close()

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	lichessError := requestError{}
	// Not every error body is JSON
	_ = json.Unmarshal(bytes, &lichessError)
	return &RequestError{StatusCode: res.StatusCode, Message: lichessError.Error}
}

// Perform the request and decode the JSON response into buffer.
func (c *Client) doJSONRequest(req *http.Request, buffer any) error {
	res, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, buffer)
}

// Perform the request and discard the response body.
func (c *Client) doEmptyRequest(req *http.Request) error {
	res, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, err = io.Copy(io.Discard, res.Body)
	return err
}
