package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"evocpi/utility"
)

const (
	defaultAttempts = 3
	requestTimeout  = 10 * time.Second
)

// Client talks to one remote OCPI endpoint using a credentials token
type Client struct {
	client   *http.Client
	url      string
	token    string
	attempts int
	backoff  time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRetry sets the number of attempts and the base delay between them
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.backoff = backoff
	}
}

func New(url, token string, opts ...Option) *Client {
	c := &Client{
		url:      strings.TrimRight(url, "/"),
		token:    token,
		client:   &http.Client{Timeout: requestTimeout},
		attempts: defaultAttempts,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Data          json.RawMessage `json:"data"`
	StatusCode    int             `json:"status_code"`
	StatusMessage string          `json:"status_message"`
}

// StatusError is returned when the remote side answers with a non-success envelope
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ocpi status %d: %s", e.StatusCode, e.Message)
}

// Post sends data to endpoint and decodes the data member of the reply
// envelope into out; endpoint may be a path below the client url or an
// absolute url
func (c *Client) Post(ctx context.Context, endpoint string, data, out interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshalling body: %w", err)
	}
	var reply []byte
	for attempt := 0; attempt < c.attempts; attempt++ {
		reply, err = c.doRequest(ctx, http.MethodPost, c.endpointUrl(endpoint), body)
		if err == nil {
			break
		}
		if ctx.Err() != nil || attempt == c.attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * c.backoff):
		}
	}

	var env envelope
	if err = json.Unmarshal(reply, &env); err != nil {
		return fmt.Errorf("decoding reply: %w", err)
	}
	if env.StatusCode != 0 && env.StatusCode != 1000 {
		return &StatusError{StatusCode: env.StatusCode, Message: env.StatusMessage}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding reply data: %w", err)
	}
	return nil
}

func (c *Client) endpointUrl(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.url + endpoint
}

func (c *Client) doRequest(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	req.Header.Set("X-Request-ID", utility.NewUUID())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("received non-2xx status code: %d", resp.StatusCode)
	}

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return reply, nil
}
