package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"formpost/display"
)

// FailurePrefix starts the text of every failed exchange.
const FailurePrefix = "An error occurred: "

// StatusError is returned for a response whose status is not 2xx.
type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.Code, e.Body)
}

// Response is a completed exchange.
type Response struct {
	StatusCode int
	Body       string
}

// Client posts JSON payloads to form endpoints.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewBackendClient creates a Client. Relative endpoints are resolved against
// baseURL; an empty baseURL leaves endpoints as given. A zero timeout leaves
// the exchange to the transport's own defaults.
func NewBackendClient(baseURL string, timeout time.Duration) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		c.baseURL = u
	}
	return c, nil
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Resolve returns the absolute URL for endpoint.
func (c *Client) Resolve(endpoint string) (string, error) {
	if c.baseURL == nil {
		return endpoint, nil
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// Post performs one exchange: the payload is sent verbatim as the request body
// with a JSON content type. A non-2xx response is returned as a StatusError
// whose body is read best-effort.
func (c *Client) Post(ctx context.Context, endpoint, payload string) (*Response, error) {
	target, err := c.Resolve(endpoint)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if readErr != nil {
			log.Debugf("Could not read error body from %s: %v", target, readErr)
		}
		return nil, StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading response body: %w", readErr)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// Send posts payload to endpoint and shows the result on target: the response
// text on success, FailurePrefix followed by the error otherwise. target is
// written exactly once. The displayed outcome is returned.
func (c *Client) Send(ctx context.Context, endpoint, payload string, target display.Target) display.Outcome {
	var outcome display.Outcome

	resp, err := c.Post(ctx, endpoint, payload)
	if err != nil {
		log.Debugf("POST %s failed: %v", endpoint, err)
		outcome = Failure(err)
	} else {
		log.Debugf("POST %s -- %d", endpoint, resp.StatusCode)
		outcome = display.Outcome{Text: resp.Body, Status: display.Success}
	}

	target.Show(outcome)
	return outcome
}

// Failure builds the failure outcome for err.
func Failure(err error) display.Outcome {
	return display.Outcome{Text: FailurePrefix + err.Error(), Status: display.Failure}
}
