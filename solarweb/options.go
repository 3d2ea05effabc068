package solarweb

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type OptionFunc func(*Client) error

func WithBaseURL(baseURL string) OptionFunc {
	return func(client *Client) error {
		baseURL = strings.TrimRight(baseURL, "/")
		if baseURL == "" {
			return fmt.Errorf("invalid or missing base url")
		}
		client.baseURL = baseURL
		return nil
	}
}

// WithRetry sets the number of retries after the first attempt and the bounds of the
// randomized exponential backoff between attempts.
func WithRetry(count int, waitTime, maxWaitTime time.Duration) OptionFunc {
	return func(client *Client) error {
		if count < 0 {
			return fmt.Errorf("retry count must not be negative")
		}
		if waitTime > maxWaitTime {
			return fmt.Errorf("retry wait time %s exceeds maximum %s", waitTime, maxWaitTime)
		}
		client.retryCount = count
		client.retryWaitTime = waitTime
		client.retryMaxWaitTime = maxWaitTime
		return nil
	}
}

// WithJWT authenticates requests with a bearer token in addition to the access key.
// Expired tokens are rejected.
func WithJWT(token string) OptionFunc {
	return func(client *Client) error {
		expires, err := TokenExpiry(token)
		if err != nil {
			return fmt.Errorf("parsing token: %w", err)
		}
		if expires.Before(time.Now()) {
			return fmt.Errorf("token expired at %s", expires.Format(time.RFC3339))
		}
		client.token = token
		client.tokenExpires = expires
		return nil
	}
}

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(client *Client) error {
		client.logger = logger
		return nil
	}
}

// WithRestyClient uses restyClient for requests. Base URL, headers and retry settings
// of the client are overwritten.
func WithRestyClient(restyClient *resty.Client) OptionFunc {
	return func(client *Client) error {
		client.http = restyClient
		return nil
	}
}
