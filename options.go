package fronius

import (
	"fmt"
	"log/slog"
	"net/http"
)

type OptionFunc func(*Client) error

func WithTransport(transport Transport) OptionFunc {
	return func(client *Client) error {
		if transport == nil {
			return fmt.Errorf("transport must not be nil")
		}
		client.transport = transport
		return nil
	}
}

// WithHTTPClient uses httpClient for the default transport.
func WithHTTPClient(httpClient *http.Client) OptionFunc {
	return func(client *Client) error {
		client.transport = &HTTPTransport{Client: httpClient}
		return nil
	}
}

// WithAPIVersion skips version discovery for V0 and V1. Any other version than
// APIVersionAuto is checked against the device on first use.
func WithAPIVersion(version APIVersion) OptionFunc {
	return func(client *Client) error {
		client.apiVersion = version
		client.basePath = basePaths[version]
		return nil
	}
}

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(client *Client) error {
		client.logger = logger
		return nil
	}
}

func WithNotification(notification Notification) OptionFunc {
	return func(client *Client) error {
		client.notification = notification
		return nil
	}
}
