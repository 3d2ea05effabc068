package fronius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const defaultTimeout = 10 * time.Second

// HTTPTransport is the default Transport. The HTTP status code is ignored, the reply
// envelope carries the device status.
type HTTPTransport struct {
	Client *http.Client
}

func (t *HTTPTransport) GetJSON(ctx context.Context, url string) (any, error) {
	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: url, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &Error{Kind: KindTransport, Endpoint: url, Err: fmt.Errorf("connection to fronius device timed out: %w", err)}
		}
		return nil, &Error{Kind: KindTransport, Endpoint: url, Err: fmt.Errorf("connection to fronius device failed: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: url, Err: fmt.Errorf("reading reply: %w", err)}
	}
	// Older Datamanager firmware sends Latin-1 custom names.
	if !utf8.Valid(body) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body); err == nil {
			body = decoded
		}
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &Error{Kind: KindInvalidReply, Endpoint: url, Err: fmt.Errorf("host returned a non-JSON reply (HTTP %d): %w", resp.StatusCode, err)}
	}
	return v, nil
}
