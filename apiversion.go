package fronius

import (
	"context"
	"fmt"
	"log/slog"
)

type APIVersion int

const (
	APIVersionAuto APIVersion = -1
	APIVersionV0   APIVersion = 0
	APIVersionV1   APIVersion = 1
)

func (v APIVersion) String() string {
	switch v {
	case APIVersionAuto:
		return "auto"
	case APIVersionV0:
		return "v0"
	case APIVersionV1:
		return "v1"
	}
	return fmt.Sprintf("v%d", int(v))
}

// FetchAPIVersion asks the device for the highest API version it supports and the base
// path of that version. Devices that only speak v0 answer the query with a 404 page, which
// is reported as v0.
func (c *Client) FetchAPIVersion(ctx context.Context) (APIVersion, string, error) {
	url := c.url + apiVersionPath
	res, err := c.transport.GetJSON(ctx, url)
	if err != nil {
		if KindOf(err) == KindInvalidReply {
			return APIVersionV0, basePaths[APIVersionV0], nil
		}
		return APIVersionAuto, "", err
	}

	doc, ok := asPayload(res)
	if !ok {
		return APIVersionAuto, "", fmt.Errorf("unexpected API version reply from %s", url)
	}
	number, ok := doc.number("APIVersion")
	if !ok {
		return APIVersionAuto, "", fmt.Errorf("API version missing in reply from %s", url)
	}
	version := APIVersion(int(number))
	if _, known := basePaths[version]; !known {
		return APIVersionAuto, "", fmt.Errorf("unsupported API version %d reported by %s", int(number), c.url)
	}
	base, ok := doc.str("BaseURL")
	if !ok || base == "" {
		base = basePaths[version]
	}
	return version, base, nil
}

// resolveAPIVersion returns the cached API version, probing the device once if needed.
// Concurrent callers share a single probe, which outlives the caller that started it. Each
// caller stops waiting when its own ctx is done.
func (c *Client) resolveAPIVersion(ctx context.Context) (APIVersion, string, error) {
	c.mu.Lock()
	version, base := c.apiVersion, c.basePath
	c.mu.Unlock()
	if base != "" {
		return version, base, nil
	}

	probeCtx := context.WithoutCancel(ctx)
	ch := c.probe.DoChan("api-version", func() (any, error) {
		c.mu.Lock()
		resolved := c.basePath != ""
		c.mu.Unlock()
		if resolved {
			return nil, nil
		}

		found, foundBase, err := c.FetchAPIVersion(probeCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		previous := c.apiVersion
		c.apiVersion = found
		c.basePath = foundBase
		c.mu.Unlock()

		if previous == APIVersionAuto {
			c.logger.Debug("using highest supported API version", slog.String("version", found.String()), slog.String("url", c.url))
		} else if previous != found {
			c.logger.Warn("API version not supported by host, using highest supported API version instead",
				slog.String("requested", previous.String()),
				slog.String("version", found.String()),
				slog.String("url", c.url))
		}
		c.notification.APIVersionResolved(found, foundBase)
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return APIVersionAuto, "", &Error{Kind: KindTransport, Endpoint: c.url + apiVersionPath, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return APIVersionAuto, "", res.Err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiVersion, c.basePath, nil
}
