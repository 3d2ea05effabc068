package fronius

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	discoveryService = "_http._tcp"
	discoveryTimeout = 2 * time.Second
)

// Discover returns the url of the first Fronius device found on the local network, or ""
// if there is none.
func Discover(ctx context.Context) (string, error) {
	urls, err := DiscoverAll(ctx)
	if err != nil || len(urls) == 0 {
		return "", err
	}
	return urls[0], nil
}

// DiscoverAll browses the local network for Fronius web servers and returns the urls of
// those answering the API version query.
func DiscoverAll(ctx context.Context) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	var candidates []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := map[string]bool{}
		for e := range entries {
			url, ok := candidateURL(e)
			if !ok || seen[url] {
				continue
			}
			seen[url] = true
			candidates = append(candidates, url)
		}
	}()

	params := mdns.DefaultParams(discoveryService)
	params.Entries = entries
	params.Timeout = queryTimeout(ctx)
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns query: %w", err)
	}

	var found []string
	for _, url := range candidates {
		client, err := NewClient(url)
		if err != nil {
			continue
		}
		if _, _, err := client.FetchAPIVersion(ctx); err != nil {
			continue
		}
		found = append(found, url)
	}
	return found, nil
}

// queryTimeout is the browse time of a discovery, cut short by the deadline of ctx.
func queryTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return discoveryTimeout
	}
	if left := time.Until(deadline); left < discoveryTimeout {
		return max(left, 0)
	}
	return discoveryTimeout
}

// candidateURL picks entries that announce a Fronius host over IPv4.
func candidateURL(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil {
		return "", false
	}
	name := strings.ToLower(e.Name + " " + e.Host)
	if !strings.Contains(name, "fronius") {
		return "", false
	}
	if e.Port == 0 || e.Port == 80 {
		return "http://" + e.AddrV4.String(), true
	}
	return fmt.Sprintf("http://%s:%d", e.AddrV4.String(), e.Port), true
}
