package fronius

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
)

func TestCandidateURL(t *testing.T) {
	url, ok := candidateURL(&mdns.ServiceEntry{
		Name:   "Fronius Datamanager._http._tcp.local.",
		Host:   "datamanager.local.",
		AddrV4: net.ParseIP("192.168.0.10"),
		Port:   80,
	})
	assert.True(t, ok)
	assert.Equal(t, "http://192.168.0.10", url)

	url, ok = candidateURL(&mdns.ServiceEntry{
		Name:   "web._http._tcp.local.",
		Host:   "FRONIUS-GEN24.local.",
		AddrV4: net.ParseIP("192.168.0.11"),
		Port:   8080,
	})
	assert.True(t, ok)
	assert.Equal(t, "http://192.168.0.11:8080", url)

	_, ok = candidateURL(&mdns.ServiceEntry{Name: "printer._http._tcp.local.", AddrV4: net.ParseIP("192.168.0.12")})
	assert.False(t, ok)

	_, ok = candidateURL(&mdns.ServiceEntry{Name: "Fronius._http._tcp.local.", AddrV6: net.ParseIP("fe80::1")})
	assert.False(t, ok)

	_, ok = candidateURL(nil)
	assert.False(t, ok)
}

func TestQueryTimeout(t *testing.T) {
	assert.Equal(t, discoveryTimeout, queryTimeout(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	assert.Equal(t, discoveryTimeout, queryTimeout(ctx))

	ctx, cancel = context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	timeout := queryTimeout(ctx)
	assert.Greater(t, timeout, time.Duration(0))
	assert.LessOrEqual(t, timeout, 500*time.Millisecond)

	ctx, cancel = context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	assert.Equal(t, time.Duration(0), queryTimeout(ctx))
}
