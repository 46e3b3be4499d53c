// Package discovery finds Terncy hubs on the local network through mDNS.
package discovery

import (
	"context"

	"github.com/grandcat/zeroconf"
)

// Hubs advertise a websocket endpoint, instance names start with the hub id
// prefix.
const (
	ServiceName = "_websocket._tcp"
	Domain      = "local."
	HubIDPrefix = "box-"
)

// MDNSResolver is the mDNS surface the browser consumes, injected so tests
// run without network I/O.
type MDNSResolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

type zeroconfResolver struct {
	resolver *zeroconf.Resolver
}

// NewMDNSResolver returns a resolver backed by multicast DNS on all
// interfaces.
func NewMDNSResolver() (MDNSResolver, error) {
	r, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, err
	}

	return &zeroconfResolver{resolver: r}, nil
}

func (z *zeroconfResolver) Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return z.resolver.Browse(ctx, service, domain, entries)
}
