package discovery

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
)

// Service describes a discovered hub.
type Service struct {
	DevID string
	Host  string
	Port  int
	Text  map[string]string
}

// Name returns the human readable hub name from the TXT records, falling
// back to the dev id.
func (s Service) Name() string {
	if dn, ok := s.Text["dn"]; ok && dn != "" {
		return dn
	}

	return s.DevID
}

// Config wires a Browser. OnFound fires for every new or changed hub
// advertisement, OnLost when a hub sends a goodbye.
type Config struct {
	Resolver MDNSResolver
	OnFound  func(Service)
	OnLost   func(devID string)
}

// Browser watches the network for hub advertisements. Non-hub services on
// the same service type are ignored.
type Browser struct {
	cfg    Config
	logger logwrap.Logger

	known     map[string]Service
	knownLock *sync.RWMutex
}

func NewBrowser(cfg Config) *Browser {
	return &Browser{
		cfg:       cfg,
		logger:    logwrap.New(discard.Discard()),
		known:     map[string]Service{},
		knownLock: &sync.RWMutex{},
	}
}

func (b *Browser) WithLogWrapLogger(logger logwrap.Logger) {
	b.logger = logger
}

// Run browses until the context ends. Entries with a zero TTL are goodbye
// packets and mark the hub lost.
func (b *Browser) Run(ctx context.Context) error {
	entries := make(chan *zeroconf.ServiceEntry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.cfg.Resolver.Browse(ctx, ServiceName, Domain, entries)
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return <-errCh
			}
			b.handleEntry(ctx, entry)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Browser) handleEntry(ctx context.Context, entry *zeroconf.ServiceEntry) {
	if entry == nil || !strings.HasPrefix(entry.Instance, HubIDPrefix) {
		return
	}

	devID := entry.Instance

	if entry.TTL == 0 {
		b.knownLock.Lock()
		_, ok := b.known[devID]
		delete(b.known, devID)
		b.knownLock.Unlock()

		if ok {
			b.logger.LogInfo(ctx, "Hub advertisement withdrawn.", logwrap.Datum("devID", devID))

			if b.cfg.OnLost != nil {
				b.cfg.OnLost(devID)
			}
		}
		return
	}

	svc := Service{
		DevID: devID,
		Host:  preferredAddress(entry),
		Port:  entry.Port,
		Text:  parseTXT(entry.Text),
	}

	if svc.Host == "" {
		b.logger.LogWarn(ctx, "Hub advertisement carried no address, ignoring.", logwrap.Datum("devID", devID))
		return
	}

	b.knownLock.Lock()
	b.known[devID] = svc
	b.knownLock.Unlock()

	b.logger.LogInfo(ctx, "Hub discovered.", logwrap.Datum("devID", devID), logwrap.Datum("host", svc.Host), logwrap.Datum("port", svc.Port))

	if b.cfg.OnFound != nil {
		b.cfg.OnFound(svc)
	}
}

// Known returns the currently advertised hubs.
func (b *Browser) Known() []Service {
	b.knownLock.RLock()
	defer b.knownLock.RUnlock()

	services := make([]Service, 0, len(b.known))
	for _, svc := range b.known {
		services = append(services, svc)
	}

	return services
}

func preferredAddress(entry *zeroconf.ServiceEntry) string {
	var addrs []net.IP
	addrs = append(addrs, entry.AddrIPv4...)
	addrs = append(addrs, entry.AddrIPv6...)

	if len(addrs) == 0 {
		return ""
	}

	return addrs[0].String()
}

func parseTXT(records []string) map[string]string {
	txt := map[string]string{}

	for _, record := range records {
		if k, v, found := strings.Cut(record, "="); found {
			txt[k] = v
		}
	}

	return txt
}
