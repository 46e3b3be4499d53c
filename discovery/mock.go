package discovery

import (
	"context"
	"sync"

	"github.com/grandcat/zeroconf"
)

// MockMDNSResolver replays queued service entries, for tests without
// network I/O.
type MockMDNSResolver struct {
	mu      sync.Mutex
	entries []*zeroconf.ServiceEntry
}

var _ MDNSResolver = (*MockMDNSResolver)(nil)

func NewMockMDNSResolver() *MockMDNSResolver {
	return &MockMDNSResolver{}
}

// QueueEntry adds an entry that the next Browse call will deliver.
func (m *MockMDNSResolver) QueueEntry(entry *zeroconf.ServiceEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *MockMDNSResolver) Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	m.mu.Lock()
	queued := make([]*zeroconf.ServiceEntry, len(m.entries))
	copy(queued, m.entries)
	m.mu.Unlock()

	defer close(entries)

	for _, entry := range queued {
		select {
		case entries <- entry:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
