package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// StorageFactory builds the storage collaborator for one client's
// session. Each client gets its own isolated key space.
type StorageFactory func(clientID string) ports.SessionStorage

// Client bundles the per-client admission core: the session store that
// owns the client's authenticated context, the admission controller that
// consults it, and the denial flow that presents blocked navigations.
type Client struct {
	ID        string
	Sessions  *SessionStore
	Admission *AdmissionController
	Denial    *DenialFlow
}

// ClientRegistry hands out the admission core for each client, restoring
// persisted sessions lazily on first touch. The registry is the only
// place client state is created, so the session store stays the sole
// mutator of its session.
type ClientRegistry struct {
	mu      sync.Mutex
	factory StorageFactory
	catalog *access.Catalog
	logger  *slog.Logger
	clients map[string]*Client
}

// NewClientRegistry constructs a registry over the given catalog and
// per-client storage factory.
func NewClientRegistry(factory StorageFactory, catalog *access.Catalog, logger *slog.Logger) *ClientRegistry {
	return &ClientRegistry{
		factory: factory,
		catalog: catalog,
		logger:  logger,
		clients: make(map[string]*Client),
	}
}

// Client returns the admission core for the given client, creating and
// restoring it on first use. Session reconstruction happens here, before
// any admission check for the client can run.
func (r *ClientRegistry) Client(ctx context.Context, clientID string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[clientID]; ok {
		return c
	}

	sessions := NewSessionStore(ctx, r.factory(clientID), r.logger)
	admission := NewAdmissionController(r.catalog, sessions)
	c := &Client{
		ID:        clientID,
		Sessions:  sessions,
		Admission: admission,
		Denial:    NewDenialFlow(admission, sessions),
	}
	r.clients[clientID] = c
	return c
}

// Evict drops a client's in-memory state. Persisted sessions survive and
// are restored on the next touch.
func (r *ClientRegistry) Evict(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, clientID)
}
