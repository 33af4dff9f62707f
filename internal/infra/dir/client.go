// Package dir implements the client for the directory service, the
// filesystem's service-discovery authority for UUID-to-address and
// name-to-service mappings.
package dir

import (
	"context"

	"github.com/vietddude/dfsclient/internal/core/domain"
)

// Client is the directory service surface consumed by address and volume
// resolution. Both calls are remote and already run through the retry
// engine inside the implementations.
type Client interface {
	// GetAddressMappings returns all known network locations for a service
	// UUID, in the order the directory reports them.
	GetAddressMappings(ctx context.Context, uuid string) ([]domain.AddressMapping, error)

	// GetServicesByName returns all services registered under a name, in
	// the order the directory reports them.
	GetServicesByName(ctx context.Context, name string) ([]domain.ServiceRecord, error)
}
