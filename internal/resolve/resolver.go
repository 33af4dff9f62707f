package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/dfsclient/internal/core/domain"
	"github.com/vietddude/dfsclient/internal/infra/dir"
)

// VolumeResolver maps a volume name to the endpoint of the metadata service
// owning that volume. Service records are fetched fresh on every call; only
// the final UUID resolution goes through the cache.
type VolumeResolver struct {
	dir    dir.Client
	cache  *Cache
	logger *slog.Logger
}

// NewVolumeResolver creates a resolver over the given directory client and
// address cache.
func NewVolumeResolver(client dir.Client, cache *Cache, logger *slog.Logger) *VolumeResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &VolumeResolver{dir: client, cache: cache, logger: logger}
}

// ResolveVolume returns the metadata service endpoint for a volume name.
// Services and their role entries are scanned in the order the directory
// returned them; the first mrc entry wins, with no ranking or load
// preference. Fails with *UnknownVolumeError when no service carries an mrc
// entry.
func (r *VolumeResolver) ResolveVolume(ctx context.Context, name string) (string, error) {
	services, err := r.dir.GetServicesByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("services for volume %s: %w", name, err)
	}

	for _, svc := range services {
		if uuid, ok := svc.Role(domain.RoleMRC); ok {
			r.logger.Debug("resolved volume owner", "volume", name, "mrc_uuid", uuid)
			return r.cache.Resolve(ctx, uuid)
		}
	}

	return "", &UnknownVolumeError{Volume: name}
}
