package domain

import (
	"fmt"
	"time"
)

// RoleMRC is the role name under which a volume's metadata service is
// registered with the directory service.
const RoleMRC = "mrc"

// AddressMapping describes one network location for a service instance.
// Mappings are produced by the directory service and never mutated by the
// client; an expired mapping is discarded and re-fetched.
type AddressMapping struct {
	UUID     string
	Protocol string
	Address  string
	Port     int
	TTL      time.Duration
}

// Endpoint returns the URI form of the mapping, e.g. "tcp://10.0.0.5:14".
func (m AddressMapping) Endpoint() string {
	return fmt.Sprintf("%s://%s:%d", m.Protocol, m.Address, m.Port)
}

// RoleEntry is one role-name/value pair of a service registration.
// Order matters: lookups scan entries in the order the directory returned them.
type RoleEntry struct {
	Role  string
	Value string
}

// ServiceRecord is the result of a service-by-name query. It is transient
// and re-fetched on every volume resolution, never cached.
type ServiceRecord struct {
	UUID string
	Data []RoleEntry
}

// Role returns the value registered under the given role name and whether it
// was present. The first matching entry wins.
func (s ServiceRecord) Role(name string) (string, bool) {
	for _, e := range s.Data {
		if e.Role == name {
			return e.Value, true
		}
	}
	return "", false
}
