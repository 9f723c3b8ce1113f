package registry

import "errors"

// ErrStoreCorrupt is returned when the registry file cannot be parsed or a
// section lacks an instance ID or address. It is never treated as an empty
// registry, since that would re-provision and orphan tracked instances.
var ErrStoreCorrupt = errors.New("instance registry is corrupt")

// ErrInvalidRecord is returned when a record without a name, instance ID or
// address is stored.
var ErrInvalidRecord = errors.New("invalid node record")
