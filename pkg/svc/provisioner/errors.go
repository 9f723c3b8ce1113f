package provisioner

import (
	"fmt"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
)

// ErrInvalidNodeName is returned for node names that cannot be used as a
// registry section.
var ErrInvalidNodeName = fmt.Errorf("%w: invalid node name", v1alpha1.ErrInvalidConfiguration)
