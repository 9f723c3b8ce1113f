package configmanager

import (
	"fmt"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
)

// ErrReadConfig is returned when a config or credentials file exists but cannot be read or parsed.
var ErrReadConfig = fmt.Errorf("%w: read config", v1alpha1.ErrInvalidConfiguration)
