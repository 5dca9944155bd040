package arr

import (
	"context"
	"time"

	"github.com/s0up4200/arrconf/schema"
)

// ServiceAPI is the part of a Radarr or Sonarr API the checker uses
type ServiceAPI interface {
	// Ping verifies the instance is reachable and the API key is accepted
	Ping() error

	// QualityProfileNames lists the quality profiles defined on the instance
	QualityProfileNames(ctx context.Context) ([]string, error)
}

// Dialer creates a ServiceAPI for a configured instance
type Dialer func(inst schema.Instance, timeout time.Duration) (ServiceAPI, error)
