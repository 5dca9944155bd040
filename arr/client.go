package arr

import (
	"context"
	"fmt"
	"time"

	"golift.io/starr"
	"golift.io/starr/radarr"
	"golift.io/starr/sonarr"

	"github.com/s0up4200/arrconf/schema"
)

// radarrAPI wraps the starr Radarr client
type radarrAPI struct {
	client *radarr.Radarr
}

func (r *radarrAPI) Ping() error {
	return r.client.Ping()
}

func (r *radarrAPI) QualityProfileNames(ctx context.Context) ([]string, error) {
	profiles, err := r.client.GetQualityProfilesContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get quality profiles: %w", err)
	}

	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names, nil
}

// sonarrAPI wraps the starr Sonarr client
type sonarrAPI struct {
	client *sonarr.Sonarr
}

func (s *sonarrAPI) Ping() error {
	return s.client.Ping()
}

func (s *sonarrAPI) QualityProfileNames(ctx context.Context) ([]string, error) {
	profiles, err := s.client.GetQualityProfilesContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get quality profiles: %w", err)
	}

	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names, nil
}

// Dial creates a starr-backed ServiceAPI for the instance's service
func Dial(inst schema.Instance, timeout time.Duration) (ServiceAPI, error) {
	config := starr.New(inst.APIKey, inst.BaseURL, timeout)

	switch inst.Service {
	case schema.ServiceRadarr:
		return &radarrAPI{client: radarr.New(config)}, nil
	case schema.ServiceSonarr:
		return &sonarrAPI{client: sonarr.New(config)}, nil
	default:
		return nil, fmt.Errorf("unsupported service %q for instance %s", inst.Service, inst.Name)
	}
}
