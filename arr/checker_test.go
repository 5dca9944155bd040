package arr

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/arrconf/schema"
)

// mockServiceAPI implements ServiceAPI for testing
type mockServiceAPI struct {
	pingErr    error
	profiles   []string
	profileErr error
}

func (m *mockServiceAPI) Ping() error {
	return m.pingErr
}

func (m *mockServiceAPI) QualityProfileNames(ctx context.Context) ([]string, error) {
	return m.profiles, m.profileErr
}

func dialerFor(apis map[string]ServiceAPI) Dialer {
	return func(inst schema.Instance, timeout time.Duration) (ServiceAPI, error) {
		api, ok := apis[inst.Name]
		if !ok {
			return nil, errors.New("no mock for " + inst.Name)
		}
		return api, nil
	}
}

func TestCheck(t *testing.T) {
	instances := []schema.Instance{
		{
			Service:         schema.ServiceRadarr,
			Name:            "movies",
			QualityProfiles: []schema.QualityProfile{{Name: "HD-1080p"}},
			CustomFormats: []schema.CustomFormat{
				{ScoreOverride: []schema.QualityScore{{Name: "UHD"}}},
			},
		},
		{
			Service:         schema.ServiceSonarr,
			Name:            "series",
			QualityProfiles: []schema.QualityProfile{{Name: "WEB-1080p"}},
		},
		{Service: schema.ServiceSonarr, Name: "offline"},
		{Service: schema.ServiceRadarr, Name: "broken"},
		{Service: schema.ServiceRadarr, Name: "undialable"},
	}

	apis := map[string]ServiceAPI{
		"movies":  &mockServiceAPI{profiles: []string{"HD-1080p", "Any"}},
		"series":  &mockServiceAPI{profiles: []string{"WEB-1080p"}},
		"offline": &mockServiceAPI{pingErr: errors.New("connection refused")},
		"broken":  &mockServiceAPI{profileErr: errors.New("boom")},
	}

	checker := NewChecker(zerolog.Nop(), WithDialer(dialerFor(apis)), WithConcurrency(2))
	results := checker.Check(context.Background(), instances)
	require.Len(t, results, len(instances))

	movies := results[0]
	assert.Equal(t, "movies", movies.Name)
	assert.True(t, movies.Reachable)
	assert.Equal(t, []string{"UHD"}, movies.MissingProfiles)
	assert.False(t, movies.OK())

	series := results[1]
	assert.True(t, series.OK())
	assert.Empty(t, series.MissingProfiles)

	offline := results[2]
	assert.False(t, offline.Reachable)
	require.Error(t, offline.Err)
	assert.Contains(t, offline.Err.Error(), "connection refused")

	broken := results[3]
	assert.True(t, broken.Reachable)
	assert.EqualError(t, broken.Err, "boom")
	assert.False(t, broken.OK())

	undialable := results[4]
	assert.False(t, undialable.Reachable)
	assert.Error(t, undialable.Err)
}

func TestCheckRespectsConcurrency(t *testing.T) {
	var running, peak atomic.Int32

	dial := func(inst schema.Instance, timeout time.Duration) (ServiceAPI, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return &mockServiceAPI{}, nil
	}

	instances := make([]schema.Instance, 10)
	for i := range instances {
		instances[i] = schema.Instance{Service: schema.ServiceRadarr, Name: "r"}
	}

	results := NewChecker(zerolog.Nop(), WithDialer(dial), WithConcurrency(3)).
		Check(context.Background(), instances)

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	for _, r := range results {
		assert.True(t, r.OK())
	}
}

func TestCheckCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dial := func(inst schema.Instance, timeout time.Duration) (ServiceAPI, error) {
		t.Error("dial must not be called after cancellation")
		return nil, nil
	}

	results := NewChecker(zerolog.Nop(), WithDialer(dial)).
		Check(ctx, []schema.Instance{{Service: schema.ServiceRadarr, Name: "movies"}})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestDial(t *testing.T) {
	api, err := Dial(schema.Instance{Service: schema.ServiceRadarr, BaseURL: "http://localhost:7878", APIKey: "k"}, time.Second)
	require.NoError(t, err)
	assert.IsType(t, &radarrAPI{}, api)

	api, err = Dial(schema.Instance{Service: schema.ServiceSonarr, BaseURL: "http://localhost:8989", APIKey: "k"}, time.Second)
	require.NoError(t, err)
	assert.IsType(t, &sonarrAPI{}, api)

	_, err = Dial(schema.Instance{Service: "lidarr", Name: "music"}, time.Second)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	c := NewChecker(zerolog.Nop(), WithConcurrency(0), WithTimeout(-1))
	assert.Equal(t, DefaultConcurrency, c.concurrency)
	assert.Equal(t, DefaultTimeout, c.timeout)

	c = NewChecker(zerolog.Nop(), WithConcurrency(8), WithTimeout(time.Second))
	assert.Equal(t, 8, c.concurrency)
	assert.Equal(t, time.Second, c.timeout)
}
