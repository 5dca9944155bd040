package arr

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/arrconf/schema"
)

const (
	DefaultConcurrency = 5
	DefaultTimeout     = 30 * time.Second
)

// CheckResult is the outcome of checking one instance
type CheckResult struct {
	Service   schema.Service
	Name      string
	BaseURL   string
	Reachable bool
	// MissingProfiles are quality profile names the document refers to that
	// do not exist on the instance
	MissingProfiles []string
	Err             error
}

// OK reports whether the instance is reachable and every profile exists
func (r CheckResult) OK() bool {
	return r.Reachable && r.Err == nil && len(r.MissingProfiles) == 0
}

// Option configures a Checker
type Option func(*Checker)

// WithConcurrency limits how many instances are checked at once
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout sets the per-request timeout of the API clients
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithDialer replaces the function that creates API clients
func WithDialer(dial Dialer) Option {
	return func(c *Checker) {
		c.dial = dial
	}
}

// Checker verifies configured instances against the live services
type Checker struct {
	dial        Dialer
	concurrency int
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewChecker creates a new Checker
func NewChecker(logger zerolog.Logger, opts ...Option) *Checker {
	c := &Checker{
		dial:        Dial,
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check checks every instance concurrently. Results are in input order;
// a failing instance never stops the others.
func (c *Checker) Check(ctx context.Context, instances []schema.Instance) []CheckResult {
	results := make([]CheckResult, len(instances))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, inst := range instances {
		g.Go(func() error {
			results[i] = c.checkInstance(ctx, inst)
			return nil
		})
	}

	// Workers never return errors
	_ = g.Wait()

	return results
}

func (c *Checker) checkInstance(ctx context.Context, inst schema.Instance) CheckResult {
	result := CheckResult{
		Service: inst.Service,
		Name:    inst.Name,
		BaseURL: inst.BaseURL,
	}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	api, err := c.dial(inst, c.timeout)
	if err != nil {
		result.Err = err
		return result
	}

	if err := api.Ping(); err != nil {
		result.Err = fmt.Errorf("failed to connect to %s: %w", inst.Service, err)
		c.logger.Warn().Err(err).
			Str("service", string(inst.Service)).
			Str("instance", inst.Name).
			Msg("Instance is not reachable")
		return result
	}
	result.Reachable = true

	available, err := api.QualityProfileNames(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	for _, name := range inst.ReferencedProfiles() {
		if !slices.Contains(available, name) {
			result.MissingProfiles = append(result.MissingProfiles, name)
		}
	}

	c.logger.Debug().
		Str("service", string(inst.Service)).
		Str("instance", inst.Name).
		Int("profiles", len(available)).
		Strs("missing_profiles", result.MissingProfiles).
		Msg("Checked instance")

	return result
}
