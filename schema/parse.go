package schema

import (
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	v1 "github.com/s0up4200/arrconf/schema/v1"
	v2 "github.com/s0up4200/arrconf/schema/v2"
)

// Version identifies the shape a document was written in
type Version string

const (
	// VersionCurrent is the map-of-instances shape
	VersionCurrent Version = "v2"
	// VersionLegacy is the list-of-instances shape
	VersionLegacy Version = "v1"
)

// Result is a successfully parsed document in the current shape
type Result struct {
	Config v2.RootConfig
	// Version is the shape the input was written in. VersionLegacy means the
	// instance names in Config were generated.
	Version Version
}

// Migrated reports whether the document was upgraded from the legacy shape
func (r *Result) Migrated() bool {
	return r.Version == VersionLegacy
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used for diagnostics about the detected version
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser detects the schema version of instance documents and returns them in
// the current shape. A Parser holds no per-document state and may be shared.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new Parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse parses raw as the current schema and falls back to the legacy schema.
// A legacy document is upgraded with freshly generated instance names. When
// both attempts fail the returned *ParseError wraps the current-schema error.
func (p *Parser) Parse(raw string) (*Result, error) {
	cfg, currentErr := parseCurrent(raw)
	if currentErr == nil {
		p.logger.Debug().Msg("Parsed instance document with current schema")
		return &Result{Config: cfg, Version: VersionCurrent}, nil
	}

	p.logger.Debug().Err(currentErr).Msg("Current schema did not match, trying legacy schema")

	legacy, legacyErr := parseLegacy(raw)
	if legacyErr != nil {
		p.logger.Debug().Err(legacyErr).Msg("Legacy schema did not match either")
		return nil, &ParseError{Current: currentErr, Legacy: legacyErr}
	}

	cfg = v2.Upgrade(legacy, v2.NewNamer())
	cfg.Normalize()

	p.logger.Warn().
		Int("radarr_instances", len(cfg.Radarr)).
		Int("sonarr_instances", len(cfg.Sonarr)).
		Msg("Instance document uses deprecated list-based sections, generated instance names")

	return &Result{Config: cfg, Version: VersionLegacy}, nil
}

// Parse parses raw with a default Parser and returns the current-shape model
func Parse(raw string) (*v2.RootConfig, error) {
	res, err := NewParser().Parse(raw)
	if err != nil {
		return nil, err
	}
	return &res.Config, nil
}

// Load parses raw and converts it to the canonical model
func Load(raw string) (*Config, error) {
	cfg, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	canonical := FromV2(*cfg)
	return &canonical, nil
}

func parseCurrent(raw string) (v2.RootConfig, *MismatchError) {
	var cfg v2.RootConfig
	if err := decode(raw, VersionCurrent, &cfg); err != nil {
		return v2.RootConfig{}, err
	}
	cfg.Normalize()
	return cfg, nil
}

func parseLegacy(raw string) (v1.RootConfig, *MismatchError) {
	var cfg v1.RootConfig
	if err := decode(raw, VersionLegacy, &cfg); err != nil {
		return v1.RootConfig{}, err
	}
	return cfg, nil
}

// decode strictly decodes raw into out and then checks required fields on
// the node tree. out is only meaningful when the returned error is nil.
func decode(raw string, version Version, out any) *MismatchError {
	dec := yaml.NewDecoder(strings.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return newMismatchError(version, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return newMismatchError(version, err)
	}

	return checkRequired(version, &root)
}
