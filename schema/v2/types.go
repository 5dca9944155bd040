// Package v2 holds the current shape of the instance document: radarr and
// sonarr sections are maps keyed by a user-chosen instance name.
package v2

// QualityScoreConfig overrides the score of a custom format in one quality profile
type QualityScoreConfig struct {
	Name  string `yaml:"name"`
	Score *int   `yaml:"score,omitempty"`
}

// CustomFormatConfig selects custom formats by trash ID
type CustomFormatConfig struct {
	TrashIDs        []string             `yaml:"trash_ids,omitempty"`
	QualityProfiles []QualityScoreConfig `yaml:"quality_profiles,omitempty"`
}

// QualitySizeConfig selects a quality definition (sizing) strategy
type QualitySizeConfig struct {
	Type           string   `yaml:"type"`
	PreferredRatio *float64 `yaml:"preferred_ratio,omitempty"`
}

// QualityProfileConfig contains per-profile sync settings
type QualityProfileConfig struct {
	Name                 string `yaml:"name"`
	ResetUnmatchedScores bool   `yaml:"reset_unmatched_scores,omitempty"`
}

// ServiceConfig holds the settings shared by every service instance.
// CustomFormats and QualityProfiles are never nil once a document is parsed.
type ServiceConfig struct {
	BaseURL                      string                 `yaml:"base_url"`
	APIKey                       string                 `yaml:"api_key"`
	DeleteOldCustomFormats       bool                   `yaml:"delete_old_custom_formats,omitempty"`
	ReplaceExistingCustomFormats bool                   `yaml:"replace_existing_custom_formats,omitempty"`
	CustomFormats                []CustomFormatConfig   `yaml:"custom_formats"`
	QualityDefinition            *QualitySizeConfig     `yaml:"quality_definition,omitempty"`
	QualityProfiles              []QualityProfileConfig `yaml:"quality_profiles"`
}

// ReleaseProfileFilterConfig restricts a release profile to some terms
type ReleaseProfileFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// ReleaseProfileConfig selects Sonarr release profiles by trash ID
type ReleaseProfileConfig struct {
	TrashIDs             []string                    `yaml:"trash_ids,omitempty"`
	StrictNegativeScores bool                        `yaml:"strict_negative_scores,omitempty"`
	Tags                 []string                    `yaml:"tags,omitempty"`
	Filter               *ReleaseProfileFilterConfig `yaml:"filter,omitempty"`
}

// RadarrConfig is one Radarr instance
type RadarrConfig struct {
	ServiceConfig `yaml:",inline"`
}

// SonarrConfig is one Sonarr instance. ReleaseProfiles is never nil once parsed.
type SonarrConfig struct {
	ServiceConfig   `yaml:",inline"`
	ReleaseProfiles []ReleaseProfileConfig `yaml:"release_profiles"`
}

// RootConfig is the whole document, keyed by instance name
type RootConfig struct {
	Radarr map[string]RadarrConfig `yaml:"radarr"`
	Sonarr map[string]SonarrConfig `yaml:"sonarr"`
}

// Normalize replaces absent non-optional collections with empty ones so that
// a directly parsed document and an upgraded one have the same shape.
func (c *RootConfig) Normalize() {
	if c.Radarr == nil {
		c.Radarr = make(map[string]RadarrConfig)
	}
	if c.Sonarr == nil {
		c.Sonarr = make(map[string]SonarrConfig)
	}

	for name, instance := range c.Radarr {
		instance.ServiceConfig.normalize()
		c.Radarr[name] = instance
	}
	for name, instance := range c.Sonarr {
		instance.ServiceConfig.normalize()
		if instance.ReleaseProfiles == nil {
			instance.ReleaseProfiles = []ReleaseProfileConfig{}
		}
		c.Sonarr[name] = instance
	}
}

func (s *ServiceConfig) normalize() {
	if s.CustomFormats == nil {
		s.CustomFormats = []CustomFormatConfig{}
	}
	if s.QualityProfiles == nil {
		s.QualityProfiles = []QualityProfileConfig{}
	}
}
