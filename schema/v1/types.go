// Package v1 holds the legacy shape of the instance document, where the
// radarr and sonarr sections are lists and instances have no names.
//
// Documents in this shape are only ever read. They are upgraded to v2 before
// anything else looks at them.
package v1

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

// ServiceConfig holds the settings shared by every service instance
type ServiceConfig struct {
	BaseURL                      string                 `yaml:"base_url"`
	APIKey                       string                 `yaml:"api_key"`
	DeleteOldCustomFormats       bool                   `yaml:"delete_old_custom_formats,omitempty"`
	ReplaceExistingCustomFormats bool                   `yaml:"replace_existing_custom_formats,omitempty"`
	CustomFormats                []CustomFormatConfig   `yaml:"custom_formats,omitempty"`
	QualityDefinition            *QualitySizeConfig     `yaml:"quality_definition,omitempty"`
	QualityProfiles              []QualityProfileConfig `yaml:"quality_profiles,omitempty"`
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

// SonarrConfig is one Sonarr instance
type SonarrConfig struct {
	ServiceConfig   `yaml:",inline"`
	ReleaseProfiles []ReleaseProfileConfig `yaml:"release_profiles,omitempty"`
}

// RootConfig is the whole legacy document. Instance identity is positional.
type RootConfig struct {
	Radarr []RadarrConfig `yaml:"radarr,omitempty"`
	Sonarr []SonarrConfig `yaml:"sonarr,omitempty"`
}
