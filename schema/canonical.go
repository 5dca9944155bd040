package schema

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"

	v2 "github.com/s0up4200/arrconf/schema/v2"
)

// Service names the kind of service an instance talks to
type Service string

const (
	ServiceRadarr Service = "radarr"
	ServiceSonarr Service = "sonarr"
)

// Config is the canonical in-memory form of an instance document, used by
// everything downstream of parsing. Instances are ordered by name.
type Config struct {
	Radarr []RadarrInstance
	Sonarr []SonarrInstance
}

// Instance is one configured service instance
type Instance struct {
	Service                      Service
	Name                         string
	BaseURL                      string
	APIKey                       string
	DeleteOldCustomFormats       bool
	ReplaceExistingCustomFormats bool
	CustomFormats                []CustomFormat
	QualityDefinition            *QualitySize
	QualityProfiles              []QualityProfile
}

// RadarrInstance is a Radarr instance
type RadarrInstance struct {
	Instance
}

// SonarrInstance is a Sonarr instance with its release profiles
type SonarrInstance struct {
	Instance
	ReleaseProfiles []ReleaseProfile
}

// CustomFormat selects custom formats by trash ID
type CustomFormat struct {
	TrashIDs      []string
	ScoreOverride []QualityScore
}

// QualityScore overrides a custom format score in the named quality profile
type QualityScore struct {
	Name  string
	Score *int
}

// QualitySize selects a quality definition strategy
type QualitySize struct {
	Type           string
	PreferredRatio *float64
}

// QualityProfile holds per-profile sync settings
type QualityProfile struct {
	Name                 string
	ResetUnmatchedScores bool
}

// ReleaseProfile selects Sonarr release profiles by trash ID
type ReleaseProfile struct {
	TrashIDs             []string
	StrictNegativeScores bool
	Tags                 []string
	Filter               *ReleaseProfileFilter
}

// ReleaseProfileFilter restricts a release profile to some terms
type ReleaseProfileFilter struct {
	Include []string
	Exclude []string
}

// Instances returns every instance, Radarr first, each group ordered by name
func (c *Config) Instances() []Instance {
	out := make([]Instance, 0, len(c.Radarr)+len(c.Sonarr))
	for _, r := range c.Radarr {
		out = append(out, r.Instance)
	}
	for _, s := range c.Sonarr {
		out = append(out, s.Instance)
	}
	return out
}

// ReferencedProfiles returns the distinct quality profile names an instance
// refers to, either directly or through custom format score overrides
func (i *Instance) ReferencedProfiles() []string {
	seen := make(map[string]struct{})
	for _, qp := range i.QualityProfiles {
		seen[qp.Name] = struct{}{}
	}
	for _, cf := range i.CustomFormats {
		for _, score := range cf.ScoreOverride {
			seen[score.Name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// FromV2 converts a current-shape document to the canonical form
func FromV2(doc v2.RootConfig) Config {
	cfg := Config{
		Radarr: make([]RadarrInstance, 0, len(doc.Radarr)),
		Sonarr: make([]SonarrInstance, 0, len(doc.Sonarr)),
	}

	for _, name := range sortedNames(doc.Radarr) {
		cfg.Radarr = append(cfg.Radarr, RadarrInstance{
			Instance: fromService(ServiceRadarr, name, doc.Radarr[name].ServiceConfig),
		})
	}

	for _, name := range sortedNames(doc.Sonarr) {
		src := doc.Sonarr[name]
		inst := SonarrInstance{
			Instance:        fromService(ServiceSonarr, name, src.ServiceConfig),
			ReleaseProfiles: make([]ReleaseProfile, 0, len(src.ReleaseProfiles)),
		}
		for _, rp := range src.ReleaseProfiles {
			inst.ReleaseProfiles = append(inst.ReleaseProfiles, fromReleaseProfile(rp))
		}
		cfg.Sonarr = append(cfg.Sonarr, inst)
	}

	return cfg
}

func fromService(service Service, name string, src v2.ServiceConfig) Instance {
	inst := Instance{
		Service:                      service,
		Name:                         name,
		BaseURL:                      src.BaseURL,
		APIKey:                       src.APIKey,
		DeleteOldCustomFormats:       src.DeleteOldCustomFormats,
		ReplaceExistingCustomFormats: src.ReplaceExistingCustomFormats,
		CustomFormats:                make([]CustomFormat, 0, len(src.CustomFormats)),
		QualityProfiles:              make([]QualityProfile, 0, len(src.QualityProfiles)),
	}

	for _, cf := range src.CustomFormats {
		out := CustomFormat{TrashIDs: slices.Clone(cf.TrashIDs)}
		if cf.QualityProfiles != nil {
			out.ScoreOverride = make([]QualityScore, 0, len(cf.QualityProfiles))
			for _, qs := range cf.QualityProfiles {
				out.ScoreOverride = append(out.ScoreOverride, QualityScore{
					Name:  qs.Name,
					Score: clonePtr(qs.Score),
				})
			}
		}
		inst.CustomFormats = append(inst.CustomFormats, out)
	}

	if src.QualityDefinition != nil {
		inst.QualityDefinition = &QualitySize{
			Type:           src.QualityDefinition.Type,
			PreferredRatio: clonePtr(src.QualityDefinition.PreferredRatio),
		}
	}

	for _, qp := range src.QualityProfiles {
		inst.QualityProfiles = append(inst.QualityProfiles, QualityProfile{
			Name:                 qp.Name,
			ResetUnmatchedScores: qp.ResetUnmatchedScores,
		})
	}

	return inst
}

func fromReleaseProfile(src v2.ReleaseProfileConfig) ReleaseProfile {
	rp := ReleaseProfile{
		TrashIDs:             slices.Clone(src.TrashIDs),
		StrictNegativeScores: src.StrictNegativeScores,
		Tags:                 slices.Clone(src.Tags),
	}
	if src.Filter != nil {
		rp.Filter = &ReleaseProfileFilter{
			Include: slices.Clone(src.Filter.Include),
			Exclude: slices.Clone(src.Filter.Exclude),
		}
	}
	return rp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortedNames[V any](m map[string]V) []string {
	return slices.SortedFunc(maps.Keys(m), compareNames)
}

// compareNames orders names by their non-numeric prefix, then by the numeric
// suffix, so instance2 sorts before instance10. A name without a suffix sorts
// before the numbered ones sharing its prefix. Ties fall back to the full
// string, which keeps the order total.
func compareNames(a, b string) int {
	aPrefix, aNum := splitNumericSuffix(a)
	bPrefix, bNum := splitNumericSuffix(b)
	return cmp.Or(
		strings.Compare(aPrefix, bPrefix),
		cmp.Compare(aNum, bNum),
		strings.Compare(a, b),
	)
}

func splitNumericSuffix(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}
	return s[:i], n
}
