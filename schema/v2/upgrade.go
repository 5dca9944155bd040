package v2

import (
	previous "github.com/s0up4200/arrconf/schema/v1"
)

// UpgradeLegacy converts a legacy document using a fresh Namer
func UpgradeLegacy(old previous.RootConfig) RootConfig {
	return Upgrade(old, NewNamer())
}

// Upgrade converts a legacy document into the current shape. Radarr entries
// are named first, then Sonarr entries, all from the same Namer, so every
// synthesized name in the result is unique. List order decides numbering.
func Upgrade(old previous.RootConfig, names *Namer) RootConfig {
	cfg := RootConfig{
		Radarr: make(map[string]RadarrConfig, len(old.Radarr)),
		Sonarr: make(map[string]SonarrConfig, len(old.Sonarr)),
	}

	for _, instance := range old.Radarr {
		cfg.Radarr[names.Next()] = upgradeRadarr(instance)
	}
	for _, instance := range old.Sonarr {
		cfg.Sonarr[names.Next()] = upgradeSonarr(instance)
	}

	return cfg
}

func upgradeRadarr(old previous.RadarrConfig) RadarrConfig {
	return RadarrConfig{
		ServiceConfig: upgradeService(old.ServiceConfig),
	}
}

func upgradeSonarr(old previous.SonarrConfig) SonarrConfig {
	profiles := make([]ReleaseProfileConfig, 0, len(old.ReleaseProfiles))
	for _, rp := range old.ReleaseProfiles {
		profiles = append(profiles, upgradeReleaseProfile(rp))
	}

	return SonarrConfig{
		ServiceConfig:   upgradeService(old.ServiceConfig),
		ReleaseProfiles: profiles,
	}
}

func upgradeService(old previous.ServiceConfig) ServiceConfig {
	svc := ServiceConfig{
		BaseURL:                      old.BaseURL,
		APIKey:                       old.APIKey,
		DeleteOldCustomFormats:       old.DeleteOldCustomFormats,
		ReplaceExistingCustomFormats: old.ReplaceExistingCustomFormats,
		CustomFormats:                make([]CustomFormatConfig, 0, len(old.CustomFormats)),
		QualityProfiles:              make([]QualityProfileConfig, 0, len(old.QualityProfiles)),
	}

	for _, cf := range old.CustomFormats {
		svc.CustomFormats = append(svc.CustomFormats, upgradeCustomFormat(cf))
	}
	if old.QualityDefinition != nil {
		svc.QualityDefinition = &QualitySizeConfig{
			Type:           old.QualityDefinition.Type,
			PreferredRatio: copyPtr(old.QualityDefinition.PreferredRatio),
		}
	}
	for _, qp := range old.QualityProfiles {
		svc.QualityProfiles = append(svc.QualityProfiles, QualityProfileConfig{
			Name:                 qp.Name,
			ResetUnmatchedScores: qp.ResetUnmatchedScores,
		})
	}

	return svc
}

func upgradeCustomFormat(old previous.CustomFormatConfig) CustomFormatConfig {
	cf := CustomFormatConfig{
		TrashIDs: copyStrings(old.TrashIDs),
	}
	if old.QualityProfiles != nil {
		cf.QualityProfiles = make([]QualityScoreConfig, 0, len(old.QualityProfiles))
		for _, qs := range old.QualityProfiles {
			cf.QualityProfiles = append(cf.QualityProfiles, QualityScoreConfig{
				Name:  qs.Name,
				Score: copyPtr(qs.Score),
			})
		}
	}
	return cf
}

func upgradeReleaseProfile(old previous.ReleaseProfileConfig) ReleaseProfileConfig {
	rp := ReleaseProfileConfig{
		TrashIDs:             copyStrings(old.TrashIDs),
		StrictNegativeScores: old.StrictNegativeScores,
		Tags:                 copyStrings(old.Tags),
	}
	if old.Filter != nil {
		rp.Filter = &ReleaseProfileFilterConfig{
			Include: copyStrings(old.Filter.Include),
			Exclude: copyStrings(old.Filter.Exclude),
		}
	}
	return rp
}

// copyStrings keeps nil as nil so absent optional sets stay absent
func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
