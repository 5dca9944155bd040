package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/arrconf/arr"
	"github.com/s0up4200/arrconf/schema"
)

const legacyDocument = `radarr:
  - base_url: http://radarr:7878
    api_key: key1
sonarr:
  - base_url: http://sonarr:8989
    api_key: key2
    quality_profiles:
      - name: WEB-1080p
`

const currentDocument = `radarr:
  movies:
    base_url: http://radarr:7878
    api_key: key1
  uhd:
    base_url: http://radarr-4k:7878
    api_key: key2
sonarr:
  tv:
    base_url: http://sonarr:8989
    api_key: key3
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	filterExpr, preset, outputFile = "", "", ""

	settings := writeFile(t, "arrconf.yaml", "logging:\n  level: error\n  color: false\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", settings}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestMigrateLegacyDocument(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", legacyDocument)

	out, err := execute(t, "migrate", "--instances", doc)
	require.NoError(t, err)

	res, err := schema.NewParser().Parse(out)
	require.NoError(t, err)
	assert.Equal(t, schema.VersionCurrent, res.Version)
	assert.Contains(t, res.Config.Radarr, "instance1")
	assert.Contains(t, res.Config.Sonarr, "instance2")
	assert.Equal(t, "WEB-1080p", res.Config.Sonarr["instance2"].QualityProfiles[0].Name)
}

func TestMigrateToFile(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", legacyDocument)
	target := filepath.Join(t.TempDir(), "migrated.yml")

	out, err := execute(t, "migrate", "--instances", doc, "--output", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	res, err := schema.NewParser().Parse(string(data))
	require.NoError(t, err)
	assert.False(t, res.Migrated())
	assert.Len(t, res.Config.Radarr, 1)
	assert.Len(t, res.Config.Sonarr, 1)
}

func TestMigrateInvalidDocument(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", "radarr:\n  movies:\n    api_key: key1\n")

	_, err := execute(t, "migrate", "--instances", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestList(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", currentDocument)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "all instances",
			args:     nil,
			contains: []string{"Found 3 instances", "[radarr] movies", "[radarr] uhd", "[sonarr] tv"},
		},
		{
			name:     "filtered",
			args:     []string{"--filter", "isSonarr()"},
			contains: []string{"Found 1 instances", "[sonarr] tv"},
			excludes: []string{"movies", "uhd"},
		},
		{
			name:     "no match",
			args:     []string{"--filter", `Name == "nope"`},
			contains: []string{"No instances found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"list", "--instances", doc}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestListLegacyNote(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", legacyDocument)

	out, err := execute(t, "list", "--instances", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "[radarr] instance1")
	assert.Contains(t, out, "arrconf migrate")
}

func TestListUnknownPreset(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", currentDocument)

	_, err := execute(t, "list", "--instances", doc, "--preset", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preset 'nope' not found")
}

func TestListInvalidFilter(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", currentDocument)

	_, err := execute(t, "list", "--instances", doc, "--filter", "unknownField == 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter expression")
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3", "today")
	t.Cleanup(func() { SetVersion("dev", "unknown") })

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "arrconf 1.2.3 (built today)\n", out)
}

type fakeServiceAPI struct {
	pingErr  error
	profiles []string
}

func (f *fakeServiceAPI) Ping() error {
	return f.pingErr
}

func (f *fakeServiceAPI) QualityProfileNames(ctx context.Context) ([]string, error) {
	return f.profiles, nil
}

func TestTestCommand(t *testing.T) {
	doc := writeFile(t, "recyclarr.yml", `radarr:
  movies:
    base_url: http://radarr:7878
    api_key: key1
    quality_profiles:
      - name: HD-1080p
  uhd:
    base_url: http://radarr-4k:7878
    api_key: key2
sonarr:
  tv:
    base_url: http://sonarr:8989
    api_key: key3
    quality_profiles:
      - name: WEB-1080p
`)

	apis := map[string]*fakeServiceAPI{
		"movies": {profiles: []string{"Any"}},
		"uhd":    {pingErr: errors.New("connection refused")},
		"tv":     {profiles: []string{"WEB-1080p"}},
	}
	original := dialer
	dialer = func(inst schema.Instance, timeout time.Duration) (arr.ServiceAPI, error) {
		return apis[inst.Name], nil
	}
	t.Cleanup(func() { dialer = original })

	t.Run("failures are reported", func(t *testing.T) {
		out, err := execute(t, "test", "--instances", doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 of 3 instances failed the check")

		assert.Contains(t, out, "Testing 3 instances...")
		assert.Contains(t, out, "✗ [radarr] movies: missing quality profiles: HD-1080p")
		assert.Contains(t, out, "✗ [radarr] uhd: failed to connect to radarr: connection refused")
		assert.Contains(t, out, "✓ [sonarr] tv")
	})

	t.Run("filtered instances pass", func(t *testing.T) {
		out, err := execute(t, "test", "--instances", doc, "--filter", "isSonarr()")
		require.NoError(t, err)

		assert.Contains(t, out, "Testing 1 instances...")
		assert.Contains(t, out, "✓ [sonarr] tv")
		assert.NotContains(t, out, "movies")
	})
}
