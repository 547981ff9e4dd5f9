package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskregister/pkg/cli/config"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

const validSeed = `
[[department]]
name = "Warehouse"

[[department]]
name = "Maintenance"

[[group]]
name = "Operations"

[[category]]
id = "H-1"
name = "Physical"

[[hazard]]
id = "H-1.01"
category_id = "H-1"
description = "Excessive noise"
health = true
sources = "ISO 9612"

[[hazard]]
category_id = "H-1"
description = "Falling objects"
safety = true
health = true
`

func TestLoadSeedConfiguration(t *testing.T) {
	t.Run("valid seed converts to domain", func(t *testing.T) {
		seed, err := config.LoadSeedConfiguration(writeSeedFile(t, validSeed))
		gt.NoError(t, err).Required()

		d := seed.ToDomainSeed()
		gt.Array(t, d.Departments).Equal([]string{"Warehouse", "Maintenance"})
		gt.Array(t, d.Groups).Equal([]string{"Operations"})
		gt.Array(t, d.Categories).Length(1).Required()
		gt.Value(t, d.Categories[0].ID).Equal("H-1")
		gt.Array(t, d.Hazards).Length(2).Required()
		gt.Value(t, d.Hazards[0].Sources).Equal("ISO 9612")
		gt.Bool(t, d.Hazards[1].Safety).True()
		gt.Value(t, d.Hazards[1].ID).Equal("")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadSeedConfiguration(filepath.Join(t.TempDir(), "none.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "broken TOML",
			content: `[[category]` + "\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "invalid category ID",
			content: `
[[category]]
id = "C-1"
name = "Physical"
`,
			wantErr: config.ErrInvalidID,
		},
		{
			name: "duplicate category ID",
			content: `
[[category]]
id = "H-1"
name = "Physical"

[[category]]
id = "H-1"
name = "Chemical"
`,
			wantErr: config.ErrDuplicateID,
		},
		{
			name: "hazard ID of another category",
			content: `
[[hazard]]
id = "H-2.01"
category_id = "H-1"
description = "Noise"
`,
			wantErr: config.ErrInvalidID,
		},
		{
			name: "hazard without description",
			content: `
[[hazard]]
category_id = "H-1"
`,
			wantErr: config.ErrMissingRequired,
		},
		{
			name: "duplicate group name",
			content: `
[[group]]
name = "Operations"

[[group]]
name = "Operations"
`,
			wantErr: config.ErrDuplicateName,
		},
		{
			name: "empty department name",
			content: `
[[department]]
name = " "
`,
			wantErr: config.ErrMissingName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadSeedConfiguration(writeSeedFile(t, tt.content))
			gt.Error(t, err).Is(tt.wantErr)
		})
	}
}
