package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
battery:
  cell: sony_lfp
  serial: 16
  parallel: 10
  start_soc: 0.5
sim:
  dt_s: 60
  steps: 100
  profile:
    type: constant
    power_w: 500
`

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, CellSonyLFP, cfg.Battery.Cell)
	assert.Equal(t, 16.0, cfg.Battery.Serial)
	assert.Equal(t, 10.0, cfg.Battery.Parallel)
	assert.Equal(t, 0.5, cfg.Battery.StartSoC)
	assert.Equal(t, 60.0, cfg.Sim.DT)
	assert.Equal(t, 100, cfg.Sim.Steps)
	assert.Equal(t, 500.0, cfg.Sim.Profile.Power)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", `
battery:
  serial: 1
  parallel: 1
  start_soc: 0.5
sim:
  steps: 10
`))
	require.NoError(t, err)

	assert.Equal(t, CellSonyLFP, cfg.Battery.Cell)
	assert.Equal(t, 1.0, cfg.Battery.SoCMax)
	assert.Equal(t, 298.15, cfg.Battery.StartTemp)
	assert.Equal(t, 1.0, cfg.Battery.StartSoHQ)
	assert.Equal(t, 60.0, cfg.Sim.DT)
	assert.Equal(t, ProfileConstant, cfg.Sim.Profile.Type)
	assert.Equal(t, DegradationNone, cfg.Degradation.Mode)
	assert.Equal(t, 298.15, cfg.Thermal.Ambient)
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{
  "battery": {"serial": 2, "parallel": 3, "start_soc": 0.4},
  "sim": {"steps": 5}
}`))
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Battery.Serial)
	assert.Equal(t, 0.4, cfg.Battery.StartSoC)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BESSIM_SIM__STEPS", "42")
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Sim.Steps)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown cell",
			yaml: `
battery: {cell: unobtainium, serial: 1, parallel: 1, start_soc: 0.5}
sim: {steps: 1}
`,
			wantErr: "unknown cell model",
		},
		{
			name: "missing sizing",
			yaml: `
battery: {start_soc: 0.5}
sim: {steps: 1}
`,
			wantErr: "serial/parallel or voltage_v/energy_capacity_wh",
		},
		{
			name: "inverted soc window",
			yaml: `
battery: {serial: 1, parallel: 1, soc_min: 0.9, soc_max: 0.1, start_soc: 0.5}
sim: {steps: 1}
`,
			wantErr: "soc window",
		},
		{
			name: "start soc outside window",
			yaml: `
battery: {serial: 1, parallel: 1, soc_min: 0.2, soc_max: 0.8, start_soc: 0.9}
sim: {steps: 1}
`,
			wantErr: "outside window",
		},
		{
			name: "unknown degradation mode",
			yaml: `
battery: {serial: 1, parallel: 1, start_soc: 0.5}
degradation: {mode: quantum}
sim: {steps: 1}
`,
			wantErr: "unknown mode",
		},
		{
			name: "missing steps",
			yaml: `
battery: {serial: 1, parallel: 1, start_soc: 0.5}
`,
			wantErr: "steps must be positive",
		},
		{
			name: "cycle profile without period",
			yaml: `
battery: {serial: 1, parallel: 1, start_soc: 0.5}
sim: {steps: 1, profile: {type: cycle}}
`,
			wantErr: "half_period_s",
		},
		{
			name: "csv profile without path",
			yaml: `
battery: {serial: 1, parallel: 1, start_soc: 0.5}
sim: {steps: 1, profile: {type: csv}}
`,
			wantErr: "path is required",
		},
		{
			name: "converter without rating",
			yaml: `
battery: {serial: 1, parallel: 1, start_soc: 0.5}
converter: {enabled: true}
sim: {steps: 1}
`,
			wantErr: "max_power_w",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", tc.yaml))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
