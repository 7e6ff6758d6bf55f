package types

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 65.0, cfg.X2)
	assert.Equal(t, SolverLU, cfg.Solver)
	assert.Equal(t, ShootSlope, cfg.Shoot.V1)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "tf.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("x2: 40\nxf: 4\nuse_parallel: true\nshoot:\n  max_iterations: 20\n"), 0o644))
	cfg, err := LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.X2)
	assert.Equal(t, 4.0, cfg.XF)
	assert.True(t, cfg.UseParallel)
	assert.Equal(t, 20, cfg.Shoot.MaxIterations)
	assert.Equal(t, ShootEps, cfg.Shoot.Eps)
	assert.Equal(t, Tolerance, cfg.Tolerance)

	jsonPath := filepath.Join(dir, "tf.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"alpha": 0.25, "solver": "dense"}`), 0o644))
	cfg, err = LoadConfig(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Alpha)
	assert.Equal(t, SolverDense, cfg.Solver)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("alpha: 2\n"), 0o644))
	_, err = LoadConfig(invalid)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"nan tolerance": func(c *Config) { c.Tolerance = math.NaN() },
		"gauss":         func(c *Config) { c.GaussPoints = 0 },
		"workers":       func(c *Config) { c.Workers = -1 },
		"tolerance":     func(c *Config) { c.Tolerance = 0 },
		"alpha":         func(c *Config) { c.Alpha = 1.5 },
		"iterations":    func(c *Config) { c.MaxIterations = 0 },
		"solver":        func(c *Config) { c.Solver = "qr" },
		"shoot eps":     func(c *Config) { c.Shoot.Eps = 0 },
		"shoot budget":  func(c *Config) { c.Shoot.MaxIterations = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateDomain(t *testing.T) {
	assert.NoError(t, ValidateDomain(0, 65, 5, 0.01))
	for _, d := range [][4]float64{
		{-1, 65, 5, 0.01},
		{3, 3, 3, 0.01},
		{10, 5, 7, 0.01},
		{0, 65, 0, 0.01},
		{0, 65, 65, 0.01},
		{0, 65, 5, 0},
		{0, 1, 0.5, 0.8},
	} {
		assert.ErrorIs(t, ValidateDomain(d[0], d[1], d[2], d[3]), ErrInvalidDomain, "%v", d)
	}
}

func TestPhaseError(t *testing.T) {
	err := fmt.Errorf("run: %w", NewPhaseError(PhaseSolve, 3, ErrSingular))
	assert.ErrorIs(t, err, ErrSingular)
	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PhaseSolve, pe.Phase)
	assert.Equal(t, 3, pe.Iteration)
	assert.Contains(t, pe.Error(), "solve (iteration 3)")

	assert.Equal(t, "shoot: "+ErrShootingDiverged.Error(), NewPhaseError(PhaseShoot, 0, ErrShootingDiverged).Error())
}
