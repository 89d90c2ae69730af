package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianfloyd/sicoss-go/internal/config"
)

func TestTopeHalves(t *testing.T) {
	cfg := config.Config{
		TopeJubilatorioPatronal:    decimal.NewFromInt(800000),
		TopeJubilatorioPersonal:    decimal.NewFromInt(600000),
		TopeOtrosAportesPersonales: decimal.NewFromInt(700000),
	}
	assert.True(t, cfg.TopeSACPatronal().Equal(decimal.NewFromInt(400000)))
	assert.True(t, cfg.TopeSACPersonal().Equal(decimal.NewFromInt(300000)))
	assert.True(t, cfg.TopeSACOtro().Equal(decimal.NewFromInt(350000)))
}

func TestValidate_RejectsNonPositiveCeiling(t *testing.T) {
	cfg := config.Config{
		TopeJubilatorioPatronal:    decimal.Zero,
		TopeJubilatorioPersonal:    decimal.NewFromInt(600000),
		TopeOtrosAportesPersonales: decimal.NewFromInt(700000),
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsOutOfRangePercentage(t *testing.T) {
	cfg := config.Config{
		TopeJubilatorioPatronal:    decimal.NewFromInt(800000),
		TopeJubilatorioPersonal:    decimal.NewFromInt(600000),
		TopeOtrosAportesPersonales: decimal.NewFromInt(700000),
		PorcAporteAdicionalJub:     decimal.NewFromInt(201),
	}
	assert.Error(t, cfg.Validate())
}

func TestLoad_ReadsYAMLAndDefaultsConvencionado(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sicoss.yaml")
	yaml := `
tope_jubilatorio_patronal: "800000"
tope_jubilatorio_personal: "600000"
tope_otros_aportes_personales: "700000"
trunca_tope: true
porc_aporte_adicional_jubilacion: "100"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.TruncaTope)
	assert.Equal(t, "S", cfg.TrabajadorConvencionadoDef)
}

func TestLoad_MissingFileReturnsConfigurationError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
