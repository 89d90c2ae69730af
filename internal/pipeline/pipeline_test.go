package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/fixture"
	"github.com/cristianfloyd/sicoss-go/internal/config"
	"github.com/cristianfloyd/sicoss-go/internal/pipeline"
)

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func testConfig() config.Config {
	return config.Config{
		TopeJubilatorioPatronal:    decimal.NewFromInt(800000),
		TopeJubilatorioPersonal:    decimal.NewFromInt(600000),
		TopeOtrosAportesPersonales: decimal.NewFromInt(700000),
		TruncaTope:                 true,
		PorcAporteAdicionalJub:     decimal.NewFromInt(100),
	}
}

func TestRun_EndToEndNoCeilings(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "legajos.json", []map[string]any{
		{"nro_legaj": 1, "cuit": "20123456789", "apyno": "PEREZ JUAN", "codigo_os": "000000"},
	})
	writeJSON(t, dir, "conceptos.json", []map[string]any{
		{"nro_legaj": 1, "tipos_grupos": []int{21}, "impp_conce": "80000.00"},
		{"nro_legaj": 1, "tipos_grupos": []int{9}, "impp_conce": "6666.67", "codigoescalafon": "NODO"},
	})

	p := pipeline.New(testConfig(), fixture.New(dir), nil)
	result, err := p.Run(context.Background(), 2024, 1, nil)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	r := result.Records[0]
	require.True(t, r.ImporteBruto.Equal(decimal.RequireFromString("86666.67")), "got %s", r.ImporteBruto)
	require.Equal(t, 1, result.Totals.Surviving)
	require.Equal(t, 0, result.Totals.Rejected)
}

func TestRun_MissingFixtureFilesYieldEmptyResult(t *testing.T) {
	dir := t.TempDir()
	p := pipeline.New(testConfig(), fixture.New(dir), nil)
	result, err := p.Run(context.Background(), 2024, 1, nil)
	require.NoError(t, err)
	require.Empty(t, result.Records)
	require.Equal(t, 0, result.Totals.Surviving)
}

func TestRun_StampsNonEmptyRunID(t *testing.T) {
	dir := t.TempDir()
	p := pipeline.New(testConfig(), fixture.New(dir), nil)
	result, err := p.Run(context.Background(), 2024, 1, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
}

func TestRun_ConvencionadoDefaultReachesRecord(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "legajos.json", []map[string]any{
		{"nro_legaj": 1, "cuit": "20123456789", "codigo_os": "000000"},
	})
	writeJSON(t, dir, "conceptos.json", []map[string]any{
		{"nro_legaj": 1, "tipos_grupos": []int{21}, "impp_conce": "100.00"},
	})

	cfg := testConfig()
	cfg.TrabajadorConvencionadoDef = "N"
	p := pipeline.New(cfg, fixture.New(dir), nil)
	result, err := p.Run(context.Background(), 2024, 1, nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Equal(t, "N", result.Records[0].TrabajadorConvenc)
}

func TestRun_CheckRetroWithLicenceRemapsSituationAndZeroesDays(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "legajos.json", []map[string]any{
		{"nro_legaj": 1, "cuit": "20123456789", "codigo_os": "000000", "licencia": true, "codigosituacion": 1},
	})
	writeJSON(t, dir, "conceptos.json", []map[string]any{
		{"nro_legaj": 1, "tipos_grupos": []int{21}, "impp_conce": "100.00"},
	})

	cfg := testConfig()
	cfg.CheckRetro = true
	cfg.CheckLic = true
	p := pipeline.New(cfg, fixture.New(dir), nil)
	result, err := p.Run(context.Background(), 2024, 1, nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Equal(t, 13, result.Records[0].CodigoSituacion)
	require.Equal(t, 0, result.Records[0].DiasTrabajados)
}

func TestRun_CheckRetroWithoutCheckLicLeavesSituationAlone(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "legajos.json", []map[string]any{
		{"nro_legaj": 1, "cuit": "20123456789", "codigo_os": "000000", "licencia": true, "codigosituacion": 1},
	})
	writeJSON(t, dir, "conceptos.json", []map[string]any{
		{"nro_legaj": 1, "tipos_grupos": []int{21}, "impp_conce": "100.00"},
	})

	cfg := testConfig()
	cfg.CheckRetro = true
	p := pipeline.New(cfg, fixture.New(dir), nil)
	result, err := p.Run(context.Background(), 2024, 1, nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Equal(t, 1, result.Records[0].CodigoSituacion)
	require.Equal(t, 30, result.Records[0].DiasTrabajados)
}

func TestRunPartitioned_MatchesSinglePartitionTotals(t *testing.T) {
	dir := t.TempDir()
	legajos := make([]map[string]any, 0, 10)
	conceptos := make([]map[string]any, 0, 10)
	for i := 1; i <= 10; i++ {
		legajos = append(legajos, map[string]any{"nro_legaj": i, "cuit": "20123456789", "codigo_os": "000000"})
		conceptos = append(conceptos, map[string]any{"nro_legaj": i, "tipos_grupos": []int{21}, "impp_conce": "1000.00"})
	}
	writeJSON(t, dir, "legajos.json", legajos)
	writeJSON(t, dir, "conceptos.json", conceptos)

	p := pipeline.New(testConfig(), fixture.New(dir), nil)
	single, err := p.Run(context.Background(), 2024, 1, nil)
	require.NoError(t, err)
	partitioned, err := p.RunPartitioned(context.Background(), 2024, 1, nil, 3)
	require.NoError(t, err)

	require.Equal(t, single.Totals.Surviving, partitioned.Totals.Surviving)
	require.True(t, single.Totals.Bruto.Equal(partitioned.Totals.Bruto))
}
