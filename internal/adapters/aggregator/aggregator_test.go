package aggregator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/aggregator"
	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestRun_NoCeilingsTriggered reproduces the no-ceilings scenario: one
// remunerative concept and one SAC concept, neither of which the
// aggregator alone should truncate. Group 21 (ImporteAdicionales) stands
// in for the scenario's generic remunerative concept.
func TestRun_NoCeilingsTriggered(t *testing.T) {
	legajos := []domain.Legajo{{NroLegaj: 1, CodigoActividad: 10}}
	conceptos := []domain.ConceptoRow{
		{NroLegaj: 1, TiposGrupos: []int{21}, ImppConce: dec("80000.00")},
		{NroLegaj: 1, TiposGrupos: []int{9}, ImppConce: dec("6666.67"), CodigoEscalafon: "NODO"},
	}

	out := aggregator.New(nil).Run(legajos, conceptos)
	require.Len(t, out, 1)
	r := out[0]

	assert.True(t, r.ImporteSAC.Equal(dec("6666.67")))
	assert.True(t, r.ImporteSACNodo.Equal(dec("6666.67")))
	assert.True(t, r.Remuner78805.Equal(dec("86666.67")))
	assert.True(t, r.ImporteImponiblePatronal.Equal(dec("86666.67")))
	assert.True(t, r.ImporteImpon.Equal(dec("86666.67")))
	assert.True(t, r.ImporteBruto.Equal(dec("86666.67")))
}

func TestRun_UnknownGroupCodeIgnored(t *testing.T) {
	legajos := []domain.Legajo{{NroLegaj: 1}}
	conceptos := []domain.ConceptoRow{
		{NroLegaj: 1, TiposGrupos: []int{999}, ImppConce: dec("100.00")},
	}

	out := aggregator.New(nil).Run(legajos, conceptos)
	require.Len(t, out, 1)
	assert.True(t, out[0].Remuner78805.IsZero())
}

func TestRun_InvestigatorSACReclassification(t *testing.T) {
	legajos := []domain.Legajo{{NroLegaj: 1, CodigoActividad: 5}}
	conceptos := []domain.ConceptoRow{
		{NroLegaj: 1, TiposGrupos: []int{9}, ImppConce: dec("40000.00"), EsInvestigador: true},
		{NroLegaj: 1, TiposGrupos: []int{11}, ImppConce: dec("10000.00")},
	}

	out := aggregator.New(nil).Run(legajos, conceptos)
	require.Len(t, out, 1)
	r := out[0]

	assert.True(t, r.SACInvestigador.Equal(dec("40000.00")))
	assert.True(t, r.ImporteSAC.IsZero(), "investigator SAC should be subtracted back out")
	assert.True(t, r.ImporteImponible6.Equal(dec("10000.00")))
	assert.Equal(t, 38, r.PrioridadTipoDeActividad)
	assert.Equal(t, 5, r.TipoDeActividad)
}

func TestRun_LegajoWithNoConceptsStillAppears(t *testing.T) {
	legajos := []domain.Legajo{{NroLegaj: 7}}
	out := aggregator.New(nil).Run(legajos, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 7, out[0].NroLegaj)
	assert.True(t, out[0].Remuner78805.IsZero())
}
