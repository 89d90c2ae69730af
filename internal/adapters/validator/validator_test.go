package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/validator"
	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

// TestRun_SpecialSituationSurvives reproduces the worked scenario where an
// all-zero employee still survives because of codigosituacion=5.
func TestRun_SpecialSituationSurvives(t *testing.T) {
	r := &domain.Record{}
	r.CodigoSituacion = 5

	survivors, rejected := validator.New(validator.Params{}).Run([]*domain.Record{r})
	require.Len(t, survivors, 1)
	assert.Equal(t, 0, rejected)
}

func TestRun_AllZeroWithoutSpecialSituationRejected(t *testing.T) {
	r := &domain.Record{}
	survivors, rejected := validator.New(validator.Params{}).Run([]*domain.Record{r})
	assert.Len(t, survivors, 0)
	assert.Equal(t, 1, rejected)
}

func TestRun_LicenceKeptOnlyWhenFlagOn(t *testing.T) {
	r := &domain.Record{}
	r.Licencia = true

	_, rejectedOff := validator.New(validator.Params{IncludeLicenses: false}).Run([]*domain.Record{r})
	assert.Equal(t, 1, rejectedOff)

	survivorsOn, rejectedOn := validator.New(validator.Params{IncludeLicenses: true}).Run([]*domain.Record{r})
	assert.Equal(t, 0, rejectedOn)
	assert.Len(t, survivorsOn, 1)
}

func TestRun_NonZeroAmountSurvives(t *testing.T) {
	r := &domain.Record{}
	r.ImporteBruto = decimal.NewFromInt(1)

	survivors, rejected := validator.New(validator.Params{}).Run([]*domain.Record{r})
	assert.Len(t, survivors, 1)
	assert.Equal(t, 0, rejected)
}

func TestRun_CheckSinActivoKeepsInactiveLegajo(t *testing.T) {
	r := &domain.Record{}
	r.Estado = "baja"

	_, rejectedOff := validator.New(validator.Params{}).Run([]*domain.Record{r})
	assert.Equal(t, 1, rejectedOff)

	survivorsOn, rejectedOn := validator.New(validator.Params{CheckSinActivo: true}).Run([]*domain.Record{r})
	assert.Equal(t, 0, rejectedOn)
	assert.Len(t, survivorsOn, 1)
}

func TestRun_CheckSinActivoIsCaseInsensitiveAndLeavesActiveLegajosAlone(t *testing.T) {
	r := &domain.Record{}
	r.Estado = "ACTIVO"

	survivors, rejected := validator.New(validator.Params{CheckSinActivo: true}).Run([]*domain.Record{r})
	assert.Len(t, survivors, 0)
	assert.Equal(t, 1, rejected)
}

// TestRun_Idempotent checks this pipeline property 9: re-running the validator
// over its own survivors yields the same set.
func TestRun_Idempotent(t *testing.T) {
	records := []*domain.Record{
		{Legajo: domain.Legajo{CodigoSituacion: 5}},
		{Legajo: domain.Legajo{}, ImporteBruto: decimal.NewFromInt(10)},
		{Legajo: domain.Legajo{}},
	}
	v := validator.New(validator.Params{})

	first, _ := v.Run(records)
	second, rejectedSecond := v.Run(first)

	assert.Equal(t, len(first), len(second))
	assert.Equal(t, 0, rejectedSecond)
}
