package topes_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/topes"
	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func baseParams() topes.Params {
	return topes.Params{
		TopeJubilatorioPatronal:    dec("800000"),
		TopeJubilatorioPersonal:    dec("600000"),
		TopeOtrosAportesPersonales: dec("700000"),
		TruncaTope:                 true,
	}
}

// TestRun_EmployerSACAndBaseCeiling reproduces the worked scenario where both
// the employer SAC ceiling and the employer base ceiling trigger in
// sequence.
func TestRun_EmployerSACAndBaseCeiling(t *testing.T) {
	r := &domain.Record{}
	r.ImporteSAC = dec("500000")
	r.ImporteImponiblePatronal = dec("1700000")
	r.ImporteSACPatronal = dec("500000")

	stage := topes.New(baseParams(), nil)
	stage.Run([]*domain.Record{r})

	assert.True(t, r.DiferenciaSACImponibleConTope.Equal(dec("100000")), "got %s", r.DiferenciaSACImponibleConTope)
	assert.True(t, r.DiferenciaImponibleConTope.Equal(dec("400000")), "got %s", r.DiferenciaImponibleConTope)
	assert.True(t, r.ImporteImponiblePatronal.Equal(dec("1200000")), "got %s", r.ImporteImponiblePatronal)
	assert.True(t, r.ImporteBruto.Equal(dec("1200000")), "got %s", r.ImporteBruto)
}

// TestRun_SecondaryEmploymentProration reproduces the worked scenario where
// secondary-activity amounts fall under the combined ceiling and the
// proration path computes a capped IMPORTE_IMPON.
func TestRun_SecondaryEmploymentProration(t *testing.T) {
	r := &domain.Record{}
	r.ImporteSAC = dec("100000")
	r.ImporteImponiblePatronal = dec("900000")
	r.ImporteSACPatronal = dec("100000")
	r.ImporteBrutoOtraActividad = dec("600000")
	r.ImporteSACOtraActividad = dec("250000")

	stage := topes.New(baseParams(), nil)
	stage.Run([]*domain.Record{r})

	assert.True(t, r.ImporteImpon.Equal(dec("250000")), "got %s", r.ImporteImpon)
}

func TestRun_NegativeFieldsClippedAndWarned(t *testing.T) {
	r := &domain.Record{}
	r.ImporteImponiblePatronal = dec("-5")

	stage := topes.New(topes.Params{
		TopeJubilatorioPatronal:    dec("800000"),
		TopeJubilatorioPersonal:    dec("600000"),
		TopeOtrosAportesPersonales: dec("700000"),
		TruncaTope:                 false,
	}, nil)
	stage.Run([]*domain.Record{r})

	assert.True(t, r.ImporteImponiblePatronal.IsZero())
	assert.Len(t, stage.Warnings, 1)
	assert.Equal(t, "ImporteImponiblePatronal", stage.Warnings[0].Field)
}

func TestRun_InformarBecariosGatesARTBase(t *testing.T) {
	r := &domain.Record{}
	r.Remuner78805 = dec("10000")
	r.ImporteImponibleBecario = dec("1500")

	params := baseParams()
	params.TruncaTope = false

	excluded := topes.New(params, nil)
	excluded.Run([]*domain.Record{r})
	assert.True(t, r.ImporteImponible9.Equal(dec("8500")), "got %s", r.ImporteImponible9)

	r2 := &domain.Record{}
	r2.Remuner78805 = dec("10000")
	r2.ImporteImponibleBecario = dec("1500")
	params.InformarBecarios = true

	included := topes.New(params, nil)
	included.Run([]*domain.Record{r2})
	assert.True(t, r2.ImporteImponible9.Equal(dec("10000")), "got %s", r2.ImporteImponible9)
}

func TestRun_TruncationOffSkipsCeilings(t *testing.T) {
	r := &domain.Record{}
	r.ImporteSAC = dec("500000")
	r.ImporteImponiblePatronal = dec("1700000")
	r.ImporteSACPatronal = dec("500000")

	stage := topes.New(topes.Params{
		TopeJubilatorioPatronal:    dec("800000"),
		TopeJubilatorioPersonal:    dec("600000"),
		TopeOtrosAportesPersonales: dec("700000"),
		TruncaTope:                 false,
	}, nil)
	stage.Run([]*domain.Record{r})

	assert.True(t, r.ImporteImponiblePatronal.Equal(dec("1700000")))
	assert.True(t, r.DiferenciaSACImponibleConTope.IsZero())
}
