// Package calculation implements the CalculationStage: the
// differential-jubilation proration that sets TipoDeOperacion, the other
// imponibles, and the salary-plus-additionals figure.
package calculation

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

var (
	five    = decimal.NewFromInt(5)
	hundred = decimal.NewFromInt(100)
	twoHund = decimal.NewFromInt(200)
)

// Stage implements CalculationStage.
type Stage struct {
	// PorcAporteDiferencialJubilacion is the configured proration percentage,
	// clamped to [0, 200] before use.
	PorcAporteDiferencialJubilacion decimal.Decimal
	Logger                          *slog.Logger
}

func New(porcAporteDiferencialJubilacion decimal.Decimal, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	p := porcAporteDiferencialJubilacion
	if p.LessThan(decimal.Zero) {
		p = decimal.Zero
	}
	if p.GreaterThan(twoHund) {
		p = twoHund
	}
	return &Stage{PorcAporteDiferencialJubilacion: p, Logger: logger}
}

// Run mutates every record in place.
func (s *Stage) Run(records []*domain.Record) {
	for _, r := range records {
		s.applyDifferentialJubilacion(r)
		s.applyOtherImponibles(r)
		s.applySueldoMasAdicionales(r)
	}
}

func (s *Stage) applyDifferentialJubilacion(r *domain.Record) {
	r.PorcAporteDiferencialJubilacion = s.PorcAporteDiferencialJubilacion

	raw := r.ImporteImponible6
	if raw.LessThanOrEqual(decimal.Zero) {
		r.TipoDeOperacion = 1
		r.ImporteSACNoDocente = r.ImporteSAC
		return
	}

	rescaled := raw
	if s.PorcAporteDiferencialJubilacion.GreaterThan(decimal.Zero) {
		rescaled = raw.Mul(hundred).Div(s.PorcAporteDiferencialJubilacion).Round(2)
	}
	r.ImporteImponible6 = rescaled

	delta := rescaled.Sub(r.ImporteImpon).Abs()

	if delta.GreaterThan(five) && rescaled.LessThan(r.ImporteImpon) {
		r.TipoDeOperacion = 2
		r.ImporteImpon = r.ImporteImpon.Sub(rescaled)
		r.ImporteSACNoDocente = r.ImporteSAC.Sub(r.SACInvestigador)
		return
	}

	r.TipoDeOperacion = 1
	r.ImporteSACNoDocente = r.ImporteSAC
	if delta.LessThanOrEqual(five) {
		r.ImporteImponible6 = r.ImporteImpon
	}
}

func (s *Stage) applyOtherImponibles(r *domain.Record) {
	r.ImporteImponible4 = r.ImporteImpon
	r.ImporteImponible5 = r.ImporteImponible4
	r.ImporteSACOtroAporte = r.ImporteSAC
}

func (s *Stage) applySueldoMasAdicionales(r *domain.Record) {
	v := r.ImporteImponiblePatronal.
		Sub(r.ImporteSAC).
		Sub(r.ImporteHorasExtras).
		Sub(r.ImporteZonaDesfavorable).
		Sub(r.ImporteVacaciones).
		Sub(r.ImportePremios).
		Sub(r.ImporteAdicionales)
	if v.GreaterThan(decimal.Zero) {
		v = v.Sub(r.IncrementoSolidario)
	}
	r.ImporteSueldoMasAdicionales = v
}
