// Package topes implements the CeilingStage: ordered ceiling
// truncation of the employer, employee and other-contributions bases, the
// secondary-employment proration, and the ART base computation.
package topes

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/cristianfloyd/sicoss-go/internal/domain"
	"github.com/cristianfloyd/sicoss-go/internal/sicosserr"
)

var two = decimal.NewFromInt(2)

// Params is the subset of Config the ceiling stage needs; kept narrow so the
// stage does not import the config package directly.
type Params struct {
	TopeJubilatorioPatronal    decimal.Decimal
	TopeJubilatorioPersonal    decimal.Decimal
	TopeOtrosAportesPersonales decimal.Decimal
	TruncaTope                 bool
	ARTConTope                 bool
	ConceptosNoRemunEnART      bool
	FamilyAllowanceIntoGross   bool
	// InformarBecarios, when set, keeps scholarship amounts
	// (ImporteImponibleBecario) in the ART base; when unset, they are
	// excluded from it.
	InformarBecarios bool
}

func (p Params) topeSACPatronal() decimal.Decimal { return p.TopeJubilatorioPatronal.Div(two) }
func (p Params) topeSACPersonal() decimal.Decimal { return p.TopeJubilatorioPersonal.Div(two) }
func (p Params) topeSACOtro() decimal.Decimal     { return p.TopeOtrosAportesPersonales.Div(two) }

// Stage implements CeilingStage.
type Stage struct {
	Params   Params
	Logger   *slog.Logger
	Warnings []sicosserr.ArithmeticWarning
}

func New(params Params, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{Params: params, Logger: logger}
}

// Run applies the ceiling stage to every record in place.
func (s *Stage) Run(records []*domain.Record) {
	for _, r := range records {
		if s.Params.TruncaTope {
			s.employerSACCeiling(r)
			s.employerBaseCeiling(r)
			s.employeeCombinedCeiling(r)
			s.otherContributionsCeiling(r)
			s.specialRule(r)
			s.secondaryEmploymentProration(r)
			s.grossRecompute(r)
		}
		s.artBase(r)
		s.finalAdjustments(r)
		s.clamp(r)
	}
}

// (a) Employer SAC ceiling.
func (s *Stage) employerSACCeiling(r *domain.Record) {
	topeSACPatr := s.Params.topeSACPatronal()
	if r.ImporteSAC.GreaterThan(topeSACPatr) {
		r.DiferenciaSACImponibleConTope = r.ImporteSAC.Sub(topeSACPatr)
		r.ImporteImponiblePatronal = r.ImporteImponiblePatronal.Sub(r.DiferenciaSACImponibleConTope)
		r.ImporteSACPatronal = topeSACPatr
	}
}

// (b) Employer base ceiling.
func (s *Stage) employerBaseCeiling(r *domain.Record) {
	r.ImporteImponibleSinSAC = r.ImporteImponiblePatronal.Sub(r.ImporteSACPatronal)
	topePatr := s.Params.TopeJubilatorioPatronal
	if r.ImporteImponibleSinSAC.GreaterThan(topePatr) {
		r.DiferenciaImponibleConTope = r.ImporteImponibleSinSAC.Sub(topePatr)
		r.ImporteImponiblePatronal = r.ImporteImponiblePatronal.Sub(r.DiferenciaImponibleConTope)
	}
}

// (c) Employee combined ceiling.
func (s *Stage) employeeCombinedCeiling(r *domain.Record) {
	topeSACPers := s.Params.topeSACPersonal()
	topePers := s.Params.TopeJubilatorioPersonal

	if r.ImporteSAC.GreaterThan(decimal.Zero) && r.ImporteSACNoDocente.GreaterThan(topePers.Add(topeSACPers)) {
		r.DiferenciaSACImponibleConTope = r.ImporteSACNoDocente.Sub(topeSACPers)
		r.ImporteImpon = r.ImporteImpon.Sub(r.DiferenciaSACImponibleConTope)
		r.ImporteSACNoDocente = topeSACPers
		return
	}

	brutoSinSAC := r.ImporteBruto.Sub(r.ImporteImponible6).Sub(r.ImporteSACNoDocente)
	capSueldo := min(brutoSinSAC.Sub(r.ImporteNoRemun), topePers)
	capSAC := min(r.ImporteSACNoDocente, topeSACPers)
	r.ImporteImpon = capSueldo.Add(capSAC)
}

// (d) Other-contributions ceilings.
func (s *Stage) otherContributionsCeiling(r *domain.Record) {
	topeSACOtro := s.Params.topeSACOtro()
	topeOtros := s.Params.TopeOtrosAportesPersonales
	r.DifSACImponibleConOtroTope = decimal.Zero
	r.DifImponibleConOtroTope = decimal.Zero

	if r.ImporteSACOtroAporte.GreaterThan(topeSACOtro) {
		r.DifSACImponibleConOtroTope = r.ImporteSACOtroAporte.Sub(topeSACOtro)
		r.ImporteImponible4 = r.ImporteImponible4.Sub(r.DifSACImponibleConOtroTope)
		r.ImporteSACOtroAporte = topeSACOtro
	}

	otroSinSAC := r.ImporteImponible4.Sub(r.ImporteSACOtroAporte)
	if otroSinSAC.GreaterThan(topeOtros) {
		r.DifImponibleConOtroTope = otroSinSAC.Sub(topeOtros)
		r.ImporteImponible4 = r.ImporteImponible4.Sub(r.DifImponibleConOtroTope)
	}
}

// (e) Special rule.
func (s *Stage) specialRule(r *domain.Record) {
	if !r.ImporteImponible6.Equal(decimal.Zero) && r.TipoDeOperacion == 1 {
		r.ImporteImpon = decimal.Zero
	}
}

// (f) Secondary-employment proration. A record that the special rule (e)
// zeroed is left at zero.
func (s *Stage) secondaryEmploymentProration(r *domain.Record) {
	if r.ImporteBrutoOtraActividad.Equal(decimal.Zero) && r.ImporteSACOtraActividad.Equal(decimal.Zero) {
		return
	}
	if !r.ImporteImponible6.Equal(decimal.Zero) && r.TipoDeOperacion == 1 {
		return
	}
	topeSACPers := s.Params.topeSACPersonal()
	topePatr := s.Params.TopeJubilatorioPatronal

	sumaOtra := r.ImporteBrutoOtraActividad.Add(r.ImporteSACOtraActividad)
	topeTotal := topeSACPers.Add(topePatr)

	if sumaOtra.GreaterThanOrEqual(topeTotal) {
		r.ImporteImpon = decimal.Zero
		return
	}

	capSueldo := max(topePatr.Sub(r.ImporteBrutoOtraActividad), decimal.Zero)
	capSAC := max(topeSACPers.Sub(r.ImporteSACOtraActividad), decimal.Zero)
	r.ImporteImpon = min(r.ImporteImponibleSinSAC, capSueldo).Add(min(r.ImporteSACPatronal, capSAC))
}

// (g) Gross recompute.
func (s *Stage) grossRecompute(r *domain.Record) {
	r.ImporteBruto = r.ImporteImponiblePatronal.Add(r.ImporteNoRemun)
}

func (s *Stage) artBase(r *domain.Record) {
	base := r.Remuner78805
	if s.Params.ARTConTope {
		base = r.ImporteImponible4
	}
	if s.Params.ConceptosNoRemunEnART {
		base = base.Add(r.ImporteNoRemun)
	}
	if !s.Params.InformarBecarios {
		base = base.Sub(r.ImporteImponibleBecario)
	}
	r.ImporteImponible9 = base
}

func (s *Stage) finalAdjustments(r *domain.Record) {
	r.Remuner78805 = r.Remuner78805.Add(r.NoRemun4y8)
	r.ImporteImponible4 = r.ImporteImponible4.Add(r.NoRemun4y8).Add(r.ImporteTipo91)
	r.ImporteBruto = r.ImporteBruto.Add(r.ImporteNoRemun96)
	if s.Params.FamilyAllowanceIntoGross {
		r.ImporteBruto = r.ImporteBruto.Add(r.AsignacionesFliaresPagadas)
		r.AsignacionesFliaresPagadas = decimal.Zero
	}
}

// clamp enforces the non-negative post-condition, logging and
// recording a warning for every field it clips.
func (s *Stage) clamp(r *domain.Record) {
	fields := map[string]*decimal.Decimal{
		"ImporteImponiblePatronal": &r.ImporteImponiblePatronal,
		"ImporteSACPatronal":       &r.ImporteSACPatronal,
		"ImporteImponibleSinSAC":   &r.ImporteImponibleSinSAC,
		"ImporteBruto":             &r.ImporteBruto,
		"ImporteImpon":             &r.ImporteImpon,
		"ImporteImponible4":        &r.ImporteImponible4,
		"ImporteImponible5":        &r.ImporteImponible5,
		"ImporteImponible9":        &r.ImporteImponible9,
		"ImporteSACNoDocente":      &r.ImporteSACNoDocente,
		"ImporteSACOtroAporte":     &r.ImporteSACOtroAporte,
		"Remuner78805":             &r.Remuner78805,
	}
	for name, f := range fields {
		if f.LessThan(decimal.Zero) {
			w := sicosserr.ArithmeticWarning{NroLegaj: r.NroLegaj, Field: name, Clipped: *f}
			s.Warnings = append(s.Warnings, w)
			s.Logger.Warn(w.Error())
			*f = decimal.Zero
		}
	}

	if r.PorcAporteDiferencialJubilacion.LessThan(decimal.Zero) {
		r.PorcAporteDiferencialJubilacion = decimal.Zero
	}
	if r.PorcAporteDiferencialJubilacion.GreaterThan(decimal.NewFromInt(200)) {
		r.PorcAporteDiferencialJubilacion = decimal.NewFromInt(200)
	}
}

func min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
