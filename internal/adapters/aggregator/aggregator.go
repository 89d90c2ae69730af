// Package aggregator implements the ConceptAggregator: it folds
// concept rows into per-employee accumulators using a data-driven
// group-code classification table rather than a branch tree.
package aggregator

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

// target names one accumulator field a group code routes its amount into.
type target int

const (
	targetHorasExtras target = iota
	targetZonaDesfavorable
	targetVacaciones
	targetAdicionales
	targetPremios
	targetCantidadHorasExtras // quantity, not amount
	targetNoRemun
	targetRectificacionRemun
	targetMaternidad
	targetAporteAdicionalOS
	targetImponibleBecario
	targetSICOSS27430
	targetSICOSSDec56119
	targetNoRemun4y8
	targetIncrementoSolidario
	targetTipo91
	targetNoRemun96
	targetSAC // group 9: also routes to a per-escalafon SAC bucket
	targetImponible6
	targetSeguroVida
)

// groupTable maps a concept's group code to the accumulator(s) it feeds.
// Carried as data, not a branch tree.
//
// Codes 6,7,8,21,22,24,45,46,47,16,67,81,83,84,86,91,96,9,58 are the
// canonical SICOSS group codes (the canonical codes 11-15,48,49 are handled
// by investigatorGroups below). The remaining entries
// (5,25,29,30,36,50,51,68,69,77,89) are supplemental aliases seen in
// production payroll runs, grounded in
// original_source/processors/conceptos_processor.py::_init_mapeos.
var groupTable = map[int]target{
	6:  targetHorasExtras,
	7:  targetZonaDesfavorable,
	8:  targetVacaciones,
	21: targetAdicionales,
	22: targetPremios,
	24: targetCantidadHorasExtras,
	45: targetNoRemun,
	46: targetRectificacionRemun,
	47: targetMaternidad,
	16: targetAporteAdicionalOS,
	67: targetImponibleBecario,
	81: targetSICOSS27430,
	83: targetSICOSSDec56119,
	84: targetNoRemun4y8,
	86: targetIncrementoSolidario,
	91: targetTipo91,
	96: targetNoRemun96,
	9:  targetSAC,
	58: targetSeguroVida,

	// production aliases
	5:  targetPremios,
	25: targetAdicionales,
	29: targetAdicionales,
	30: targetAdicionales,
	36: targetAdicionales,
	50: targetAdicionales,
	51: targetAdicionales,
	68: targetZonaDesfavorable,
	69: targetZonaDesfavorable,
	77: targetNoRemun,
	89: targetAdicionales,
}

// investigatorGroups route to ImporteImponible_6 and carry a priority for
// TipoDeActividad (group codes 11-15,48,49).
var investigatorGroups = map[int]target{
	11: targetImponible6,
	12: targetImponible6,
	13: targetImponible6,
	14: targetImponible6,
	15: targetImponible6,
	48: targetImponible6,
	49: targetImponible6,
}

var investigatorPriority = map[int]int{
	11: 38,
	12: 34,
	13: 35,
	14: 36,
	15: 37,
	48: 87,
	49: 88,
}

// Aggregator implements the ConceptAggregator stage.
type Aggregator struct {
	Logger *slog.Logger
}

func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{Logger: logger}
}

// Run folds conceptos into the legajos' working records, keyed by NroLegaj,
// and returns one Record per legajo (legajos with no concepts still appear,
// all accumulators zero).
func (a *Aggregator) Run(legajos []domain.Legajo, conceptos []domain.ConceptoRow) []*domain.Record {
	byLegajo := make(map[int]*domain.Record, len(legajos))
	order := make([]int, 0, len(legajos))
	for _, l := range legajos {
		r := domain.NewRecord(l)
		byLegajo[l.NroLegaj] = r
		order = append(order, l.NroLegaj)
	}

	for _, c := range conceptos {
		r, ok := byLegajo[c.NroLegaj]
		if !ok {
			continue // concept for a legajo not in this run's legajo set
		}
		a.applyConcepto(r, c)
	}

	out := make([]*domain.Record, 0, len(order))
	for _, nro := range order {
		r := byLegajo[nro]
		a.finalize(r)
		out = append(out, r)
	}
	return out
}

func (a *Aggregator) applyConcepto(r *domain.Record, c domain.ConceptoRow) {
	amount := c.ImppConce
	for _, g := range c.TiposGrupos {
		if t, ok := groupTable[g]; ok {
			a.addTarget(r, t, amount, c)
			continue
		}
		if _, ok := investigatorGroups[g]; ok {
			r.ImporteImponible6 = r.ImporteImponible6.Add(amount)
			if p := investigatorPriority[g]; p > r.PrioridadTipoDeActividad {
				r.PrioridadTipoDeActividad = p
			}
			continue
		}
		// Unknown group codes are ignored.
	}
}

func (a *Aggregator) addTarget(r *domain.Record, t target, amount decimal.Decimal, c domain.ConceptoRow) {
	switch t {
	case targetHorasExtras:
		r.ImporteHorasExtras = r.ImporteHorasExtras.Add(amount)
	case targetZonaDesfavorable:
		r.ImporteZonaDesfavorable = r.ImporteZonaDesfavorable.Add(amount)
	case targetVacaciones:
		r.ImporteVacaciones = r.ImporteVacaciones.Add(amount)
	case targetAdicionales:
		r.ImporteAdicionales = r.ImporteAdicionales.Add(amount)
	case targetPremios:
		r.ImportePremios = r.ImportePremios.Add(amount)
	case targetCantidadHorasExtras:
		r.CantidadHorasExtras = r.CantidadHorasExtras.Add(c.Nov1Conce)
	case targetNoRemun:
		r.ImporteNoRemun = r.ImporteNoRemun.Add(amount)
	case targetRectificacionRemun:
		r.ImporteRectificacionRemun = r.ImporteRectificacionRemun.Add(amount)
	case targetMaternidad:
		r.ImporteMaternidad = r.ImporteMaternidad.Add(amount)
	case targetAporteAdicionalOS:
		r.AporteAdicionalObraSocial = r.AporteAdicionalObraSocial.Add(amount)
	case targetImponibleBecario:
		r.ImporteImponibleBecario = r.ImporteImponibleBecario.Add(amount)
	case targetSICOSS27430:
		r.ImporteSICOSS27430 = r.ImporteSICOSS27430.Add(amount)
	case targetSICOSSDec56119:
		r.ImporteSICOSSDec56119 = r.ImporteSICOSSDec56119.Add(amount)
	case targetNoRemun4y8:
		r.NoRemun4y8 = r.NoRemun4y8.Add(amount)
	case targetIncrementoSolidario:
		r.IncrementoSolidario = r.IncrementoSolidario.Add(amount)
	case targetTipo91:
		r.ImporteTipo91 = r.ImporteTipo91.Add(amount)
	case targetNoRemun96:
		r.ImporteNoRemun96 = r.ImporteNoRemun96.Add(amount)
	case targetSAC:
		r.ImporteSAC = r.ImporteSAC.Add(amount)
		switch c.CodigoEscalafon {
		case "DOCE":
			r.ImporteSACDoce = r.ImporteSACDoce.Add(amount)
		case "AUTO":
			r.ImporteSACAuto = r.ImporteSACAuto.Add(amount)
		case "NODO":
			r.ImporteSACNodo = r.ImporteSACNodo.Add(amount)
		}
		if c.EsInvestigador {
			r.SACInvestigador = r.SACInvestigador.Add(amount)
		}
	case targetSeguroVida:
		r.SeguroVidaObligatorio = true
	}
}

// finalize applies the investigator SAC reclassification and derives the
// remunerative totals and initial bases.
func (a *Aggregator) finalize(r *domain.Record) {
	if r.SACInvestigador.GreaterThan(decimal.Zero) {
		r.ImporteSAC = r.ImporteSAC.Sub(r.SACInvestigador)
	}

	r.Remuner78805 = r.ImporteSAC.
		Add(r.ImporteHorasExtras).
		Add(r.ImporteZonaDesfavorable).
		Add(r.ImporteVacaciones).
		Add(r.ImportePremios).
		Add(r.ImporteAdicionales).
		Add(r.ImporteImponibleBecario)

	r.ImporteImponiblePatronal = r.Remuner78805
	r.ImporteSACPatronal = r.ImporteSAC
	r.ImporteImponibleSinSAC = r.ImporteImponiblePatronal.Sub(r.ImporteSACPatronal)
	r.ImporteBruto = r.ImporteImponiblePatronal.Add(r.ImporteNoRemun)
	r.ImporteImpon = r.Remuner78805

	switch r.PrioridadTipoDeActividad {
	case 0, 38:
		r.TipoDeActividad = r.CodigoActividad
	case 34, 35, 36, 37, 87, 88:
		r.TipoDeActividad = r.PrioridadTipoDeActividad
	default:
		r.TipoDeActividad = 0
	}
}
