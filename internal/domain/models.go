// Package domain holds the SICOSS data model: the raw extractor inputs and
// the per-employee working record that the pipeline stages mutate in place.
package domain

import "github.com/shopspring/decimal"

// Legajo is one employee record, keyed by NroLegaj within a run.
type Legajo struct {
	NroLegaj           int
	CUIT               string // 11 chars
	Apyno              string // display name, <=40 chars
	Conyugue           int    // normalized to 0/1
	Hijos              int
	Adherentes         int
	CodigoSituacion    int
	CodigoCondicion    int
	CodigoZona         int
	CodigoActividad    int
	CodigoContratacion int
	Regimen            string
	TrabajadorConvenc  string // "S"/"N"
	ProvinciaLocalidad string // <=50 chars
	AporteAdicional    decimal.Decimal
	Estado             string
	Licencia           bool
	CodigoOS           string // default "000000"
}

// ConceptoRow is one liquidated concept line for a legajo.
type ConceptoRow struct {
	NroLegaj        int
	CodnConce       int
	ImppConce       decimal.Decimal // signed amount
	TipoConce       string          // 'C' computed / 'F' family / other
	Nov1Conce       decimal.Decimal // novelty quantity (e.g. hours)
	NroOrimp        int             // origin-of-amount code; 0 = non-remunerative
	TiposGrupos     []int           // group codes this row belongs to
	CodigoEscalafon string          // "NODO" | "DOCE" | "AUTO" | "INV" | other
	EsInvestigador  bool            // group-9 rows carrying an investigator indicator
}

// OtraActividad is the optional secondary-employment amount for a legajo.
type OtraActividad struct {
	NroLegaj                  int
	ImporteBrutoOtraActividad decimal.Decimal
	ImporteSACOtraActividad   decimal.Decimal
}

// ObraSocial overrides the social-security code for a legajo.
type ObraSocial struct {
	NroLegaj int
	CodigoOS string // 6 chars, default "000000"
}

// Record is the per-employee working record: the legajo fields plus every
// accumulator and derived field the pipeline produces, mutated in place by
// each stage in the fixed order ConceptAggregator -> CalculationStage ->
// CeilingStage -> Validator.
type Record struct {
	Legajo

	// Accumulators, populated by ConceptAggregator. Zero-valued initially.
	ImporteSAC                decimal.Decimal
	ImporteHorasExtras        decimal.Decimal
	ImporteZonaDesfavorable   decimal.Decimal
	ImporteVacaciones         decimal.Decimal
	ImportePremios            decimal.Decimal
	ImporteAdicionales        decimal.Decimal
	ImporteNoRemun            decimal.Decimal
	ImporteMaternidad         decimal.Decimal
	ImporteRectificacionRemun decimal.Decimal
	AporteAdicionalObraSocial decimal.Decimal
	ImporteImponibleBecario   decimal.Decimal
	ImporteSICOSS27430        decimal.Decimal
	ImporteSICOSSDec56119     decimal.Decimal
	NoRemun4y8                decimal.Decimal
	IncrementoSolidario       decimal.Decimal
	ImporteTipo91             decimal.Decimal
	ImporteNoRemun96          decimal.Decimal
	SACInvestigador           decimal.Decimal
	ImporteSACDoce            decimal.Decimal
	ImporteSACAuto            decimal.Decimal
	ImporteSACNodo            decimal.Decimal
	ImporteImponible6         decimal.Decimal
	CantidadHorasExtras       decimal.Decimal
	SeguroVidaObligatorio     bool
	PrioridadTipoDeActividad  int

	// Derived fields, populated by CalculationStage & CeilingStage.
	Remuner78805                  decimal.Decimal
	ImporteImponiblePatronal      decimal.Decimal
	ImporteSACPatronal            decimal.Decimal
	ImporteImponibleSinSAC        decimal.Decimal
	ImporteBruto                  decimal.Decimal
	ImporteImpon                  decimal.Decimal
	ImporteImponible4             decimal.Decimal
	ImporteImponible5             decimal.Decimal
	TipoDeOperacion               int
	ImporteSACNoDocente           decimal.Decimal
	ImporteSACOtroAporte          decimal.Decimal
	ImporteSueldoMasAdicionales   decimal.Decimal
	DiferenciaSACImponibleConTope decimal.Decimal
	DiferenciaImponibleConTope    decimal.Decimal
	DifSACImponibleConOtroTope    decimal.Decimal
	DifImponibleConOtroTope       decimal.Decimal
	ImporteBrutoOtraActividad     decimal.Decimal
	ImporteSACOtraActividad       decimal.Decimal
	ImporteImponible9             decimal.Decimal // ART base
	TipoDeActividad               int
	AsignacionesFliaresPagadas    decimal.Decimal

	// Percentage applied during the differential-jubilation proration.
	PorcAporteDiferencialJubilacion decimal.Decimal

	// Ancillary fields consumed only by the fixed-width export or the
	// database writer; the extractor/config surface that would supply
	// them sits outside this repository's scope, so they default to the
	// values the original SICOSS export uses for a well-formed but otherwise
	// unremarkable legajo.
	CodigoRevista1     int
	FechaRevista1      int
	CodigoRevista2     int
	FechaRevista2      int
	CodigoRevista3     int
	FechaRevista3      int
	DiasTrabajados     int
	ImporteVoluntario  decimal.Decimal // IMPORTE_VOLUN
	ImporteAdicionalOS decimal.Decimal // IMPORTE_ADICI
	ContribTareaDif    decimal.Decimal
}

// NewRecord seeds a working record from a legajo with zero-valued
// accumulators and sensible defaults for fields the extractor never
// populates for most employees.
func NewRecord(l Legajo) *Record {
	r := &Record{Legajo: l}
	r.CodigoRevista1 = 1
	r.DiasTrabajados = 30
	if r.CodigoOS == "" {
		r.CodigoOS = "000000"
	}
	return r
}

// Totals holds the run's control totals, summed over surviving employees.
type Totals struct {
	Bruto      decimal.Decimal
	Imponible1 decimal.Decimal // IMPORTE_IMPON
	Imponible2 decimal.Decimal // ImporteImponiblePatronal
	Imponible4 decimal.Decimal
	Imponible5 decimal.Decimal
	Imponible6 decimal.Decimal
	Imponible8 decimal.Decimal // Remuner78805
	Imponible9 decimal.Decimal
	Surviving  int
	Rejected   int
}

// Add accumulates another Totals into t (used to reduce per-partition totals).
func (t *Totals) Add(o Totals) {
	t.Bruto = t.Bruto.Add(o.Bruto)
	t.Imponible1 = t.Imponible1.Add(o.Imponible1)
	t.Imponible2 = t.Imponible2.Add(o.Imponible2)
	t.Imponible4 = t.Imponible4.Add(o.Imponible4)
	t.Imponible5 = t.Imponible5.Add(o.Imponible5)
	t.Imponible6 = t.Imponible6.Add(o.Imponible6)
	t.Imponible8 = t.Imponible8.Add(o.Imponible8)
	t.Imponible9 = t.Imponible9.Add(o.Imponible9)
	t.Surviving += o.Surviving
	t.Rejected += o.Rejected
}
