// Package validator implements the Validator stage: it drops
// employees with no meaningful amount unless a whitelisted special
// situation applies.
package validator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

const (
	situacionMaternidad       = 5
	situacionLicenciaEspecial = 11
	situacionReservaDePuesto  = 14
	estadoActivo              = "activo"
)

// Params carries the feature flags the validator needs.
type Params struct {
	IncludeLicenses bool
	// CheckSinActivo, when set, also keeps a legajo whose estado column is
	// not "activo", regardless of the amount/situation criteria below.
	CheckSinActivo bool
}

// Validator implements the Validator stage.
type Validator struct {
	Params Params
}

func New(params Params) *Validator { return &Validator{Params: params} }

// Run partitions records into survivors and the count rejected. It is
// idempotent: running it again over the survivors returns them unchanged,
// since the keep predicate only reads fields no later stage mutates.
func (v *Validator) Run(records []*domain.Record) (survivors []*domain.Record, rejected int) {
	survivors = make([]*domain.Record, 0, len(records))
	for _, r := range records {
		if v.keep(r) {
			survivors = append(survivors, r)
		} else {
			rejected++
		}
	}
	return survivors, rejected
}

func (v *Validator) keep(r *domain.Record) bool {
	sum := r.ImporteBruto.Abs().
		Add(r.ImporteImpon.Abs()).
		Add(r.ImporteImponiblePatronal.Abs()).
		Add(r.ImporteSAC.Abs()).
		Add(r.AsignacionesFliaresPagadas.Abs())
	if sum.GreaterThan(decimal.Zero) {
		return true
	}
	if r.CodigoSituacion == situacionMaternidad || r.CodigoSituacion == situacionLicenciaEspecial {
		return true
	}
	if v.Params.IncludeLicenses && r.Licencia {
		return true
	}
	if r.CodigoSituacion == situacionReservaDePuesto {
		return true
	}
	if v.Params.CheckSinActivo && !strings.EqualFold(r.Estado, estadoActivo) {
		return true
	}
	return false
}
