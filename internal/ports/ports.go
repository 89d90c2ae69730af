// Package ports defines the SICOSS pipeline's boundary interfaces: the
// extractor the pipeline reads from and the writers it emits to. Only their
// shapes matter here — concrete SQL extraction, the HTTP wrapper and the
// parameter-table config loader all live outside this repository's scope.
package ports

import (
	"context"
	"io"

	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

// Extractor delivers the four tabular inputs (legajos, conceptos,
// otra-actividad, obra-social) for a given (year, month, optional legajo
// filter). Missing tables are modeled as empty slices, not errors.
type Extractor interface {
	Legajos(ctx context.Context, year, month int, nroLegajFilter []int) ([]domain.Legajo, error)
	Conceptos(ctx context.Context, year, month int, nroLegajFilter []int) ([]domain.ConceptoRow, error)
	OtraActividad(ctx context.Context, year, month int, nroLegajFilter []int) ([]domain.OtraActividad, error)
	ObraSocial(ctx context.Context, year, month int, nroLegajFilter []int) ([]domain.ObraSocial, error)
}

// TextEncoder emits the fixed-width SICOSS export.
type TextEncoder interface {
	Encode(w io.Writer, records []*domain.Record) error
}

// InsertMode selects whether DatabaseWriter appends to or replaces the
// existing rows for a fiscal period.
type InsertMode int

const (
	Append InsertMode = iota
	Replace
)

// DatabaseWriter maps in-memory records onto suc.afip_mapuche_sicoss and
// returns the number of rows inserted.
type DatabaseWriter interface {
	Write(ctx context.Context, periodoFiscal string, records []*domain.Record, mode InsertMode) (int, error)
}
