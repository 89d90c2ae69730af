// Package textencoder implements the TextEncoder stage: it
// renders one Latin-1, CRLF-terminated line per surviving employee using the
// fixed-width field table in textencoder/spec, the same field-table-driven
// fixedBuf idiom the EFW2C generator uses for its multi-record layout.
package textencoder

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/textencoder/spec"
	"github.com/cristianfloyd/sicoss-go/internal/domain"
)

// Encoder implements ports.TextEncoder.
type Encoder struct{}

func New() *Encoder { return &Encoder{} }

// Encode writes one CRLF-terminated line per record to w.
func (e *Encoder) Encode(w io.Writer, records []*domain.Record) error {
	for _, r := range records {
		b := newBuf()
		populate(b, r)
		if _, err := w.Write(toLatin1(b.String())); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0x0D, 0x0A}); err != nil {
			return err
		}
	}
	return nil
}

func populate(b *fixedBuf, r *domain.Record) {
	b.put("CUIT", padAlpha(r.CUIT, 11))
	b.put("Apyno", padAlpha(r.Apyno, 30))
	b.put("ConyugeFlag", intField(r.Conyugue, 1))
	b.put("Hijos", intField(r.Hijos, 2))
	b.put("CodigoSituacion", intField(r.CodigoSituacion, 2))
	b.put("CodigoCondicion", intField(r.CodigoCondicion, 2))
	b.put("TipoDeActividad", intField(r.TipoDeActividad, 3))
	b.put("CodigoZona", intField(r.CodigoZona, 2))
	b.put("AporteAdicional", money(r.AporteAdicional, 5))
	b.put("CodigoContratacion", intField(r.CodigoContratacion, 3))
	b.put("CodigoOS", padAlpha(r.CodigoOS, 6))
	b.put("Adherentes", intField(r.Adherentes, 2))
	b.put("ImporteBruto", money(r.ImporteBruto, 12))
	b.put("ImporteImpon", money(r.ImporteImpon, 12))
	b.put("AsignacionesFliaresPagadas", money(r.AsignacionesFliaresPagadas, 9))
	b.put("ImporteVoluntario", money(r.ImporteVoluntario, 9))
	b.put("ImporteAdicionalOS", money(r.ImporteAdicionalOS, 9))
	b.put("AbsImporteSICOSSDec56119", money(r.ImporteSICOSSDec56119.Abs(), 9))
	b.put("ZeroFillerNine", rightPad("0,00", 9))
	b.put("ProvinciaLocalidad", padAlpha(r.ProvinciaLocalidad, 50))
	b.put("ImporteImponiblePatronal1", money(r.ImporteImponiblePatronal, 12))
	b.put("ImporteImponiblePatronal2", money(r.ImporteImponiblePatronal, 12))
	b.put("ImporteImponible4First", money(r.ImporteImponible4, 12))
	b.put("Filler00", "00")
	b.put("Filler0", "0")
	b.put("FillerZeroMoney", rightPad("000000,00", 9))
	b.put("Filler1", "1")
	b.put("AporteAdicionalObraSocial", money(r.AporteAdicionalObraSocial, 9))
	b.put("Regimen", padAlpha(r.Regimen, 1))
	b.put("CodigoRevista1", intField(r.CodigoRevista1, 2))
	b.put("FechaRevista1", intField(r.FechaRevista1, 2))
	b.put("CodigoRevista2", intField(r.CodigoRevista2, 2))
	b.put("FechaRevista2", intField(r.FechaRevista2, 2))
	b.put("CodigoRevista3", intField(r.CodigoRevista3, 2))
	b.put("FechaRevista3", intField(r.FechaRevista3, 2))
	b.put("ImporteSueldoMasAdicionales", money(r.ImporteSueldoMasAdicionales, 12))
	b.put("ImporteSAC", money(r.ImporteSAC, 12))
	b.put("ImporteHorasExtras", money(r.ImporteHorasExtras, 12))
	b.put("ImporteZonaDesfavorable", money(r.ImporteZonaDesfavorable, 12))
	b.put("ImporteVacaciones", money(r.ImporteVacaciones, 12))
	b.put("DiasTrabajadosFiller", fmt.Sprintf("0000000%02d", r.DiasTrabajados))
	b.put("ImporteImponible4MenosTipo91", money(r.ImporteImponible4.Sub(r.ImporteTipo91), 12))
	b.put("TrabajadorConvencionado", padAlpha(r.TrabajadorConvenc, 1))
	b.put("ImporteImponible6", money(r.ImporteImponible6, 12))
	b.put("TipoDeOperacion", intField(r.TipoDeOperacion, 1))
	b.put("ImporteAdicionales", money(r.ImporteAdicionales, 12))
	b.put("ImportePremios", money(r.ImportePremios, 12))
	b.put("Remuner78805", money(r.Remuner78805, 12))
	b.put("ImporteImponible6Repeat", money(r.ImporteImponible6, 12))
	b.put("CantidadHorasExtras", intField(ceilToInt(r.CantidadHorasExtras), 3))
	b.put("ImporteNoRemun", money(r.ImporteNoRemun, 12))
	b.put("ImporteMaternidad", money(r.ImporteMaternidad, 12))
	b.put("ImporteRectificacionRemun", money(r.ImporteRectificacionRemun, 9))
	b.put("ImporteImponible9", money(r.ImporteImponible9, 12))
	b.put("ContribTareaDif", money(r.ContribTareaDif, 9))
	b.put("Filler000", "000")
	b.put("SeguroVidaObligatorio", boolInt(r.SeguroVidaObligatorio))
	b.put("ImporteSICOSS27430", money(r.ImporteSICOSS27430, 12))
	b.put("IncrementoSolidario", money(r.IncrementoSolidario, 12))
	b.put("ZeroPlaceholder", money(decimal.Zero, 12))
}

func ceilToInt(d decimal.Decimal) int {
	f, _ := d.Float64()
	return int(math.Ceil(f))
}

func boolInt(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ---------------------------------------------------------------------------
// Buffer
// ---------------------------------------------------------------------------

type fixedBuf struct{ data []byte }

func newBuf() *fixedBuf {
	d := make([]byte, spec.RecordLen)
	for i := range d {
		d[i] = ' '
	}
	return &fixedBuf{data: d}
}

// put looks up fieldName in the layout and writes value:
// integers zero-padded on the left, money space-padded on the left, text
// space-padded on the right and truncated. Panics on an unknown field
// name — that is an encoder bug, not bad input.
func (b *fixedBuf) put(fieldName, value string) {
	for _, f := range spec.Layout {
		if f.Name != fieldName {
			continue
		}
		width := f.End - f.Start + 1
		start := f.Start - 1
		switch f.Type {
		case spec.Text:
			if len(value) > width {
				value = value[:width]
			}
			copy(b.data[start:f.End], value+strings.Repeat(" ", width-len(value)))
		case spec.Integer:
			if len(value) > width {
				value = value[len(value)-width:]
			}
			copy(b.data[start:f.End], strings.Repeat("0", width-len(value))+value)
		default: // Money
			if len(value) > width {
				value = value[len(value)-width:]
			}
			copy(b.data[start:f.End], strings.Repeat(" ", width-len(value))+value)
		}
		return
	}
	panic(fmt.Sprintf("textencoder: field %q not found in layout — encoder bug", fieldName))
}

func (b *fixedBuf) String() string { return string(b.data) }

// ---------------------------------------------------------------------------
// Formatting helpers
// ---------------------------------------------------------------------------

// money renders a decimal as "integer_part,decimal_part" with exactly two
// decimal digits, to be left-padded with spaces by fixedBuf.put.
func money(d decimal.Decimal, width int) string {
	s := d.StringFixed(2)
	s = strings.Replace(s, ".", ",", 1)
	if len(s) > width {
		s = s[len(s)-width:]
	}
	return s
}

// intField renders n as plain decimal digits; fixedBuf.put does the
// zero-padding and truncation for Integer fields.
func intField(n, _ int) string {
	return fmt.Sprintf("%d", n)
}

// padAlpha upper-cases and trims a text value; fixedBuf.put does the
// right-padding and truncation for Text fields.
func padAlpha(s string, _ int) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func rightPad(s string, _ int) string {
	return s
}

// toLatin1 maps each rune to its ISO-8859-1 byte, substituting '?' for
// anything outside the Latin-1 range.
func toLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r <= 0xFF {
			out = append(out, byte(r))
		} else {
			out = append(out, '?')
		}
	}
	return out
}
