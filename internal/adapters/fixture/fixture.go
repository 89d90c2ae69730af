// Package fixture implements ports.Extractor over a directory of JSON
// files, standing in for the real SQL extraction this repository does not
// own. It exists to drive the pipeline end-to-end from the
// CLI and from tests without a database.
package fixture

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/cristianfloyd/sicoss-go/internal/domain"
	"github.com/cristianfloyd/sicoss-go/internal/sicosserr"
)

// Extractor reads legajos.json, conceptos.json, otra_actividad.json and
// obra_social.json from Dir. Any file that is absent is treated as an
// empty table.
type Extractor struct {
	Dir    string
	Logger *slog.Logger
}

func New(dir string) *Extractor { return &Extractor{Dir: dir, Logger: slog.Default()} }

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

type legajoRow struct {
	NroLegaj           int    `json:"nro_legaj"`
	CUIT               string `json:"cuit"`
	Apyno              string `json:"apyno"`
	Conyugue           int    `json:"conyugue"`
	Hijos              int    `json:"hijos"`
	Adherentes         int    `json:"adherentes"`
	CodigoSituacion    int    `json:"codigosituacion"`
	CodigoCondicion    int    `json:"codigocondicion"`
	CodigoZona         int    `json:"codigozona"`
	CodigoActividad    int    `json:"codigoactividad"`
	CodigoContratacion int    `json:"codigocontratacion"`
	Regimen            string `json:"regimen"`
	TrabajadorConvenc  string `json:"trabajadorconvencionado"`
	ProvinciaLocalidad string `json:"provincialocalidad"`
	AporteAdicional    string `json:"aporteadicional"`
	Estado             string `json:"estado"`
	Licencia           bool   `json:"licencia"`
	CodigoOS           string `json:"codigo_os"`
}

type conceptoRow struct {
	NroLegaj        int    `json:"nro_legaj"`
	CodnConce       int    `json:"codn_conce"`
	ImppConce       string `json:"impp_conce"`
	TipoConce       string `json:"tipo_conce"`
	Nov1Conce       string `json:"nov1_conce"`
	NroOrimp        int    `json:"nro_orimp"`
	TiposGrupos     []int  `json:"tipos_grupos"`
	CodigoEscalafon string `json:"codigoescalafon"`
	EsInvestigador  bool   `json:"es_investigador"`
}

type otraActividadRow struct {
	NroLegaj                  int    `json:"nro_legaj"`
	ImporteBrutoOtraActividad string `json:"importe_bruto_otra_actividad"`
	ImporteSACOtraActividad   string `json:"importe_sac_otra_actividad"`
}

type obraSocialRow struct {
	NroLegaj int    `json:"nro_legaj"`
	CodigoOS string `json:"codigo_os"`
}

func (e *Extractor) Legajos(_ context.Context, _, _ int, filter []int) ([]domain.Legajo, error) {
	var rows []legajoRow
	if err := readJSON(filepath.Join(e.Dir, "legajos.json"), &rows); err != nil {
		return nil, err
	}
	allowed := toSet(filter)
	out := make([]domain.Legajo, 0, len(rows))
	for _, row := range rows {
		if allowed != nil && !allowed[row.NroLegaj] {
			continue
		}
		aporte, err := parseDecimal("legajos", "aporteadicional", row.AporteAdicional)
		if err != nil {
			return nil, err
		}
		codigoOS := row.CodigoOS
		if codigoOS == "" {
			codigoOS = "000000"
		}
		out = append(out, domain.Legajo{
			NroLegaj:           row.NroLegaj,
			CUIT:               row.CUIT,
			Apyno:              row.Apyno,
			Conyugue:           normalizeFlag(row.Conyugue),
			Hijos:              row.Hijos,
			Adherentes:         row.Adherentes,
			CodigoSituacion:    row.CodigoSituacion,
			CodigoCondicion:    row.CodigoCondicion,
			CodigoZona:         row.CodigoZona,
			CodigoActividad:    row.CodigoActividad,
			CodigoContratacion: row.CodigoContratacion,
			Regimen:            row.Regimen,
			TrabajadorConvenc:  row.TrabajadorConvenc,
			ProvinciaLocalidad: row.ProvinciaLocalidad,
			AporteAdicional:    aporte,
			Estado:             row.Estado,
			Licencia:           row.Licencia,
			CodigoOS:           codigoOS,
		})
	}
	return out, nil
}

func (e *Extractor) Conceptos(_ context.Context, _, _ int, filter []int) ([]domain.ConceptoRow, error) {
	var rows []conceptoRow
	if err := readJSON(filepath.Join(e.Dir, "conceptos.json"), &rows); err != nil {
		return nil, err
	}
	allowed := toSet(filter)
	out := make([]domain.ConceptoRow, 0, len(rows))
	for _, row := range rows {
		if allowed != nil && !allowed[row.NroLegaj] {
			continue
		}
		amount, err := e.parseDecimalWarn("conceptos", "impp_conce", row.ImppConce)
		if err != nil {
			return nil, err
		}
		nov1, err := e.parseDecimalWarn("conceptos", "nov1_conce", row.Nov1Conce)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ConceptoRow{
			NroLegaj:        row.NroLegaj,
			CodnConce:       row.CodnConce,
			ImppConce:       amount,
			TipoConce:       row.TipoConce,
			Nov1Conce:       nov1,
			NroOrimp:        row.NroOrimp,
			TiposGrupos:     row.TiposGrupos,
			CodigoEscalafon: row.CodigoEscalafon,
			EsInvestigador:  row.EsInvestigador,
		})
	}
	return out, nil
}

func (e *Extractor) OtraActividad(_ context.Context, _, _ int, filter []int) ([]domain.OtraActividad, error) {
	var rows []otraActividadRow
	if err := readJSON(filepath.Join(e.Dir, "otra_actividad.json"), &rows); err != nil {
		return nil, err
	}
	allowed := toSet(filter)
	out := make([]domain.OtraActividad, 0, len(rows))
	for _, row := range rows {
		if allowed != nil && !allowed[row.NroLegaj] {
			continue
		}
		bruto, err := parseDecimal("otra_actividad", "importe_bruto_otra_actividad", row.ImporteBrutoOtraActividad)
		if err != nil {
			return nil, err
		}
		sac, err := parseDecimal("otra_actividad", "importe_sac_otra_actividad", row.ImporteSACOtraActividad)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.OtraActividad{
			NroLegaj:                  row.NroLegaj,
			ImporteBrutoOtraActividad: bruto,
			ImporteSACOtraActividad:   sac,
		})
	}
	return out, nil
}

func (e *Extractor) ObraSocial(_ context.Context, _, _ int, filter []int) ([]domain.ObraSocial, error) {
	var rows []obraSocialRow
	if err := readJSON(filepath.Join(e.Dir, "obra_social.json"), &rows); err != nil {
		return nil, err
	}
	allowed := toSet(filter)
	out := make([]domain.ObraSocial, 0, len(rows))
	for _, row := range rows {
		if allowed != nil && !allowed[row.NroLegaj] {
			continue
		}
		out = append(out, domain.ObraSocial{NroLegaj: row.NroLegaj, CodigoOS: row.CodigoOS})
	}
	return out, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // missing table modeled as empty, not an error
	}
	if err != nil {
		return &sicosserr.InputShapeError{Table: filepath.Base(path), Reason: err.Error()}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &sicosserr.InputShapeError{Table: filepath.Base(path), Reason: err.Error()}
	}
	return nil
}

func parseDecimal(table, column, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &sicosserr.InputShapeError{Table: table, Column: column, Reason: err.Error()}
	}
	return d, nil
}

// parseDecimalWarn treats an unparseable amount as 0 instead of failing the
// whole run, logging a warning so the bad row is still visible to an operator.
func (e *Extractor) parseDecimalWarn(table, column, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		e.logger().Warn("ignoring unparseable amount, treating as 0", "table", table, "column", column, "value", s)
		return decimal.Zero, nil
	}
	return d, nil
}

func normalizeFlag(n int) int {
	if n > 0 {
		return 1
	}
	return 0
}

func toSet(filter []int) map[int]bool {
	if len(filter) == 0 {
		return nil
	}
	set := make(map[int]bool, len(filter))
	for _, n := range filter {
		set[n] = true
	}
	return set
}
