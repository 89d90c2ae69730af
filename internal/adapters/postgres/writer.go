// Package postgres implements the DatabaseWriter stage: it
// maps each surviving record onto a row of suc.afip_mapuche_sicoss and bulk
// inserts in chunks using lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/cristianfloyd/sicoss-go/internal/domain"
	"github.com/cristianfloyd/sicoss-go/internal/ports"
	"github.com/cristianfloyd/sicoss-go/internal/sicosserr"
)

const chunkSize = 1000

const createTableSQL = `
CREATE SCHEMA IF NOT EXISTS suc;
CREATE TABLE IF NOT EXISTS suc.afip_mapuche_sicoss (
	periodo_fiscal       char(6)       NOT NULL,
	cuil                 varchar(11)   NOT NULL,
	apnom                varchar(40)   NOT NULL,
	conyuge              bool          NOT NULL,
	cant_hijos           int           NOT NULL,
	cod_situacion        int           NOT NULL,
	cod_cond             int           NOT NULL,
	cod_act              int           NOT NULL,
	cod_zona             int           NOT NULL,
	porc_aporte          numeric(5,2)  NOT NULL,
	cod_mod_cont         int           NOT NULL,
	cod_os               char(6)       NOT NULL,
	cant_adh             int           NOT NULL,
	rem_total            numeric(12,2) NOT NULL,
	rem_impo1            numeric(12,2) NOT NULL,
	rem_impo2            numeric(12,2) NOT NULL,
	rem_impo3            numeric(12,2) NOT NULL,
	rem_impo4            numeric(12,2) NOT NULL,
	rem_impo5            numeric(12,2) NOT NULL,
	rem_impo6            numeric(12,2) NOT NULL,
	rem_imp7             numeric(12,2) NOT NULL,
	rem_imp9             numeric(12,2) NOT NULL,
	rem_dec_788          numeric(12,2) NOT NULL,
	sac                  numeric(12,2) NOT NULL,
	horas_extras         numeric(12,2) NOT NULL,
	zona_desfav          numeric(12,2) NOT NULL,
	vacaciones           numeric(12,2) NOT NULL,
	sueldo_adicc         numeric(12,2) NOT NULL,
	adicionales          numeric(12,2) NOT NULL,
	premios              numeric(12,2) NOT NULL,
	cpto_no_remun        numeric(12,2) NOT NULL,
	maternidad           numeric(12,2) NOT NULL,
	rectificacion_remun  numeric(9,2)  NOT NULL,
	asig_fam_pag         numeric(9,2)  NOT NULL,
	aporte_vol           numeric(9,2)  NOT NULL,
	imp_adic_os          numeric(9,2)  NOT NULL,
	aporte_adic_os       numeric(9,2)  NOT NULL,
	ley                  numeric(12,2) NOT NULL,
	incsalarial          numeric(12,2) NOT NULL,
	remimp11             numeric(12,2) NOT NULL,
	sit_rev1             int           NOT NULL,
	sit_rev2             int           NOT NULL,
	sit_rev3             int           NOT NULL,
	dia_ini_sit_rev1     int           NOT NULL,
	dia_ini_sit_rev2     int           NOT NULL,
	dia_ini_sit_rev3     int           NOT NULL,
	cant_dias_trab       int           NOT NULL,
	convencionado        int           NOT NULL,
	tipo_oper            int           NOT NULL,
	nro_horas_ext        int           NOT NULL,
	hstrab               int           NOT NULL,
	seguro               int           NOT NULL,
	marca_reduccion      int           NOT NULL,
	tipo_empresa         int           NOT NULL,
	regimen              int           NOT NULL
)`

// Writer implements ports.DatabaseWriter against a Postgres connection pool.
type Writer struct {
	db *sql.DB
}

func Open(dataSourceName string) (*Writer, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, &sicosserr.OutputWriteError{Target: "postgres: open", Err: err}
	}
	return &Writer{db: db}, nil
}

func New(db *sql.DB) *Writer { return &Writer{db: db} }

func (w *Writer) Close() error { return w.db.Close() }

// EnsureSchema creates the target schema/table if absent. It does not
// create indices.
func (w *Writer) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, createTableSQL); err != nil {
		return &sicosserr.OutputWriteError{Target: "suc.afip_mapuche_sicoss", Err: err}
	}
	return nil
}

// Write maps records onto rows and inserts them in chunks of up to 1000,
// In Replace mode, existing rows for periodoFiscal are
// deleted first, in the same transaction as the first chunk.
func (w *Writer) Write(ctx context.Context, periodoFiscal string, records []*domain.Record, mode ports.InsertMode) (int, error) {
	if err := validatePeriodo(periodoFiscal); err != nil {
		return 0, err
	}
	for _, r := range records {
		if err := validateLengths(r); err != nil {
			return 0, err
		}
	}

	inserted := 0
	for i := 0; i < len(records); i += chunkSize {
		if err := ctx.Err(); err != nil {
			return inserted, sicosserr.ErrCancelled
		}
		end := i + chunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[i:end]

		tx, err := w.db.BeginTx(ctx, nil)
		if err != nil {
			return inserted, &sicosserr.OutputWriteError{Target: "suc.afip_mapuche_sicoss", Err: err}
		}

		if i == 0 && mode == ports.Replace {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM suc.afip_mapuche_sicoss WHERE periodo_fiscal = $1`, periodoFiscal); err != nil {
				tx.Rollback()
				return inserted, &sicosserr.OutputWriteError{Target: "suc.afip_mapuche_sicoss", Err: err}
			}
		}

		n, err := insertChunk(ctx, tx, periodoFiscal, chunk)
		if err != nil {
			tx.Rollback()
			return inserted, &sicosserr.OutputWriteError{Target: "suc.afip_mapuche_sicoss", Err: err}
		}
		if err := tx.Commit(); err != nil {
			return inserted, &sicosserr.OutputWriteError{Target: "suc.afip_mapuche_sicoss", Err: err}
		}
		inserted += n
	}
	return inserted, nil
}

func validatePeriodo(p string) error {
	if len(p) != 6 {
		return &sicosserr.InputShapeError{Table: "suc.afip_mapuche_sicoss", Column: "periodo_fiscal", Reason: "must be 6 chars (YYYYMM)"}
	}
	return nil
}

func validateLengths(r *domain.Record) error {
	if len(r.CUIT) > 11 {
		return &sicosserr.InputShapeError{Table: "suc.afip_mapuche_sicoss", Column: "cuil", Reason: "exceeds 11 chars"}
	}
	if len(r.Apyno) > 40 {
		return &sicosserr.InputShapeError{Table: "suc.afip_mapuche_sicoss", Column: "apnom", Reason: "exceeds 40 chars"}
	}
	if len(r.CodigoOS) != 6 {
		return &sicosserr.InputShapeError{Table: "suc.afip_mapuche_sicoss", Column: "cod_os", Reason: "must be exactly 6 chars"}
	}
	if len(r.ProvinciaLocalidad) > 50 {
		return &sicosserr.InputShapeError{Table: "suc.afip_mapuche_sicoss", Column: "prov", Reason: "exceeds 50 chars"}
	}
	return nil
}

const columnList = `periodo_fiscal, cuil, apnom, conyuge, cant_hijos, cod_situacion, cod_cond,
	cod_act, cod_zona, porc_aporte, cod_mod_cont, cod_os, cant_adh,
	rem_total, rem_impo1, rem_impo2, rem_impo3, rem_impo4, rem_impo5, rem_impo6,
	rem_imp7, rem_imp9, rem_dec_788, sac, horas_extras, zona_desfav, vacaciones,
	sueldo_adicc, adicionales, premios, cpto_no_remun, maternidad,
	rectificacion_remun, asig_fam_pag, aporte_vol, imp_adic_os, aporte_adic_os,
	ley, incsalarial, remimp11, sit_rev1, sit_rev2, sit_rev3, dia_ini_sit_rev1,
	dia_ini_sit_rev2, dia_ini_sit_rev3, cant_dias_trab, convencionado, tipo_oper,
	nro_horas_ext, hstrab, seguro, marca_reduccion, tipo_empresa, regimen`

const columnsPerRow = 55

func insertChunk(ctx context.Context, tx *sql.Tx, periodoFiscal string, records []*domain.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO suc.afip_mapuche_sicoss (%s) VALUES ", columnList)

	args := make([]any, 0, len(records)*columnsPerRow)
	for i, r := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < columnsPerRow; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", len(args)+1)
			args = append(args, rowValue(periodoFiscal, r, c))
		}
		sb.WriteString(")")
	}

	res, err := tx.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// rowValue returns the value for column index c (matching columnList's
// order), grounded in the original system's field mapping.
func rowValue(periodoFiscal string, r *domain.Record, c int) any {
	switch c {
	case 0:
		return periodoFiscal
	case 1:
		return r.CUIT
	case 2:
		return r.Apyno
	case 3:
		return r.Conyugue != 0
	case 4:
		return r.Hijos
	case 5:
		return r.CodigoSituacion
	case 6:
		return r.CodigoCondicion
	case 7:
		return r.CodigoActividad
	case 8:
		return r.CodigoZona
	case 9:
		return r.AporteAdicional.StringFixed(2)
	case 10:
		return r.CodigoContratacion
	case 11:
		return r.CodigoOS
	case 12:
		return r.Adherentes
	case 13:
		return r.ImporteBruto.StringFixed(2)
	case 14:
		return r.ImporteImpon.StringFixed(2)
	case 15:
		return r.ImporteImponiblePatronal.StringFixed(2)
	case 16:
		return r.ImporteImponibleSinSAC.StringFixed(2) // rem_impo3: not separately named by this pipeline
	case 17:
		return r.ImporteImponible4.StringFixed(2)
	case 18:
		return r.ImporteImponible5.StringFixed(2)
	case 19:
		return r.ImporteImponible6.StringFixed(2)
	case 20:
		return decimal.Zero.StringFixed(2) // rem_imp7: no imponible_7 defined by this pipeline
	case 21:
		return r.ImporteImponible9.StringFixed(2)
	case 22:
		return r.Remuner78805.StringFixed(2)
	case 23:
		return r.ImporteSAC.StringFixed(2)
	case 24:
		return r.ImporteHorasExtras.StringFixed(2)
	case 25:
		return r.ImporteZonaDesfavorable.StringFixed(2)
	case 26:
		return r.ImporteVacaciones.StringFixed(2)
	case 27:
		return r.ImporteSueldoMasAdicionales.StringFixed(2)
	case 28:
		return r.ImporteAdicionales.StringFixed(2)
	case 29:
		return r.ImportePremios.StringFixed(2)
	case 30:
		return r.ImporteNoRemun.StringFixed(2)
	case 31:
		return r.ImporteMaternidad.StringFixed(2)
	case 32:
		return r.ImporteRectificacionRemun.StringFixed(2)
	case 33:
		return r.AsignacionesFliaresPagadas.StringFixed(2)
	case 34:
		return r.ImporteVoluntario.StringFixed(2)
	case 35:
		return r.ImporteAdicionalOS.StringFixed(2)
	case 36:
		return r.AporteAdicionalObraSocial.StringFixed(2)
	case 37:
		return r.ImporteSICOSS27430.StringFixed(2)
	case 38:
		return r.IncrementoSolidario.StringFixed(2)
	case 39:
		return decimal.Zero.StringFixed(2) // remimp11: no imponible_11 defined by this pipeline
	case 40:
		return r.CodigoRevista1
	case 41:
		return r.CodigoRevista2
	case 42:
		return r.CodigoRevista3
	case 43:
		return r.FechaRevista1
	case 44:
		return r.FechaRevista2
	case 45:
		return r.FechaRevista3
	case 46:
		return r.DiasTrabajados
	case 47:
		return boolToInt(r.TrabajadorConvenc == "S")
	case 48:
		return r.TipoDeOperacion
	case 49:
		return ceilInt(r.CantidadHorasExtras)
	case 50:
		return 0 // hstrab: hours worked, not tracked by this pipeline's inputs
	case 51:
		return boolToInt(r.SeguroVidaObligatorio)
	case 52:
		return 0 // marca_reduccion: no reduction-marker input modeled
	case 53:
		return 0 // tipo_empresa: not part of the legajo/concepto inputs
	case 54:
		return regimenCode(r.Regimen)
	default:
		panic(fmt.Sprintf("postgres: column index %d out of range", c))
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ceilInt(d decimal.Decimal) int {
	f, _ := d.Float64()
	i := int(f)
	if f > float64(i) {
		i++
	}
	return i
}

func regimenCode(regimen string) int {
	if regimen == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(regimen[:1]))
	if err != nil {
		return 0
	}
	return n
}
