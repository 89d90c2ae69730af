// Package pipeline wires the SICOSS stages into a single run:
// Extractor -> ConceptAggregator -> CalculationStage ->
// CeilingStage -> Validator -> {TextEncoder, DatabaseWriter, Totals}.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cristianfloyd/sicoss-go/internal/adapters/aggregator"
	"github.com/cristianfloyd/sicoss-go/internal/adapters/calculation"
	"github.com/cristianfloyd/sicoss-go/internal/adapters/topes"
	"github.com/cristianfloyd/sicoss-go/internal/adapters/validator"
	"github.com/cristianfloyd/sicoss-go/internal/config"
	"github.com/cristianfloyd/sicoss-go/internal/domain"
	"github.com/cristianfloyd/sicoss-go/internal/ports"
	"github.com/cristianfloyd/sicoss-go/internal/sicosserr"
)

// Result is the output of a run: its identifier, the surviving records,
// control totals, and any non-fatal warnings raised during ceiling
// application.
type Result struct {
	// RunID distinguishes this run's log lines from those of any other
	// concurrent run. It is a log attribute only; no database column holds it.
	RunID    string
	Records  []*domain.Record
	Totals   domain.Totals
	Warnings []sicosserr.ArithmeticWarning
}

// Pipeline holds the immutable dependencies of a run: configuration and the
// extractor. Stages are constructed fresh per Run from Config, since they
// are pure functions of it.
type Pipeline struct {
	Config    config.Config
	Extractor ports.Extractor
	Logger    *slog.Logger
}

func New(cfg config.Config, extractor ports.Extractor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Config: cfg, Extractor: extractor, Logger: logger}
}

// Run executes one fiscal period end to end, single-threaded.
func (p *Pipeline) Run(ctx context.Context, year, month int, legajoFilter []int) (Result, error) {
	runID := uuid.New().String()
	logger := p.Logger.With("run_id", runID, "periodo_fiscal", periodoFiscal(year, month))

	legajos, conceptos, otraActividad, obraSocial, err := p.extract(ctx, year, month, legajoFilter)
	if err != nil {
		return Result{}, err
	}
	records := buildRecords(legajos, conceptos, otraActividad, obraSocial, p.Config, logger)
	if err := ctx.Err(); err != nil {
		return Result{}, sicosserr.ErrCancelled
	}
	survivors, rejected, warnings := runStages(records, p.Config, logger)
	return Result{
		RunID:    runID,
		Records:  survivors,
		Totals:   sumTotals(survivors, rejected),
		Warnings: warnings,
	}, nil
}

// periodoFiscal renders the fiscal period as the YYYYMM string this
// pipeline uses to key both its log lines and the database batch.
func periodoFiscal(year, month int) string {
	return fmt.Sprintf("%04d%02d", year, month)
}

// RunPartitioned splits the employee set into n partitions and runs the
// pipeline's compute stages concurrently, one goroutine per partition.
// Extraction still happens once, up front; only the pure stages run in
// parallel, since no employee's result depends on another's.
func (p *Pipeline) RunPartitioned(ctx context.Context, year, month int, legajoFilter []int, n int) (Result, error) {
	if n <= 1 {
		return p.Run(ctx, year, month, legajoFilter)
	}

	runID := uuid.New().String()
	logger := p.Logger.With("run_id", runID, "periodo_fiscal", periodoFiscal(year, month))

	legajos, conceptos, otraActividad, obraSocial, err := p.extract(ctx, year, month, legajoFilter)
	if err != nil {
		return Result{}, err
	}
	records := buildRecords(legajos, conceptos, otraActividad, obraSocial, p.Config, logger)

	partitions := partition(records, n)
	results := make([][]*domain.Record, len(partitions))
	warningSets := make([][]sicosserr.ArithmeticWarning, len(partitions))
	rejectedCounts := make([]int, len(partitions))

	g, gctx := errgroup.WithContext(ctx)
	for i, part := range partitions {
		i, part := i, part
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return sicosserr.ErrCancelled
			}
			survivors, rejected, warnings := runStages(part, p.Config, logger.With("partition", i))
			results[i] = survivors
			warningSets[i] = warnings
			rejectedCounts[i] = rejected
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var allSurvivors []*domain.Record
	var allWarnings []sicosserr.ArithmeticWarning
	totalRejected := 0
	for i := range partitions {
		allSurvivors = append(allSurvivors, results[i]...)
		allWarnings = append(allWarnings, warningSets[i]...)
		totalRejected += rejectedCounts[i]
	}
	return Result{
		RunID:    runID,
		Records:  allSurvivors,
		Totals:   sumTotals(allSurvivors, totalRejected),
		Warnings: allWarnings,
	}, nil
}

func (p *Pipeline) extract(ctx context.Context, year, month int, legajoFilter []int) (
	[]domain.Legajo, []domain.ConceptoRow, []domain.OtraActividad, []domain.ObraSocial, error,
) {
	legajos, err := p.Extractor.Legajos(ctx, year, month, legajoFilter)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	conceptos, err := p.Extractor.Conceptos(ctx, year, month, legajoFilter)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	otraActividad, err := p.Extractor.OtraActividad(ctx, year, month, legajoFilter)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	obraSocial, err := p.Extractor.ObraSocial(ctx, year, month, legajoFilter)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return legajos, conceptos, otraActividad, obraSocial, nil
}

// buildRecords runs the ConceptAggregator, applies the situations path and
// the convencionado default, and folds in the secondary-employment and
// obra-social overrides before the record reaches CalculationStage.
func buildRecords(
	legajos []domain.Legajo,
	conceptos []domain.ConceptoRow,
	otraActividad []domain.OtraActividad,
	obraSocial []domain.ObraSocial,
	cfg config.Config,
	logger *slog.Logger,
) []*domain.Record {
	agg := aggregator.New(logger)
	records := agg.Run(legajos, conceptos)
	applyRetroSituations(records, cfg)
	applyConvencionadoDefault(records, cfg)

	byLegajo := make(map[int]*domain.Record, len(records))
	for _, r := range records {
		byLegajo[r.NroLegaj] = r
	}
	for _, oa := range otraActividad {
		if r, ok := byLegajo[oa.NroLegaj]; ok {
			r.ImporteBrutoOtraActividad = oa.ImporteBrutoOtraActividad
			r.ImporteSACOtraActividad = oa.ImporteSACOtraActividad
		}
	}
	for _, os := range obraSocial {
		if r, ok := byLegajo[os.NroLegaj]; ok && os.CodigoOS != "" {
			r.CodigoOS = os.CodigoOS
		}
	}
	return records
}

// applyRetroSituations mirrors the original system's retroactive-situations
// path: when both CheckRetro and CheckLic are set, every licensed legajo's
// situation code is remapped to 13 and its worked days are zeroed, replacing
// the 30-day default NewRecord seeds.
func applyRetroSituations(records []*domain.Record, cfg config.Config) {
	if !cfg.CheckRetro || !cfg.CheckLic {
		return
	}
	for _, r := range records {
		if r.Licencia {
			r.CodigoSituacion = 13
			r.DiasTrabajados = 0
		}
	}
}

// applyConvencionadoDefault fills TrabajadorConvenc with the configured
// default when the legajo's own value is empty.
func applyConvencionadoDefault(records []*domain.Record, cfg config.Config) {
	def := cfg.TrabajadorConvencionadoDef
	if def == "" {
		def = "S"
	}
	for _, r := range records {
		if r.TrabajadorConvenc == "" {
			r.TrabajadorConvenc = def
		}
	}
}

// runStages applies CalculationStage, CeilingStage and Validator in order
// to one set of records (a full run or one partition).
func runStages(records []*domain.Record, cfg config.Config, logger *slog.Logger) ([]*domain.Record, int, []sicosserr.ArithmeticWarning) {
	calc := calculation.New(cfg.PorcAporteAdicionalJub, logger)
	calc.Run(records)

	ceiling := topes.New(topes.Params{
		TopeJubilatorioPatronal:    cfg.TopeJubilatorioPatronal,
		TopeJubilatorioPersonal:    cfg.TopeJubilatorioPersonal,
		TopeOtrosAportesPersonales: cfg.TopeOtrosAportesPersonales,
		TruncaTope:                 cfg.TruncaTope,
		ARTConTope:                 cfg.ARTConTope,
		ConceptosNoRemunEnART:      cfg.ConceptosNoRemunEnART,
		FamilyAllowanceIntoGross:   cfg.FamilyAllowanceIntoGross,
		InformarBecarios:           cfg.InformarBecarios,
	}, logger)
	ceiling.Run(records)

	v := validator.New(validator.Params{
		IncludeLicenses: cfg.IncludeLicenses,
		CheckSinActivo:  cfg.CheckSinActivo,
	})
	survivors, rejected := v.Run(records)

	return survivors, rejected, ceiling.Warnings
}

// sumTotals reduces survivors into control totals, each rounded to 2 decimals.
func sumTotals(survivors []*domain.Record, rejected int) domain.Totals {
	var t domain.Totals
	for _, r := range survivors {
		t.Add(domain.Totals{
			Bruto:      r.ImporteBruto,
			Imponible1: r.ImporteImpon,
			Imponible2: r.ImporteImponiblePatronal,
			Imponible4: r.ImporteImponible4,
			Imponible5: r.ImporteImponible5,
			Imponible6: r.ImporteImponible6,
			Imponible8: r.Remuner78805,
			Imponible9: r.ImporteImponible9,
		})
	}
	t.Bruto = t.Bruto.Round(2)
	t.Imponible1 = t.Imponible1.Round(2)
	t.Imponible2 = t.Imponible2.Round(2)
	t.Imponible4 = t.Imponible4.Round(2)
	t.Imponible5 = t.Imponible5.Round(2)
	t.Imponible6 = t.Imponible6.Round(2)
	t.Imponible8 = t.Imponible8.Round(2)
	t.Imponible9 = t.Imponible9.Round(2)
	t.Surviving = len(survivors)
	t.Rejected = rejected
	return t
}

func partition(records []*domain.Record, n int) [][]*domain.Record {
	if n <= 0 {
		n = 1
	}
	if n > len(records) {
		n = len(records)
	}
	if n <= 1 {
		return [][]*domain.Record{records}
	}
	out := make([][]*domain.Record, n)
	base := len(records) / n
	rem := len(records) % n
	idx := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		out[i] = records[idx : idx+size]
		idx += size
	}
	return out
}
