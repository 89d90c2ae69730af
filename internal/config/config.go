// Package config holds the SICOSS run configuration: the three monetary
// ceilings, the truncate switch, and the boolean feature flags that drive
// the pipeline stages.
package config

import (
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cristianfloyd/sicoss-go/internal/sicosserr"
)

// Config is the immutable, per-run SICOSS configuration.
type Config struct {
	TopeJubilatorioPatronal      decimal.Decimal `yaml:"tope_jubilatorio_patronal"`
	TopeJubilatorioPersonal      decimal.Decimal `yaml:"tope_jubilatorio_personal"`
	TopeOtrosAportesPersonales   decimal.Decimal `yaml:"tope_otros_aportes_personales"`
	TruncaTope                   bool            `yaml:"trunca_tope"`
	IncludeLicenses              bool            `yaml:"include_licenses"`
	IncludeRetroactive           bool            `yaml:"include_retroactive"`
	FamilyAllowanceIntoGross     bool            `yaml:"asignacion_familiar"`
	ARTConTope                   bool            `yaml:"art_con_tope"`
	ConceptosNoRemunEnART        bool            `yaml:"conceptos_no_remun_en_art"`
	InformarBecarios             bool            `yaml:"informar_becarios"`
	CheckLic                     bool            `yaml:"check_lic"`
	CheckRetro                   bool            `yaml:"check_retro"`
	CheckSinActivo               bool            `yaml:"check_sin_activo"`
	TrabajadorConvencionadoDef   string          `yaml:"trabajador_convencionado"`
	PorcAporteAdicionalJub       decimal.Decimal `yaml:"porc_aporte_adicional_jubilacion"`
}

// TopeSACPatronal is half of TopeJubilatorioPatronal.
func (c Config) TopeSACPatronal() decimal.Decimal {
	return c.TopeJubilatorioPatronal.Div(decimal.NewFromInt(2))
}

// TopeSACPersonal is half of TopeJubilatorioPersonal.
func (c Config) TopeSACPersonal() decimal.Decimal {
	return c.TopeJubilatorioPersonal.Div(decimal.NewFromInt(2))
}

// TopeSACOtro is half of TopeOtrosAportesPersonales.
func (c Config) TopeSACOtro() decimal.Decimal {
	return c.TopeOtrosAportesPersonales.Div(decimal.NewFromInt(2))
}

// Validate enforces the configuration invariants that raise a
// ConfigurationError: ceilings must be positive and the additional-jubilation
// percentage must fall within [0, 200].
func (c Config) Validate() error {
	if c.TopeJubilatorioPatronal.LessThanOrEqual(decimal.Zero) {
		return &sicosserr.ConfigurationError{Field: "tope_jubilatorio_patronal", Reason: "must be > 0"}
	}
	if c.TopeJubilatorioPersonal.LessThanOrEqual(decimal.Zero) {
		return &sicosserr.ConfigurationError{Field: "tope_jubilatorio_personal", Reason: "must be > 0"}
	}
	if c.TopeOtrosAportesPersonales.LessThanOrEqual(decimal.Zero) {
		return &sicosserr.ConfigurationError{Field: "tope_otros_aportes_personales", Reason: "must be > 0"}
	}
	zero, max := decimal.Zero, decimal.NewFromInt(200)
	if c.PorcAporteAdicionalJub.LessThan(zero) || c.PorcAporteAdicionalJub.GreaterThan(max) {
		return &sicosserr.ConfigurationError{
			Field:  "porc_aporte_adicional_jubilacion",
			Reason: "must be within [0, 200]",
		}
	}
	return nil
}

// Load reads a Config from a YAML document at path and validates it.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &sicosserr.ConfigurationError{Field: path, Reason: err.Error()}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &sicosserr.ConfigurationError{Field: path, Reason: err.Error()}
	}
	if cfg.TrabajadorConvencionadoDef == "" {
		cfg.TrabajadorConvencionadoDef = "S"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
